package main

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/undercover/internal/handlers"
	"github.com/thereayou/undercover/internal/middleware"
	"github.com/thereayou/undercover/pkg/auth"
)

type Handlers struct {
	Room    *handlers.RoomHandler
	Game    *handlers.GameHandler
	Health  gin.HandlerFunc
	JWT     *auth.JWTManager
	Limiter *middleware.IPRateLimiter
}

func APIEndpoints(r *gin.Engine, h Handlers) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(middleware.GuestIdentity(h.JWT))

	// Room endpoints
	room := api.Group("/room")
	{
		limited := middleware.RateLimit(h.Limiter)
		room.POST("/create", limited, h.Room.CreateRoom)
		room.POST("/join", limited, h.Room.JoinRoom)
		room.POST("/leave", h.Room.LeaveRoom)
		room.POST("/end", middleware.RequireGuest(), h.Room.EndRoom)
		room.POST("/config", middleware.RequireGuest(), h.Room.SetRoleQuotas)
		room.GET("/state", middleware.RequireGuest(), h.Game.State)
	}

	// Game endpoints
	g := api.Group("/game", middleware.RequireGuest())
	{
		g.GET("/state", h.Game.State)
		g.GET("/secret", h.Game.Secret)
		g.POST("/start", h.Game.Start)
		g.POST("/assign", h.Game.AssignRoles)
		g.POST("/vote", h.Game.Vote)
		g.POST("/mrwhite-guess", h.Game.MrWhiteGuess)
		g.POST("/nextvote", h.Game.NextVote)
		g.POST("/nextround", h.Game.NextRound)
		g.POST("/reset", h.Game.Reset)
		g.POST("/ready", h.Game.Ready)
		g.POST("/unready", h.Game.Unready)
	}

	api.POST("/heartbeat", middleware.RequireGuest(), h.Game.Heartbeat)
}
