package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/game"
	"github.com/thereayou/undercover/internal/handlers/dto"
	"github.com/thereayou/undercover/internal/middleware"
	"github.com/thereayou/undercover/internal/services"
	"github.com/thereayou/undercover/pkg/auth"
)

type RoomHandler struct {
	rooms   services.RoomService
	cookies cookieIssuer
}

func NewRoomHandler(rooms services.RoomService, jwtManager *auth.JWTManager, secureCookies bool) *RoomHandler {
	return &RoomHandler{rooms: rooms, cookies: cookieIssuer{jwt: jwtManager, secure: secureCookies}}
}

// guestFor keeps the browser's guest id when it has one and mints a fresh one otherwise.
func guestFor(c *gin.Context) string {
	if id := middleware.GuestID(c); id != "" {
		return id
	}
	return uuid.NewString()
}

// CreateRoom создает комнату, вызывающий становится хостом
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	guestID := guestFor(c)
	room, player, err := h.rooms.CreateRoom(c.Request.Context(), guestID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.joined(c, guestID, room.Code, room.ID.String(), player.ID.String())
}

// JoinRoom добавляет вызывающего в лобби
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	guestID := guestFor(c)
	room, player, err := h.rooms.JoinRoom(c.Request.Context(), req.Code, guestID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.joined(c, guestID, room.Code, room.ID.String(), player.ID.String())
}

func (h *RoomHandler) joined(c *gin.Context, guestID, code, roomID, playerID string) {
	if err := h.cookies.issue(c, guestID, code); err != nil {
		log.Error().Err(err).Msg("signing guest token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
		return
	}
	c.JSON(http.StatusOK, dto.RoomJoinedResponse{
		RoomCode: code,
		RoomID:   roomID,
		GuestID:  guestID,
		PlayerID: playerID,
	})
}

// LeaveRoom always clears the caller's cookies, even without a room to leave.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	guestID := middleware.GuestID(c)
	code := c.Query("code")
	if code == "" {
		code = middleware.GuestRoom(c)
	}

	if guestID != "" && code != "" {
		if err := h.rooms.LeaveRoom(c.Request.Context(), code, guestID); err != nil {
			respondError(c, err)
			return
		}
	}
	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "cleared": true})
}

// EndRoom удаляет комнату целиком, только хост
func (h *RoomHandler) EndRoom(c *gin.Context) {
	if err := h.rooms.EndRoom(c.Request.Context(), c.Query("code"), middleware.GuestID(c)); err != nil {
		respondError(c, err)
		return
	}
	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "ended": true})
}

func (h *RoomHandler) SetRoleQuotas(c *gin.Context) {
	var req dto.RoleQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	if req.UndercoverCount == nil {
		respondError(c, game.ErrUndercoverCountInvalid)
		return
	}
	if req.MrWhiteCount == nil {
		respondError(c, game.ErrMrWhiteCountInvalid)
		return
	}

	err := h.rooms.SetRoleQuotas(c.Request.Context(), req.Code, middleware.GuestID(c), *req.UndercoverCount, *req.MrWhiteCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
