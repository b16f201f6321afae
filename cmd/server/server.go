package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/database"
	"github.com/thereayou/undercover/internal/game"
	"github.com/thereayou/undercover/internal/handlers"
	"github.com/thereayou/undercover/internal/middleware"
	"github.com/thereayou/undercover/internal/revision"
	"github.com/thereayou/undercover/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Engine     *game.Engine

	port int
}

func NewServer(cfg *Config) (*Server, error) {
	dbConn, err := database.Connect(cfg.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	var rdb *redis.Client
	var revisions game.Revisions = revision.NewMemoryTracker()
	if cfg.redisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		revisions = revision.NewRedisTracker(rdb)
	} else {
		log.Warn().Msg("REDIS_URL not set, state revisions are local to this process")
	}

	words := game.DefaultWordPool
	if cfg.wordsFile != "" {
		if words, err = game.LoadWordPool(cfg.wordsFile); err != nil {
			return nil, err
		}
	}
	tiePolicy, err := game.ParseTiePolicy(cfg.tiePolicy)
	if err != nil {
		return nil, err
	}

	engine := game.New(dbConn, revisions, game.Config{
		HostTimeout: time.Duration(cfg.hostTimeout) * time.Second,
		TiePolicy:   tiePolicy,
		RevealGate:  cfg.revealGate,
		Words:       words,
	})
	jwtMgr := auth.NewJWTManager(cfg.jwtSecret, cfg.guestTTL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if len(cfg.corsOrigins) > 0 {
		router.Use(corsMiddleware(cfg.corsOrigins))
	}
	APIEndpoints(router, Handlers{
		Room:    handlers.NewRoomHandler(engine, jwtMgr, cfg.secureCookies),
		Game:    handlers.NewGameHandler(engine),
		Health:  healthCheck(dbConn, rdb),
		JWT:     jwtMgr,
		Limiter: middleware.NewIPRateLimiter(cfg.rateLimit, cfg.rateBurst),
	})

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Engine:     engine,
		port:       cfg.port,
	}, nil
}

// corsMiddleware admits only the listed origins. Guest cookies ride along, so
// without a list the server stays same-origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Content-Type", "Origin", "If-None-Match"},
		ExposeHeaders:    []string{"ETag"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func healthCheck(db *database.Database, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": err.Error()})
			return
		}
		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.port).Msg("server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)

	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if cerr := s.DB.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
