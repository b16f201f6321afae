package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/undercover/internal/handlers/dto"
	"github.com/thereayou/undercover/internal/middleware"
	"github.com/thereayou/undercover/internal/services"
)

type GameHandler struct {
	games services.GameService
	// epoch keeps ETags from one process apart from another's.
	epoch string
}

func NewGameHandler(games services.GameService) *GameHandler {
	return &GameHandler{games: games, epoch: uuid.NewString()[:8]}
}

// State отдает снимок комнаты; If-None-Match с текущим ETag дает 304
func (h *GameHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	code, guestID := c.Query("code"), middleware.GuestID(c)

	rev, err := h.games.Poll(ctx, code, guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	if rev > 0 {
		etag := fmt.Sprintf(`"%s-%d-%s"`, h.epoch, rev, guestID)
		c.Header("ETag", etag)
		c.Header("Cache-Control", "no-cache")
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	snap, err := h.games.Snapshot(ctx, code, guestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) Start(c *gin.Context) {
	var req dto.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	round, err := h.games.Start(c.Request.Context(), req.Code, middleware.GuestID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StartResponse{OK: true, RoomCode: req.Code, RoundID: round.ID.String()})
}

func (h *GameHandler) AssignRoles(c *gin.Context) {
	h.simple(c, h.games.AssignRoles)
}

func (h *GameHandler) Vote(c *gin.Context) {
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	outcome, err := h.games.CastVote(c.Request.Context(), req.Code, middleware.GuestID(c), req.TargetPlayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.VoteResponse{
		OK:       true,
		Resolved: outcome.Resolved,
		Tied:     outcome.Tied,
		Phase:    string(outcome.Phase),
		Status:   string(outcome.Status),
	}
	if outcome.EliminatedPlayerID != nil {
		id := outcome.EliminatedPlayerID.String()
		resp.EliminatedPlayerID = &id
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) MrWhiteGuess(c *gin.Context) {
	var req dto.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	correct, err := h.games.SubmitGuess(c.Request.Context(), req.Code, middleware.GuestID(c), req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GuessResponse{OK: true, Correct: correct})
}

// NextVote reopens voting in the same round.
func (h *GameHandler) NextVote(c *gin.Context) {
	h.simple(c, h.games.ContinueRound)
}

func (h *GameHandler) NextRound(c *gin.Context) {
	var req dto.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	round, err := h.games.NextRound(c.Request.Context(), req.Code, middleware.GuestID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "roundId": round.ID.String(), "roundNumber": round.RoundNumber})
}

func (h *GameHandler) Reset(c *gin.Context) {
	h.simple(c, h.games.Reset)
}

func (h *GameHandler) Ready(c *gin.Context) {
	h.simple(c, h.games.MarkReady)
}

func (h *GameHandler) Unready(c *gin.Context) {
	h.simple(c, h.games.UnmarkReady)
}

func (h *GameHandler) Secret(c *gin.Context) {
	secret, err := h.games.Secret(c.Request.Context(), c.Query("code"), middleware.GuestID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SecretResponse{
		PlayerID: secret.PlayerID.String(),
		Role:     string(secret.Role),
		Word:     secret.Word,
	})
}

func (h *GameHandler) Heartbeat(c *gin.Context) {
	var req dto.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	handover, err := h.games.Heartbeat(c.Request.Context(), req.Code, middleware.GuestID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.HeartbeatResponse{OK: true, Handover: handover})
}

// simple handles the {code} actions that answer {"ok": true}.
func (h *GameHandler) simple(c *gin.Context, op func(ctx context.Context, code, guestID string) error) {
	var req dto.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	if err := op(c.Request.Context(), req.Code, middleware.GuestID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
