package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/undercover/internal/game"
)

// respondError writes {"error": CODE} with the status matching the error's kind.
func respondError(c *gin.Context, err error) {
	var gameErr *game.Error
	if errors.As(err, &gameErr) {
		if gameErr.Kind == game.KindInternal {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		}
		c.JSON(gameErr.Kind.Status(), gin.H{"error": gameErr.Code})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_BODY"})
}
