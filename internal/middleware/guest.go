package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/undercover/pkg/auth"
)

const (
	GuestIDKey   = "guestID"
	GuestRoomKey = "guestRoom"

	GuestCookie = "uc_guest"
	RoomCookie  = "uc_room"
)

// GuestIdentity reads the signed guest token if there is one. Requests without a
// valid token pass through anonymous; RequireGuest rejects them where needed.
func GuestIdentity(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.Request, GuestCookie)
		if err != nil {
			c.Next()
			return
		}
		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(GuestIDKey, claims.Subject)
		c.Set(GuestRoomKey, claims.Room)
		c.Next()
	}
}

// RequireGuest aborts with GUEST_REQUIRED when GuestIdentity found no guest.
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GuestID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "GUEST_REQUIRED"})
			return
		}
		c.Next()
	}
}

// GuestID returns the caller's guest id or "".
func GuestID(c *gin.Context) string {
	return c.GetString(GuestIDKey)
}

// GuestRoom returns the room code the caller's token was issued for.
func GuestRoom(c *gin.Context) string {
	return c.GetString(GuestRoomKey)
}
