package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/undercover/internal/middleware"
	"github.com/thereayou/undercover/pkg/auth"
)

type cookieIssuer struct {
	jwt    *auth.JWTManager
	secure bool
}

// issue signs the guest token for roomCode and sets both cookies.
func (ci cookieIssuer) issue(c *gin.Context, guestID, roomCode string) error {
	token, err := ci.jwt.Generate(guestID, roomCode)
	if err != nil {
		return err
	}
	maxAge := int(ci.jwt.TokenDuration().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.GuestCookie, token, maxAge, "/", "", ci.secure, true)
	c.SetCookie(middleware.RoomCookie, roomCode, maxAge, "/", "", ci.secure, false)
	return nil
}

func (ci cookieIssuer) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.GuestCookie, "", -1, "/", "", ci.secure, true)
	c.SetCookie(middleware.RoomCookie, "", -1, "/", "", ci.secure, false)
}
