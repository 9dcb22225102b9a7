package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/utils"
)

const (
	SessionCookieName = "session_token"

	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenVerifier is the part of utils.TokenManager the gate needs.
type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

// SetSessionCookie writes the session cookie: HttpOnly, SameSite=Strict,
// path "/", Secure only when secure is true.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// CurrentUserID returns the id the gate stored for a verified session.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
