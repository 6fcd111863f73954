package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	// RefreshCookiePath limits the refresh token to the endpoint that spends it.
	RefreshCookiePath = "/api/refresh"
)

// CookieJar writes the session token pair as HttpOnly, SameSite=Lax cookies.
type CookieJar struct {
	Domain string
	Secure bool
}

func NewCookieJar(domain string, secure bool) *CookieJar {
	return &CookieJar{Domain: domain, Secure: secure}
}

// SetTokens stores both tokens; each cookie expires with its token.
func (j *CookieJar) SetTokens(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, access, secondsUntil(aexp), "/", j.Domain, j.Secure, true)
	c.SetCookie(RefreshTokenCookie, refresh, secondsUntil(rexp), RefreshCookiePath, j.Domain, j.Secure, true)
}

// Clear expires both cookies on the paths they were set with.
func (j *CookieJar) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", j.Domain, j.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, RefreshCookiePath, j.Domain, j.Secure, true)
}

func secondsUntil(exp time.Time) int {
	return max(int(time.Until(exp).Seconds()), 0)
}
