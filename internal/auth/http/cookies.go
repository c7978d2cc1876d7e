package http

import (
	"net/http"
	"time"
)

const refreshCookieName = "refreshToken"

// setRefreshCookie stores the refresh token as an httpOnly cookie scoped to
// the auth path it was issued for, so admin and client cookies never shadow
// each other in the same browser.
func setRefreshCookie(w http.ResponseWriter, path, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshTokenFromRequest reads the refresh cookie; empty when absent.
func refreshTokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
