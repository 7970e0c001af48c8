package handlers

import (
	"net/http"
	"time"
)

const SessionCookieName = "accessToken"

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

func (c CookieConfig) set(w http.ResponseWriter, token string) {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
