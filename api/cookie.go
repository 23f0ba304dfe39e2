package api

import (
	"net/http"
	"strings"
	"time"
)

const (
	// tokenCookieName is the sole persisted authentication state: an opaque
	// bearer token issued by the upstream, held in an HttpOnly cookie.
	tokenCookieName = "auth_token"

	// tokenCookieMaxAge is fixed at issuance; there is no sliding renewal
	// except through an explicit refresh, which resets it.
	tokenCookieMaxAge = 7 * 24 * time.Hour
)

// writeTokenCookie stores the bearer token. SameSite=Lax: sent on top-level
// navigation, withheld on cross-site subresources and POSTs.
func (a *API) writeTokenCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tokenCookieMaxAge.Seconds()),
	})
}

func (a *API) clearTokenCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// tokenFromRequest extracts the bearer token from the cookie, if present.
func tokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (a *API) cookieSecure(r *http.Request) bool {
	return a.forceSecure || requestIsSecure(r)
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Forwarded")), "proto=https")
}
