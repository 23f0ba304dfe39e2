package api

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	loginScreenPath    = "/login"
	defaultLandingPath = "/"
)

// publicPrefixes are path prefixes that never require a cookie: the login
// screen, static assets, health/metrics, docs, and the BFF auth routes that
// manage authentication state themselves.
var publicPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/healthz",
	"/metrics",
	"/api/openapi.yaml",
	"/api/docs",
	"/api/redoc",
	"/api/login",
	"/api/session",
	"/api/refresh",
	"/api/logout",
}

// isPublicPath reports whether a request path bypasses the gate.
func isPublicPath(path string) bool {
	if path == loginScreenPath {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RouteGate is middleware gating every incoming request on cookie presence.
//
// It checks presence only, never validity: an expired-but-present token
// passes the gate and is caught by the session check or a downstream 401.
func RouteGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		_, hasCookie := tokenFromRequest(r)

		if path == loginScreenPath {
			if hasCookie {
				// Already authenticated: bounce off the login screen to the
				// requested target, dropping any query string it carried.
				target := r.URL.Query().Get("next")
				http.Redirect(w, r, sanitizeNext(target), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		if !hasCookie {
			q := url.Values{"next": {path}}
			http.Redirect(w, r, loginScreenPath+"?"+q.Encode(), http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sanitizeNext returns a safe same-site redirect target. Anything that is not
// a plain absolute path (scheme-relative URLs included) falls back to the
// default landing path, and the query string is stripped.
func sanitizeNext(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return defaultLandingPath
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return defaultLandingPath
	}
	return target
}
