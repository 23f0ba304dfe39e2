// Package web serves the server-rendered dashboard pages: the login screen
// and the alerts dashboard shell. Both are display-only consumers of the BFF;
// all authentication state lives in the auth cookie.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/* static/*
var content embed.FS

// reasonMessages maps forced-redirect reason codes to the contextual message
// shown above the login form.
var reasonMessages = map[string]string{
	"session_expired": "Your session has expired. Please sign in again.",
	"token_expired":   "Your session is no longer valid. Please sign in again.",
}

type loginPageData struct {
	Message string
	Next    string
}

// Handler returns an http.Handler serving the dashboard pages and their
// static assets. It expects to sit behind the route gate: by the time a
// request reaches the dashboard page, the auth cookie is present.
func Handler() (http.Handler, error) {
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))

	mux := http.NewServeMux()
	mux.Handle("GET /static/", static)

	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		data := loginPageData{
			Message: reasonMessages[r.URL.Query().Get("reason")],
			Next:    r.URL.Query().Get("next"),
		}
		renderPage(w, tmpl, "login.html", data)
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, tmpl, "dashboard.html", nil)
	})

	return mux, nil
}

func renderPage(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
