package apiapp

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/handlers"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

var (
	protectedPages = []string{"/dashboard", "/profile"}
	guestPages     = []string{"/login", "/register", "/forgot-password", "/reset-password"}
)

// PageGuard redirects page requests by session state: signed-out visitors
// leave the dashboard for /login, signed-in users skip the auth pages.
func PageGuard(tokens *authsvc.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, signedIn := tokens.Verify(handlers.SessionToken(r))

			switch {
			case !signedIn && matchesPage(r.URL.Path, protectedPages):
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			case signedIn && matchesPage(r.URL.Path, guestPages):
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchesPage(p string, pages []string) bool {
	for _, page := range pages {
		if p == page || strings.HasPrefix(p, page+"/") {
			return true
		}
	}
	return false
}

func registerPages(r chi.Router, tokens *authsvc.TokenManager, staticDir string) {
	pages := staticPages(staticDir)

	r.Group(func(r chi.Router) {
		r.Use(PageGuard(tokens))
		for _, page := range append(append([]string{}, protectedPages...), guestPages...) {
			r.Get(page, pages.ServeHTTP)
			r.Get(page+"/*", pages.ServeHTTP)
		}
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if staticDir != "" && req.Method == http.MethodGet && !strings.HasPrefix(req.URL.Path, "/api/") {
			pages.ServeHTTP(w, req)
			return
		}
		response.Write(w, http.StatusNotFound, response.Envelope{Message: "Route not found"})
	})
}

// staticPages serves an exported UI bundle. "/dashboard" resolves to
// dashboard.html or dashboard/index.html.
func staticPages(dir string) http.Handler {
	if dir == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			response.Write(w, http.StatusNotFound, response.Envelope{Message: "Page not available"})
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		base := filepath.Join(dir, filepath.FromSlash(clean))

		for _, candidate := range []string{base, base + ".html", filepath.Join(base, "index.html")} {
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}
		http.NotFound(w, r)
	})
}
