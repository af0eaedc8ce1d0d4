// Package server is the demo resource server the CLI and the integration
// tests point the interceptor at. It accepts exactly one bearer token and
// answers 401 for everything else, which is all the interceptor needs from
// a peer.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sessionkit/sessionkit-go/internal/httpx"
	"github.com/sessionkit/sessionkit-go/internal/mw"
	"github.com/sessionkit/sessionkit-go/internal/version"
)

type Options struct {
	// Token is the only bearer token /protected accepts.
	Token      string
	EnableCORS bool
	DevNoStore bool
}

func BuildRouter(opts Options, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if opts.DevNoStore {
		r.Use(mw.NoStore)
	}

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	for _, m := range extra {
		r.Use(m)
	}

	r.Use(mw.Trace())
	r.Use(mw.Logger(mw.LogOpts{
		SkipPaths:     []string{"/healthz", "/version"},
		RedactHeaders: []string{"Authorization"},
	}))

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, version.Get())
	})

	// anonymous endpoint that still answers 401: the interceptor must not
	// invalidate anything over it
	r.Get("/public", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteUnauthorized(w, "Bearer", "authentication required")
	})

	r.Group(func(pr chi.Router) {
		pr.Use(requireBearer(opts.Token))
		pr.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		pr.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			tok, _ := httpx.ExtractBearerToken(r.Header.Get("Authorization"))
			httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": tok})
		})
	})

	return r
}

func requireBearer(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := httpx.ExtractBearerToken(r.Header.Get("Authorization"))
			if !ok || expected == "" || tok != expected {
				httpx.WriteUnauthorized(w, "Bearer", "invalid or missing token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}
