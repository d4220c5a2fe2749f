package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/techforum-dev/techforum/internal/middleware"
	"github.com/techforum-dev/techforum/internal/setup"
)

// New creates and configures the chi router with all routes.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(deps.Metrics.Middleware)

	// setup CORS for the frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, no scripts/styles needed
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Route("/threads", func(r chi.Router) {
			// Read paths are public; a valid token still identifies the
			// reader for request logs and future per-user responses
			r.Group(func(r chi.Router) {
				r.Use(authMw.OptionalAuth())
				r.Get("/", h.GetThreads)
				r.Get("/{thread}", h.GetThread)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Post("/", h.CreateThread)
				r.Patch("/{thread}", h.EditThread)
				r.Put("/{thread}/lock", h.LockThread)
				r.Put("/{thread}/answer", h.MarkAnswered)
				r.Post("/{thread}/comments", h.CreateComment)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.ModeratorOnly())
				r.Delete("/{thread}", h.DeleteThread)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMw.ModeratorOnly())
				r.Get("/", h.GetUsers)
			})
			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Get("/{user}", h.GetUser)
			})
		})
	})

	return r
}
