package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig configures the dev stub server's routes.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
}

// NewRouter mounts the Finance API under /api/finance and the blog feed under /api/blogs.
func NewRouter(cfg RouterConfig, finance *FinanceHandler, blogs *BlogHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := AuthMiddleware(cfg.JWTSecret)

	r.Route("/api/finance", func(r chi.Router) {
		r.Get("/categories", finance.Categories)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/dashboard", finance.Dashboard)
			r.Post("/setup", finance.Setup)
			r.Post("/transactions", finance.CreateTransaction)
			r.Delete("/transactions/{id}", finance.DeleteTransaction)
		})
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", blogs.List)
		r.With(auth).Post("/", blogs.Create)
	})

	return r
}
