package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tipsdash/internal/api"
	"tipsdash/internal/config"
	"tipsdash/internal/state"
)

func newRouter(cfg *config.Config, s *state.AppState, logHandler slog.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logHandler, slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	// CORS for the JSON API
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Instance-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	api.NewHandler(s).RegisterRoutes(r)
	return r
}
