package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Patasheva/congrats-analyzer/internal/metrics"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", app.UploadPageHandler)
	r.Post("/analyze", app.AnalyzeHandler)
	r.Get("/runs", app.RunsPartialHandler)
	r.Get("/ping", PingHandler)
	r.Handle("/metrics", metrics.Handler())

	return r
}
