package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mmeshcher/shortslug/internal/middleware"
)

func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.GzipMiddleware)

	r.Post("/", h.ShortenHandler)
	r.Get("/ping", h.PingHandler)
	r.Get("/{shortCode}", h.RedirectHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/shorten_url", h.ShortenURLHandler)
		r.Post("/shorten", h.ShortenJSONHandler)
		r.Post("/shorten/batch", h.ShortenBatchHandler)

		r.Route("/analytics", func(r chi.Router) {
			r.Use(middleware.RequireHeaderSecret(middleware.AnalyticsPasswordHeader, h.analyticsPassword, h.logger))

			r.Get("/summary", h.AnalyticsSummaryHandler)
			r.Get("/top", h.AnalyticsTopHandler)
			r.Get("/recent", h.AnalyticsRecentHandler)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	return r
}
