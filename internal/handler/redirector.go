package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/service"
)

const notFoundBody = "404 NOT FOUND!"

func (h *Handler) RedirectHandler(rw http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortCode")

	originalURL, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeNotFound(rw)
			return
		}

		h.logger.Error("Failed to resolve short URL", zap.String("code", code), zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(rw, r, originalURL, http.StatusMovedPermanently)
}

func writeNotFound(rw http.ResponseWriter) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(http.StatusNotFound)
	rw.Write([]byte(notFoundBody))
}
