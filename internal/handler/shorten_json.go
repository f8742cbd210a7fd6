package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/models"
	"github.com/mmeshcher/shortslug/internal/service"
)

func (h *Handler) ShortenJSONHandler(rw http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest
	if err := decodeJSONBody(rw, r, &req); err != nil {
		h.writeDecodeError(rw, err)
		return
	}

	mapping, err := h.service.Shorten(r.Context(), req.URL)
	status := http.StatusCreated
	if err != nil {
		if !errors.Is(err, service.ErrURLAlreadyExists) {
			h.logger.Info("Failed to create short URL", zap.Error(err))
			status = statusForError(err)
			http.Error(rw, http.StatusText(status), status)
			return
		}
		status = http.StatusConflict
	}

	h.writeJSON(rw, status, models.ShortenResponse{
		Result: service.ShortURL(h.baseURLForRequest(r), mapping.ShortCode),
	})
}
