package handler

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/service"
)

func (h *Handler) ShortenHandler(rw http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxBodySize))
	if err != nil {
		http.Error(rw, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		http.Error(rw, "Empty body", http.StatusBadRequest)
		return
	}

	mapping, err := h.service.Shorten(r.Context(), string(body))
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

	rw.Header().Set("Content-Type", "text/plain")
	rw.WriteHeader(status)
	rw.Write([]byte(service.ShortURL(h.baseURLForRequest(r), mapping.ShortCode)))
}
