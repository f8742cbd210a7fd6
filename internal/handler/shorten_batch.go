package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/models"
)

func (h *Handler) ShortenBatchHandler(rw http.ResponseWriter, r *http.Request) {
	var batch []models.BatchRequest
	if err := decodeJSONBody(rw, r, &batch); err != nil {
		h.writeDecodeError(rw, err)
		return
	}

	response, err := h.service.ShortenBatch(r.Context(), h.baseURLForRequest(r), batch)
	if err != nil {
		h.logger.Info("Failed to create batch URLs", zap.Error(err))
		status := statusForError(err)
		http.Error(rw, http.StatusText(status), status)
		return
	}

	h.writeJSON(rw, http.StatusCreated, response)
}
