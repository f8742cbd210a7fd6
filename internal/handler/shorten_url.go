package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/middleware"
	"github.com/mmeshcher/shortslug/internal/models"
	"github.com/mmeshcher/shortslug/internal/service"
)

const (
	msgInvalidForm     = "Invalid form data."
	msgInvalidPassword = "Invalid password."
	msgBotCheckFailed  = "Bot verification failed."
	msgEmptyURL        = "Please enter a URL before shortening."
	msgInvalidURL      = "That URL doesn't look valid. Check the format and try again."
	msgCreateFailed    = "Failed to create short URL."
)

// ShortenURLHandler serves POST /api/shorten_url. The url may come from the
// query string or a form body. short_url in the reply is the bare code, so
// clients compose origin + "/" + short_url.
func (h *Handler) ShortenURLHandler(rw http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(rw, r.Body, maxBodySize)

	if err := r.ParseForm(); err != nil {
		h.writeShortenError(rw, http.StatusBadRequest, msgInvalidForm)
		return
	}

	if h.shortenPassword != "" && !middleware.SecureCompare(r.FormValue("password"), h.shortenPassword) {
		h.writeShortenError(rw, http.StatusUnauthorized, msgInvalidPassword)
		return
	}

	if h.verifier.Enabled() {
		if err := h.verifier.Verify(r.Context(), r.FormValue("cap-token")); err != nil {
			h.logger.Info("Bot verification failed", zap.Error(err))
			h.writeShortenError(rw, http.StatusBadRequest, msgBotCheckFailed)
			return
		}
	}

	mapping, err := h.service.Shorten(r.Context(), r.FormValue("url"))
	if err != nil && !errors.Is(err, service.ErrURLAlreadyExists) {
		status := statusForError(err)
		switch {
		case errors.Is(err, service.ErrEmptyURL):
			h.writeShortenError(rw, status, msgEmptyURL)
		case errors.Is(err, service.ErrInvalidURL):
			h.writeShortenError(rw, status, msgInvalidURL)
		default:
			h.writeShortenError(rw, status, msgCreateFailed)
		}
		return
	}

	h.writeJSON(rw, http.StatusOK, models.ShortenURLResponse{
		Status:        strconv.Itoa(http.StatusOK),
		StatusMessage: "OK",
		ShortCode:     mapping.ShortCode,
		ShortURL:      mapping.ShortCode,
		FullURL:       service.ShortURL(h.baseURLForRequest(r), mapping.ShortCode),
	})
}

func (h *Handler) writeShortenError(rw http.ResponseWriter, status int, message string) {
	h.writeJSON(rw, status, models.ShortenURLResponse{
		Status:        strconv.Itoa(status),
		StatusMessage: message,
	})
}
