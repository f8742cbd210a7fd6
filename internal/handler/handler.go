package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/captcha"
	"github.com/mmeshcher/shortslug/internal/service"
)

const maxBodySize = 1 << 20

type Handler struct {
	service           *service.ShortenerService
	logger            *zap.Logger
	baseURL           string
	shortenPassword   string
	analyticsPassword string
	verifier          *captcha.Verifier
}

type Option func(*Handler)

// WithBaseURL fixes the public origin of short links. Without it the origin
// is taken from the request and its forwarding headers.
func WithBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithShortenPassword(password string) Option {
	return func(h *Handler) {
		h.shortenPassword = password
	}
}

func WithAnalyticsPassword(password string) Option {
	return func(h *Handler) {
		h.analyticsPassword = password
	}
}

func WithVerifier(v *captcha.Verifier) Option {
	return func(h *Handler) {
		h.verifier = v
	}
}

func NewHandler(svc *service.ShortenerService, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: svc,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyURL),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(rw http.ResponseWriter, status int, payload any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
