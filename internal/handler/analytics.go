package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func (h *Handler) AnalyticsSummaryHandler(rw http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to load summary", zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.writeJSON(rw, http.StatusOK, summary)
}

func (h *Handler) AnalyticsTopHandler(rw http.ResponseWriter, r *http.Request) {
	links, err := h.service.Top(r.Context(), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.Error("Failed to load top links", zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.writeJSON(rw, http.StatusOK, links)
}

func (h *Handler) AnalyticsRecentHandler(rw http.ResponseWriter, r *http.Request) {
	links, err := h.service.Recent(r.Context(), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.Error("Failed to load recent links", zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.writeJSON(rw, http.StatusOK, links)
}

// parseLimit falls back to the default for missing, malformed or
// non-positive values and caps the rest.
func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
