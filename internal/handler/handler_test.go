package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/repository"
	"github.com/mmeshcher/shortslug/internal/service"
)

func newTestHandler(t *testing.T, opts ...Option) (*Handler, *repository.MemoryRepository) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	svc := service.NewShortenerService(repo, nil, zap.NewNop(), service.DefaultCodeLength)
	return NewHandler(svc, zap.NewNop(), opts...), repo
}

func newHandlerWithStore(store service.Store, opts ...Option) *Handler {
	svc := service.NewShortenerService(store, nil, zap.NewNop(), service.DefaultCodeLength)
	return NewHandler(svc, zap.NewNop(), opts...)
}

func serve(t *testing.T, h *Handler, req *http.Request) (*http.Response, string) {
	t.Helper()

	w := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(w, req)

	result := w.Result()
	t.Cleanup(func() { result.Body.Close() })

	body, err := io.ReadAll(result.Body)
	require.NoError(t, err)

	return result, string(body)
}
