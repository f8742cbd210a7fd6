package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/handler"
	"github.com/mmeshcher/shortslug/internal/repository"
	"github.com/mmeshcher/shortslug/internal/service"
)

func TestClient_Shorten(t *testing.T) {
	type want struct {
		result   string
		err      bool
		apiError int
		calls    int32
	}

	tests := []struct {
		name   string
		input  string
		status int
		body   string
		want   want
	}{
		{
			name:   "composes origin and short_url",
			input:  "https://example.com/a?b=c",
			status: http.StatusOK,
			body:   `{"status":"200","status_message":"OK","short_url":"abc123"}`,
			want:   want{result: "/abc123", calls: 1},
		},
		{
			name:  "empty url makes no request",
			input: "",
			want:  want{err: true, calls: 0},
		},
		{
			name:  "blank url makes no request",
			input: "   ",
			want:  want{err: true, calls: 0},
		},
		{
			name:   "server error is reported",
			input:  "https://example.com",
			status: http.StatusServiceUnavailable,
			body:   `{"status":"503","status_message":"Failed to create short URL."}`,
			want:   want{err: true, apiError: http.StatusServiceUnavailable, calls: 1},
		},
		{
			name:   "missing short_url",
			input:  "https://example.com",
			status: http.StatusOK,
			body:   `{"status":"200"}`,
			want:   want{err: true, calls: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/shorten_url", r.URL.Path)
				assert.Equal(t, tt.input, r.URL.Query().Get("url"))
				assert.Equal(t, int64(0), r.ContentLength)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := New(srv.URL, srv.Client()).Shorten(context.Background(), tt.input)

			assert.Equal(t, tt.want.calls, calls.Load())
			if tt.want.err {
				require.Error(t, err)
				if tt.want.apiError != 0 {
					var apiErr *APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.want.apiError, apiErr.StatusCode)
					assert.Equal(t, "Failed to create short URL.", apiErr.Message)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, srv.URL+tt.want.result, got)
		})
	}
}

func TestClient_RoundTripAgainstServer(t *testing.T) {
	svc := service.NewShortenerService(repository.NewMemoryRepository(), nil, zap.NewNop(), service.DefaultCodeLength)
	srv := httptest.NewServer(handler.NewHandler(svc, zap.NewNop()).SetupRouter())
	defer srv.Close()

	shortURL, err := New(srv.URL+"/", srv.Client()).Shorten(context.Background(), "https://example.com/landing")
	require.NoError(t, err)

	noFollow := srv.Client()
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := noFollow.Get(shortURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "https://example.com/landing", resp.Header.Get("Location"))
}
