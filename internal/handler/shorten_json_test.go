package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/shortslug/internal/models"
)

func TestShortenJSONHandler(t *testing.T) {
	type want struct {
		statusCode int
		result     bool
	}

	tests := []struct {
		name        string
		body        string
		contentType string
		want        want
	}{
		{
			name:        "positive test",
			body:        `{"url":"https://practicum.yandex.ru"}`,
			contentType: "application/json",
			want:        want{statusCode: http.StatusCreated, result: true},
		},
		{
			name:        "positive: content type with charset",
			body:        `{"url":"https://example.com"}`,
			contentType: "application/json; charset=utf-8",
			want:        want{statusCode: http.StatusCreated, result: true},
		},
		{
			name:        "negative: wrong content type",
			body:        `{"url":"https://practicum.yandex.ru"}`,
			contentType: "text/plain",
			want:        want{statusCode: http.StatusBadRequest},
		},
		{
			name:        "negative: invalid json",
			body:        `{"url":`,
			contentType: "application/json",
			want:        want{statusCode: http.StatusBadRequest},
		},
		{
			name:        "negative: unknown field",
			body:        `{"link":"https://practicum.yandex.ru"}`,
			contentType: "application/json",
			want:        want{statusCode: http.StatusBadRequest},
		},
		{
			name:        "negative: empty url",
			body:        `{"url":""}`,
			contentType: "application/json",
			want:        want{statusCode: http.StatusBadRequest},
		},
		{
			name:        "negative: empty body",
			body:        ``,
			contentType: "application/json",
			want:        want{statusCode: http.StatusBadRequest},
		},
		{
			name:        "negative: too large",
			body:        `{"url":"https://example.com/` + strings.Repeat("a", maxBodySize) + `"}`,
			contentType: "application/json",
			want:        want{statusCode: http.StatusRequestEntityTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, WithBaseURL("http://localhost:8080"))

			req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			result, body := serve(t, h, req)
			assert.Equal(t, tt.want.statusCode, result.StatusCode)

			if tt.want.result {
				assert.Equal(t, "application/json", result.Header.Get("Content-Type"))

				var resp models.ShortenResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.True(t, strings.HasPrefix(resp.Result, "http://localhost:8080/"))
				assert.Len(t, strings.TrimPrefix(resp.Result, "http://localhost:8080/"), 6)
			}
		})
	}
}

func TestShortenJSONHandler_Conflict(t *testing.T) {
	h, _ := newTestHandler(t, WithBaseURL("http://localhost:8080"))

	send := func() (*http.Response, models.ShortenResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url":"https://duplicate.example"}`))
		req.Header.Set("Content-Type", "application/json")
		result, body := serve(t, h, req)

		var resp models.ShortenResponse
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		return result, resp
	}

	first, firstResp := send()
	second, secondResp := send()

	assert.Equal(t, http.StatusCreated, first.StatusCode)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Equal(t, firstResp.Result, secondResp.Result)
}
