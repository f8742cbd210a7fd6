package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenHandler(t *testing.T) {
	type want struct {
		statusCode  int
		contentType string
		bodyPrefix  string
	}

	tests := []struct {
		name    string
		request string
		body    string
		method  string
		want    want
	}{
		{
			name:    "positive test",
			request: "/",
			body:    "https://practicum.yandex.ru/",
			method:  http.MethodPost,
			want: want{
				statusCode:  http.StatusCreated,
				contentType: "text/plain",
				bodyPrefix:  "http://localhost:8080/",
			},
		},
		{
			name:    "negative: empty body",
			request: "/",
			body:    "",
			method:  http.MethodPost,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "text/plain; charset=utf-8",
				bodyPrefix:  "Empty body\n",
			},
		},
		{
			name:    "negative: invalid url",
			request: "/",
			body:    "http://",
			method:  http.MethodPost,
			want: want{
				statusCode:  http.StatusBadRequest,
				contentType: "text/plain; charset=utf-8",
				bodyPrefix:  "Bad Request\n",
			},
		},
		{
			name:    "negative: wrong method",
			request: "/",
			body:    "https://practicum.yandex.ru/",
			method:  http.MethodGet,
			want: want{
				statusCode:  http.StatusMethodNotAllowed,
				contentType: "text/plain; charset=utf-8",
				bodyPrefix:  "Method Not Allowed\n",
			},
		},
		{
			name:    "negative: wrong path",
			request: "/api",
			body:    "https://practicum.yandex.ru/",
			method:  http.MethodGet,
			want: want{
				statusCode:  http.StatusNotFound,
				contentType: "text/plain; charset=utf-8",
				bodyPrefix:  "404 NOT FOUND!",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, WithBaseURL("http://localhost:8080"))

			req := httptest.NewRequest(tt.method, tt.request, strings.NewReader(tt.body))
			result, body := serve(t, h, req)

			assert.Equal(t, tt.want.statusCode, result.StatusCode)
			assert.Equal(t, tt.want.contentType, result.Header.Get("Content-Type"))
			assert.True(t, strings.HasPrefix(body, tt.want.bodyPrefix), "body %q", body)
		})
	}
}

func TestShortenHandler_Conflict(t *testing.T) {
	h, _ := newTestHandler(t, WithBaseURL("http://localhost:8080"))

	first, firstBody := serve(t, h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("https://duplicate.yandex.ru")))
	assert.Equal(t, http.StatusCreated, first.StatusCode)

	second, secondBody := serve(t, h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("https://duplicate.yandex.ru")))
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
}
