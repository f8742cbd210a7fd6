package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequireHeaderSecret(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	type want struct {
		statusCode int
	}

	tests := []struct {
		name   string
		secret string
		header string
		want   want
	}{
		{name: "disabled without secret", secret: "", header: "", want: want{statusCode: http.StatusNotFound}},
		{name: "disabled ignores header", secret: "", header: "anything", want: want{statusCode: http.StatusNotFound}},
		{name: "missing header", secret: "s3cret", header: "", want: want{statusCode: http.StatusUnauthorized}},
		{name: "wrong header", secret: "s3cret", header: "guess", want: want{statusCode: http.StatusUnauthorized}},
		{name: "correct header", secret: "s3cret", header: "s3cret", want: want{statusCode: http.StatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
			if tt.header != "" {
				req.Header.Set(AnalyticsPasswordHeader, tt.header)
			}
			w := httptest.NewRecorder()

			RequireHeaderSecret(AnalyticsPasswordHeader, tt.secret, zap.NewNop())(ok).ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
		})
	}
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("s3cret", "s3cret"))
	assert.True(t, SecureCompare("", ""))
	assert.False(t, SecureCompare("s3cret", "s3cre"))
	assert.False(t, SecureCompare("", "s3cret"))
	assert.False(t, SecureCompare("S3CRET", "s3cret"))
}
