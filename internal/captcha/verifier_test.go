package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Enabled(t *testing.T) {
	var nilVerifier *Verifier
	assert.False(t, nilVerifier.Enabled())
	assert.False(t, NewVerifier("", "secret").Enabled())
	assert.False(t, NewVerifier("http://cap", "").Enabled())
	assert.True(t, NewVerifier("http://cap", "secret").Enabled())

	assert.NoError(t, NewVerifier("", "").Verify(context.Background(), ""))
}

func TestVerifier_Verify(t *testing.T) {
	type want struct {
		err     bool
		request bool
	}

	tests := []struct {
		name   string
		token  string
		status int
		body   string
		want   want
	}{
		{name: "accepted", token: "tok", status: http.StatusOK, body: `{"success":true}`, want: want{request: true}},
		{name: "rejected", token: "tok", status: http.StatusOK, body: `{"success":false}`, want: want{err: true, request: true}},
		{name: "server error", token: "tok", status: http.StatusInternalServerError, body: `{"success":true}`, want: want{err: true, request: true}},
		{name: "malformed body", token: "tok", status: http.StatusOK, body: `not json`, want: want{err: true, request: true}},
		{name: "missing token", token: "", status: http.StatusOK, body: `{"success":true}`, want: want{err: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req verifyRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "secret", req.Secret)
				assert.Equal(t, tt.token, req.Response)

				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v := NewVerifier(srv.URL, "secret")
			err := v.Verify(context.Background(), tt.token)
			if tt.want.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want.request, called)
		})
	}
}
