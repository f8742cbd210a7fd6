package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

const AnalyticsPasswordHeader = "X-Analytics-Password"

// RequireHeaderSecret guards routes with a shared secret sent in header.
// With an empty secret the routes are hidden and answer 404.
func RequireHeaderSecret(header, secret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.NotFound(w, r)
				return
			}

			if !SecureCompare(r.Header.Get(header), secret) {
				logger.Warn("Rejected request with invalid secret",
					zap.String("uri", r.RequestURI),
					zap.String("remote", r.RemoteAddr))
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecureCompare compares secrets in constant time.
func SecureCompare(got, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
