package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/cvmatch/internal/logger"
	"github.com/kailas-cloud/cvmatch/internal/metrics"
)

// exemptPaths stay open for probes and scrapers.
var exemptPaths = map[string]struct{}{
	"/health":          {},
	metrics.ScrapePath: {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if reason, msg := authenticate(r.Header.Get("Authorization"), keys); reason != "" {
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				logpkg.FromContext(r.Context()).Warn("Request rejected",
					zap.String("reason", reason),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authenticate returns an empty reason when the header carries a known key.
func authenticate(header string, keys [][]byte) (reason, msg string) {
	if header == "" {
		return "missing", "missing authorization header"
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(header, bearerPrefix) {
		return "scheme", "authorization header must use Bearer scheme"
	}

	token := []byte(header[len(bearerPrefix):])
	match := 0
	for _, k := range keys {
		// Every key is compared so timing does not reveal which one matched.
		match |= subtle.ConstantTimeCompare(token, k)
	}
	if match != 1 {
		return "invalid", "invalid api key"
	}
	return "", ""
}
