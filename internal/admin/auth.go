package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "companymatch/pkg/domain-errors"
	"companymatch/pkg/platform/httputil"
)

// RequireToken validates a Bearer JWT (HS256) on admin routes. Wired only
// when a signing key is configured; without one the routes stay open for
// development.
func RequireToken(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	key := []byte(signingKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenUnverifiable
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				if logger != nil {
					logger.WarnContext(r.Context(), "rejected admin request", "error", err)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
