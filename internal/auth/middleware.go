package auth

import (
	"net/http"
	"strings"

	"github.com/vendaflow/vendaflow/internal/platform/httpx"
	"github.com/vendaflow/vendaflow/internal/shared"
)

// RequireUser authenticates the bearer access token and injects the
// caller identity into the request context.
func RequireUser(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			uc, err := issuer.Parse(raw)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithUser(r.Context(), uc)))
		})
	}
}
