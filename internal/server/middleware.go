package server

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/gemvault/storefront/internal/auth"
	"gitlab.com/gemvault/storefront/internal/domain"
)

type claimsKey struct{}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// requireRole accepts only bearer tokens carrying role. A missing or bad
// token is a 401, a valid token with another role a 403.
func (s *Server) requireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="storefront"`)
				respondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := s.tokens.Validate(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="storefront", error="invalid_token"`)
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
			if claims.Role != role {
				respondError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// corsMiddleware lets the courier dashboard's browser test tool reach the
// webhook endpoints.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Webhook-Signature, anx-api-key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
