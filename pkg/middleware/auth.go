package middleware

import (
	"net/http"
	"strings"

	"catalog-review/pkg/security"
	"catalog-review/pkg/utils"

	"go.uber.org/zap"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

// ItemManagerPolicy decides whether an identity may mutate catalog items.
type ItemManagerPolicy interface {
	CanManageItems(identity utils.Identity) bool
}

// Auth verifies the bearer token and attaches the caller identity to the context.
// A missing token is 401, a token that fails verification is 403.
func Auth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseForbidden(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), utils.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireItemManager must run after Auth.
func RequireItemManager(policy ItemManagerPolicy, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !policy.CanManageItems(identity) {
				logger.Warn("Item management denied",
					zap.String("user_id", identity.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Not allowed to manage items")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
