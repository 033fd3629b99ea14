package middleware

import (
	"log/slog"
	"net/http"

	"github.com/codleo/cod-order-capture/internal/authz"
)

// AuthorizeMiddleware enforces an access policy for a fixed resource and
// action, using the role of the identity placed in the request context by
// the JWT middleware.
type AuthorizeMiddleware struct {
	authorizer authz.Authorizer
	logger     *slog.Logger
}

// NewAuthorizeMiddleware creates a new AuthorizeMiddleware instance
func NewAuthorizeMiddleware(authorizer authz.Authorizer, logger *slog.Logger) *AuthorizeMiddleware {
	return &AuthorizeMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// Require wraps next so it only runs when the caller's role is allowed to
// perform action on resource. Missing identity yields 401, a denied or
// failed policy evaluation yields 403 with no policy detail leaked.
func (m *AuthorizeMiddleware) Require(resource, action string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		allowed, err := m.authorizer.Authorize(r.Context(), identity.Role, resource, action)
		if err != nil {
			m.logger.Error("Failed to evaluate access policy", "error", err, "role", identity.Role, "resource", resource, "action", action)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if !allowed {
			m.logger.Warn("Access denied", "role", identity.Role, "resource", resource, "action", action)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
