package auth

import (
	"net/http"
	"strings"

	"github.com/spitex-domus/domus-backend/internal/auth/jwt"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
)

// RequireAuth validates the Bearer token and stores the caller's
// identity in the request context.
func RequireAuth(manager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, errors.Unauthorized("invalid authorization header"))
				return
			}

			claims, err := manager.Validate(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.Subject, claims.EmployeeID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !httputil.IsAdmin(r.Context()) {
			httputil.Error(w, errors.Forbidden("administrator role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
