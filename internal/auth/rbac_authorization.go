package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates back-office routes on staff permissions. It runs
// after AuthMiddleware, which puts the user in the request context.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		logger: logger,
	}
}

func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasPermission(permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permission", permission,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireManageOrders() func(http.Handler) http.Handler {
	return ra.Require(PermissionManageOrders)
}

func (ra *RBACAuthorization) RequireManageSettings() func(http.Handler) http.Handler {
	return ra.Require(PermissionManageSettings)
}

func (ra *RBACAuthorization) RequireManageCatalog() func(http.Handler) http.Handler {
	return ra.Require(PermissionManageCatalog)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(PermissionAdmin)
}
