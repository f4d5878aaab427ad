package middleware

import (
	"net/http"

	"ultimate-kits/pkg/utils"
)

// AdminMiddleware ensures the authenticated user carries the is_admin claim.
// MUST be used AFTER AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if !user.IsAdmin {
			utils.WriteError(w, http.StatusForbidden, "No tienes permisos de administrador")
			return
		}

		next.ServeHTTP(w, r)
	})
}
