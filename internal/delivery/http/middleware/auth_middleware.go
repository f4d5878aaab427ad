package middleware

import (
	"context"
	"net/http"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/utils"
)

// AuthMiddleware requires a valid bearer token and stores the caller in the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := utils.BearerToken(r)
		if tokenString == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims.UserID() == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}

		// The token is trusted as is; no database lookup per request.
		user := &domain.User{
			ID:      claims.UserID(),
			Email:   claims.Email,
			IsAdmin: claims.IsAdmin,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated caller, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(domain.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
