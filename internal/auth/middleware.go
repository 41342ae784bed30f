package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/models"
)

// UserLookup loads the user a token subject refers to.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// JWTAuth attaches a Principal for requests carrying a valid bearer token.
// Requests without one pass through unauthenticated; Authenticated rejects
// them where a caller is required.
func JWTAuth(jwtSvc *JWTService, users UserLookup, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")

			username, err := jwtSvc.ExtractUserName(raw)
			if err != nil {
				apperr.WriteHTTP(w, r, lg, err)
				return
			}
			u, err := users.FindByUsername(r.Context(), username)
			if err != nil || u == nil || u.IsDeleted {
				lg.Debugw("token for unknown user", "username", username)
				apperr.WriteHTTP(w, r, lg, apperr.Unauthorized("Usuario no autorizado"))
				return
			}
			if !jwtSvc.IsTokenValid(raw, u) {
				apperr.WriteHTTP(w, r, lg, apperr.InvalidToken(invalidTokenMsg))
				return
			}

			p := Principal{UserID: u.ID, Username: u.Username, Roles: u.RoleNames()}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Authenticated rejects requests that JWTAuth did not attach a principal to.
func Authenticated(lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				apperr.WriteHTTP(w, r, lg, apperr.Unauthorized("Se requiere autenticación"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows only principals holding role.
func RequireRole(role string, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				apperr.WriteHTTP(w, r, lg, apperr.Unauthorized("Se requiere autenticación"))
				return
			}
			if !p.HasRole(role) {
				apperr.WriteHTTP(w, r, lg, apperr.Forbidden("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
