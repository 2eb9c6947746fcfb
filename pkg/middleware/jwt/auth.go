package jwt

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"notifier/pkg/lib/jwt"
	resp "notifier/pkg/lib/response"
)

type ctxKey string

const ServiceKey ctxKey = "service"

// NewServiceAuth accepts any valid service token. Used for document-event webhooks.
func NewServiceAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return newAuth(log.With(slog.String("op", "middlewareServiceAuth")), false)
}

// NewAdminAuth additionally requires the is_admin claim.
func NewAdminAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return newAuth(log.With(slog.String("op", "middlewareAdminAuth")), true)
}

func newAuth(log *slog.Logger, adminOnly bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log.Info("auth middleware enabled", slog.Bool("admin_only", adminOnly))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := jwt.ExtractJWTFromHeader(r)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			claims, err := jwt.ValidateJWT(tokenStr)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			if adminOnly && !claims.IsAdmin {
				log.Info("service is not admin", slog.String("service", claims.Service))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("access forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), ServiceKey, claims.Service)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Warn("auth error", slog.String("error", err.Error()))
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error(err.Error()))
}
