package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
)

// OptionalSessionMiddleware заполняет контекст данными пользователя, если
// сессионная cookie есть и валидна, и молча пропускает запрос дальше в любом
// случае. Используется на открытых ручках, где роль сужает видимость данных.
func OptionalSessionMiddleware(authService Service, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ValidateToken(r.Context(), cookie.Value)
			if err != nil {
				log.Warn("ignoring invalid session cookie", slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
