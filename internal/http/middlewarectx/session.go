// Package middlewarectx содержит HTTP middleware для проверки cookie-сессии.
//
// SessionMiddleware читает сессионный токен из HTTP-only cookie, валидирует
// его и перечитывает пользователя из базы, после чего кладёт в контекст
// имя пользователя, UID и роль для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
)

// Service описывает интерфейс сервиса для валидации сессионного токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионную cookie.
//
// Роль и почта всегда берутся из свежей записи пользователя, а не из токена,
// поэтому смена роли администратором действует со следующего запроса.
func SessionMiddleware(authService Service, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Error("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing session cookie"))
				return
			}

			user, err := authService.ValidateToken(r.Context(), cookie.Value)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}
			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
