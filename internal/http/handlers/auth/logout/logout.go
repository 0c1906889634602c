// Package logout реализует HTTP-обработчик выхода из сессии.
// Сервер не хранит сессий, поэтому выход — это стирание cookie у клиента.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/config"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
)

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log    *slog.Logger        // Логгер для записи операций и ошибок
	cookie config.SessionToken // Настройки сессионной cookie
}

// New создает новый Handler с переданными логгером и настройками cookie.
func New(log *slog.Logger, cookie config.SessionToken) *Handler {
	return &Handler{
		log:    log,
		cookie: cookie,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Стирает сессионную cookie у клиента.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("session cookie cleared")
	render.JSON(w, r, response.StatusOKWithData(nil))
}
