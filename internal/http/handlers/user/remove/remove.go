// Package remove реализует HTTP-обработчик удаления пользователя администратором.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на удаление пользователя.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Хранилище пользователей
}

// Service описывает интерфейс удаления пользователя.
type Service interface {
	RemoveUser(ctx context.Context, userUID string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет пользователя по UID вместе с его пакетами и заказами. Доступно только администратору.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		log.Error("missing user uid")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user uid"))
		return
	}

	count, err := h.service.RemoveUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to remove user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove user"))
		return
	}
	if count == 0 {
		log.Error("user not found", slog.String("uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	log.Info("user removed", slog.String("uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
