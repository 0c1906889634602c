// Package update реализует HTTP-обработчик правки пользователя администратором.
// Смена роли действует со следующего запроса пользователя: middleware
// перечитывает пользователя из базы на каждый запрос.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на правку пользователя.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Хранилище пользователей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс правки пользователя.
type Service interface {
	UpdateUser(ctx context.Context, userUID string, req models.DummyUserUpdate) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Правка пользователя
// @Description Обновляет отображаемое имя, роль и заметки пользователя. Доступно только администратору.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body models.DummyUserUpdate true "Новые данные пользователя"
// @Success 200 {object} map[string]any "Пользователь обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"
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

	var req models.DummyUserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	count, err := h.service.UpdateUser(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to update user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user"))
		return
	}
	if count == 0 {
		log.Error("user not found", slog.String("uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	log.Info("user updated", slog.String("uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
