// Package changepassword реализует HTTP-обработчик смены пароля пользователя.
package changepassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы на смену пароля.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики аутентификации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, userUID string, req models.DummyChangePassword) error
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
// @Summary Смена пароля
// @Description Меняет пароль текущего пользователя после проверки старого.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyChangePassword true "Старый и новый пароли"
// @Success 200 {object} response.Response "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный старый пароль"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChangePassword
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), userUID, req); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("old password does not match")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not change password"))
		return
	}

	log.Info("password changed", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
