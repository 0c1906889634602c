// Package createformula реализует HTTP-обработчик оформления заказа по формуле.
//
// Сумма к списанию в запросе отсутствует: сервер сам вычисляет стоимость
// по формуле и отправленным значениям, после чего списывает очки и
// сохраняет заказ в одной транзакции.
package createformula

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
	"github.com/magabrotheeeer/points-marketplace/internal/lib/spend"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/order"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на оформление заказа по формуле.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики заказов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	CreateFormulaOrder(ctx context.Context, userUID, role string, req models.DummyFormulaOrder) (int, int, error)
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
// @Summary Оформить заказ по формуле
// @Description Вычисляет стоимость на сервере, списывает очки из активных пакетов и создает заказ. Возвращает ID заказа и списанную сумму.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyFormulaOrder true "Формула и значения полей"
// @Success 200 {object} map[string]any "Заказ оформлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или недостаточно очков"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Формула недоступна роли"
// @Failure 404 {object} response.ErrorResponse "Формула не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/formula [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.createformula"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyFormulaOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("formula_id", req.FormulaID))

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
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	id, total, err := h.service.CreateFormulaOrder(r.Context(), userUID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, spend.ErrInsufficientPoints):
			log.Error("insufficient points", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("insufficient points"))
		case errors.Is(err, order.ErrFormulaNotAvailable):
			log.Error("formula is not available to role")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("formula is not available"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("formula not found", slog.Int("formula_id", req.FormulaID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("formula not found"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("formula order created", slog.Int("id", id), slog.Int("total_points", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order_id":     id,
		"total_points": total,
	}))
}
