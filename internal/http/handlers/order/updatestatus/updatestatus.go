// Package updatestatus реализует HTTP-обработчик смены статуса заказа администратором.
//
// Автоматических переходов статусов нет: единственный способ сменить
// статус — этот endpoint, и только по допустимым переходам.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/order"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на смену статуса заказа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики заказов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, kind models.OrderKind, id int, status string) (int, error)
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
// @Summary Смена статуса заказа
// @Description Переводит заказ в новый статус по допустимому переходу. Доступно только администратору.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param id path int true "ID заказа"
// @Param request body models.DummyStatusUpdate true "Вид заказа и новый статус"
// @Success 200 {object} map[string]any "Статус обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или недопустимый переход"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/orders/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.updatestatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid order id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order id"))
		return
	}

	var req models.DummyStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	kind, _ := models.ParseOrderKind(req.Kind)

	count, err := h.service.UpdateStatus(r.Context(), kind, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidTransition):
			log.Error("invalid status transition", slog.String("status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid status transition"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("order not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		default:
			log.Error("failed to update order status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update order status"))
		}
		return
	}
	if count == 0 {
		log.Error("order not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("order not found"))
		return
	}

	log.Info("order status updated", slog.Int("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
