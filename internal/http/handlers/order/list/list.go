// Package list реализует HTTP-обработчик чтения списка заказов.
//
// Параметр kind выбирает таблицу заказов: formula или один из видов услуг.
// Администратор видит все заказы, пользователь — только свои.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на чтение списка заказов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики заказов
}

// Service описывает интерфейс бизнес-логики чтения заказов.
type Service interface {
	ListFormulaOrders(ctx context.Context, userUID, role string, limit, offset int) ([]*models.FormulaOrder, error)
	ListServiceOrders(ctx context.Context, kind models.OrderKind, userUID, role string, limit, offset int) ([]*models.ServiceOrder, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заказов
// @Description Возвращает заказы выбранного вида: администратору — все, пользователю — только его собственные.
// @Tags Orders
// @Produce  json
// @Param kind query string false "Вид заказа" Enums(formula, vlog, tiktok, thumbnail, recording) default(formula)
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список заказов"
// @Failure 400 {object} response.ErrorResponse "Неизвестный вид заказа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	rawKind := r.URL.Query().Get("kind")
	if rawKind == "" {
		rawKind = string(models.OrderKindFormula)
	}
	kind, ok := models.ParseOrderKind(rawKind)
	if !ok {
		log.Error("unknown order kind", slog.String("kind", rawKind))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown order kind"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	if kind == models.OrderKindFormula {
		ordersList, err := h.service.ListFormulaOrders(r.Context(), userUID, role, limit, offset)
		if err != nil {
			log.Error("failed to list formula orders", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list orders"))
			return
		}
		log.Info("listed formula orders", slog.Int("count", len(ordersList)))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"orders": ordersList,
			"count":  len(ordersList),
		}))
		return
	}

	ordersList, err := h.service.ListServiceOrders(r.Context(), kind, userUID, role, limit, offset)
	if err != nil {
		log.Error("failed to list service orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list orders"))
		return
	}

	log.Info("listed service orders", slog.String("kind", string(kind)), slog.Int("count", len(ordersList)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"orders": ordersList,
		"count":  len(ordersList),
	}))
}
