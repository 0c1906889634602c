// Package orders реализует HTTP-обработчик чтения записей о покупках пакетов.
package orders

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

// Handler обрабатывает HTTP-запросы на чтение записей о покупках пакетов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики пакетов
}

// Service описывает интерфейс бизнес-логики чтения покупок.
type Service interface {
	ListPointsOrders(ctx context.Context, userUID, role string, limit, offset int) ([]*models.PointsOrder, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Покупки пакетов очков
// @Description Возвращает записи о покупках пакетов: администратору — все, пользователю — только его собственные.
// @Tags Packages
// @Produce  json
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список покупок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /packages/orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pointpackage.orders"
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

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	ordersList, err := h.service.ListPointsOrders(r.Context(), userUID, role, limit, offset)
	if err != nil {
		log.Error("failed to list points orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list points orders"))
		return
	}

	log.Info("listed points orders", slog.Int("count", len(ordersList)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"orders": ordersList,
		"count":  len(ordersList),
	}))
}
