// Package read реализует HTTP-обработчик чтения активного баланса очков.
//
// Баланс всегда считается по пакетам на момент запроса и нигде не кешируется:
// ответ отражает актуальное состояние после любых списаний и корректировок.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на чтение баланса очков.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Калькулятор активного баланса
}

// Service описывает интерфейс калькулятора баланса.
type Service interface {
	ActiveBalance(ctx context.Context, userUID string, category models.Category) (int, error)
	ActiveBalances(ctx context.Context, userUID string) (map[models.Category]int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активный баланс очков
// @Description Возвращает активные балансы текущего пользователя по категориям. Параметр category сужает ответ до одной категории.
// @Tags Balance
// @Produce  json
// @Param category query string false "Категория очков" Enums(editing, recording, design, consulting)
// @Success 200 {object} map[string]any "Балансы по категориям"
// @Failure 400 {object} response.ErrorResponse "Неизвестная категория"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.balance.read"
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

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			log.Error("unknown category", slog.String("category", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown category"))
			return
		}
		total, err := h.service.ActiveBalance(r.Context(), userUID, category)
		if err != nil {
			log.Error("failed to calculate balance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not calculate balance"))
			return
		}
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			string(category): total,
		}))
		return
	}

	balances, err := h.service.ActiveBalances(r.Context(), userUID)
	if err != nil {
		log.Error("failed to calculate balances", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not calculate balance"))
		return
	}

	log.Info("calculated active balances", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(balances))
}
