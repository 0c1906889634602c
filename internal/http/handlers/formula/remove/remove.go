// Package remove реализует HTTP-обработчик удаления формулы ценообразования.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на удаление формулы.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики формул
}

// Service описывает интерфейс бизнес-логики удаления формулы.
type Service interface {
	Remove(ctx context.Context, id int) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить формулу
// @Description Удаляет формулу по ID. Уже оформленные по ней заказы сохраняют свои снимки. Доступно только администратору.
// @Tags Formulas
// @Produce  json
// @Param id path int true "ID формулы"
// @Success 200 {object} map[string]any "Формула удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Формула не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/formulas/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formula.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid formula id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid formula id"))
		return
	}

	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove formula", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove formula"))
		return
	}
	if count == 0 {
		log.Error("formula not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("formula not found"))
		return
	}

	log.Info("formula removed", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
