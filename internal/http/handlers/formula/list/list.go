// Package list реализует HTTP-обработчик чтения списка формул ценообразования.
// Состав списка зависит от роли: аноним видит только публичные формулы.
package list

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

// Handler обрабатывает HTTP-запросы на чтение списка формул.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики формул
}

// Service описывает интерфейс бизнес-логики чтения формул.
type Service interface {
	List(ctx context.Context, role string) ([]*models.Formula, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список формул
// @Description Возвращает формулы, видимые роли запроса. Анонимному запросу видны только публичные формулы.
// @Tags Formulas
// @Produce  json
// @Success 200 {object} map[string]any "Список формул"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /formulas [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formula.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, _ := r.Context().Value(middlewarectx.Role).(string)

	formulas, err := h.service.List(r.Context(), role)
	if err != nil {
		log.Error("failed to list formulas", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list formulas"))
		return
	}

	log.Info("listed formulas", slog.Int("count", len(formulas)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"formulas": formulas,
		"count":    len(formulas),
	}))
}
