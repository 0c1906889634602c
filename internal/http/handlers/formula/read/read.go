// Package read реализует HTTP-обработчик чтения формулы ценообразования.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/formula"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на чтение формулы.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики формул
}

// Service описывает интерфейс бизнес-логики чтения формулы.
type Service interface {
	Read(ctx context.Context, id int) (*models.Formula, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Прочитать формулу
// @Description Возвращает формулу по ID, если её уровень доступа виден роли запроса.
// @Tags Formulas
// @Produce  json
// @Param id path int true "ID формулы"
// @Success 200 {object} map[string]any "Формула"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Формула недоступна роли"
// @Failure 404 {object} response.ErrorResponse "Формула не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /formulas/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formula.read"
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

	f, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("formula not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("formula not found"))
			return
		}
		log.Error("failed to read formula", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read formula"))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if !formula.CanUse(f, role) {
		log.Error("formula is not visible to role", slog.Int("id", id), slog.String("role", role))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("formula is not available"))
		return
	}

	log.Info("formula read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(f))
}
