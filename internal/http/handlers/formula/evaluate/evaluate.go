// Package evaluate реализует HTTP-обработчик предварительного расчёта стоимости.
//
// Расчёт не списывает очки и не создаёт заказ: он возвращает ту же сумму,
// которую сервер спишет при оформлении заказа с теми же значениями.
package evaluate

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

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
	"github.com/magabrotheeeer/points-marketplace/internal/services/formula"
	"github.com/magabrotheeeer/points-marketplace/internal/services/pricing"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на расчёт стоимости по формуле.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики формул
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс чтения формулы для расчёта.
type Service interface {
	Read(ctx context.Context, id int) (*models.Formula, error)
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
// @Summary Рассчитать стоимость по формуле
// @Description Вычисляет стоимость заказа по формуле и значениям полей без списания очков.
// @Tags Formulas
// @Accept  json
// @Produce  json
// @Param id path int true "ID формулы"
// @Param request body models.DummyEvaluate true "Значения полей"
// @Success 200 {object} map[string]any "Стоимость и разбивка по полям"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Формула недоступна роли"
// @Failure 404 {object} response.ErrorResponse "Формула не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /formulas/{id}/evaluate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formula.evaluate"
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

	var req models.DummyEvaluate
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

	total, items := pricing.Evaluate(f, req.Values)

	log.Info("evaluated formula", slog.Int("id", id), slog.Int("total", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"total_points": total,
		"items":        items,
	}))
}
