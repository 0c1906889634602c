// Package create реализует HTTP-обработчик создания формулы ценообразования.
//
// Handler принимает JSON-запрос с определением формулы, валидирует его,
// делегирует создание сервису и возвращает ID созданной формулы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/points-marketplace/internal/http/response"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на создание формулы.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики формул
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания формулы.
type Service interface {
	Create(ctx context.Context, req models.DummyFormula) (int, error)
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
// @Summary Создать формулу ценообразования
// @Description Создает новую формулу с полями и правилами стоимости. Доступно только администратору.
// @Tags Formulas
// @Accept  json
// @Produce  json
// @Param request body models.DummyFormula true "Определение формулы"
// @Success 200 {object} map[string]any "Формула создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/formulas [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formula.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyFormula
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create formula", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create formula"))
		return
	}

	log.Info("formula created", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"last_added_id": id,
	}))
}
