// Package adjust реализует HTTP-обработчик корректировки баланса пакета администратором.
//
// Каждая корректировка дописывает строку аудита в описание пакета;
// баланс категории не может уйти ниже нуля.
package adjust

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
	"github.com/magabrotheeeer/points-marketplace/internal/services/pointpackage"
)

// Handler обрабатывает HTTP-запросы на корректировку баланса пакета.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики пакетов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики корректировки.
type Service interface {
	Adjust(ctx context.Context, id int, adminUsername string, req models.DummyAdjust) error
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
// @Summary Корректировка баланса пакета
// @Description Корректирует баланс категории пакета на delta со строкой аудита. Доступно только администратору.
// @Tags Packages
// @Accept  json
// @Produce  json
// @Param id path int true "ID пакета"
// @Param request body models.DummyAdjust true "Категория, дельта и причина"
// @Success 200 {object} response.Response "Баланс скорректирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или отклонённая корректировка"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/packages/{id}/adjust [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pointpackage.adjust"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid package id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid package id"))
		return
	}

	var req models.DummyAdjust
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

	adminUsername, _ := r.Context().Value(middlewarectx.User).(string)

	if err := h.service.Adjust(r.Context(), id, adminUsername, req); err != nil {
		if errors.Is(err, pointpackage.ErrAdjustRejected) {
			log.Error("adjustment rejected", slog.Int("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("adjustment would make balance negative or package not found"))
			return
		}
		log.Error("failed to adjust package", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not adjust package"))
		return
	}

	log.Info("package adjusted", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"package_id": id,
	}))
}
