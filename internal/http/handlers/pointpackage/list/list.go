// Package list реализует HTTP-обработчик чтения списка пакетов очков.
// Администратор видит все пакеты, пользователь — только свои.
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

// Handler обрабатывает HTTP-запросы на чтение списка пакетов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики пакетов
}

// Service описывает интерфейс бизнес-логики чтения пакетов.
type Service interface {
	List(ctx context.Context, userUID, role string, limit, offset int) ([]*models.PointPackage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов очков
// @Description Возвращает пакеты очков: администратору — все, пользователю — только его собственные.
// @Tags Packages
// @Produce  json
// @Param limit query int false "Максимум записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список пакетов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pointpackage.list"
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

	packages, err := h.service.List(r.Context(), userUID, role, limit, offset)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	log.Info("listed packages", slog.Int("count", len(packages)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"packages": packages,
		"count":    len(packages),
	}))
}
