// Package read реализует HTTP-обработчик получения фильма по ID.
//
// Handler извлекает ID из URL-параметров, проверяет тариф подписки
// пользователя через бизнес-логику и возвращает данные фильма.
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

	"github.com/movieexplorer/movie-explorer/internal/http/middlewarectx"
	"github.com/movieexplorer/movie-explorer/internal/http/response"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
	movieservice "github.com/movieexplorer/movie-explorer/internal/services/movie"
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
)

// Handler обрабатывает запросы на получение фильма по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения фильма с проверкой тарифа.
type Service interface {
	GetForViewer(ctx context.Context, userUID, role string, id int) (*models.Movie, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить фильм
// @Description Возвращает фильм по ID. Требует подписку уровня не ниже тарифа фильма.
// @Tags Movies
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID фильма"
// @Success 200 {object} map[string]any "Данные фильма"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Тариф подписки слишком низкий"
// @Failure 404 {object} response.ErrorResponse "Фильм не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /movies/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.movie.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	movie, err := h.service.GetForViewer(r.Context(), userUID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("movie not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not found"))
		case errors.Is(err, movieservice.ErrPlanTooLow):
			log.Error("subscription plan too low", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription plan too low"))
		default:
			log.Error("failed to read movie", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read movie"))
		}
		return
	}

	log.Info("movie read", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"movie": movie,
	}))
}
