// Package all реализует HTTP-обработчик выдачи всего каталога без пагинации.
package all

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieexplorer/movie-explorer/internal/http/response"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

// Handler управляет HTTP-запросами на выдачу всего каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи каталога.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Movie, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Весь каталог
// @Description Возвращает все фильмы каталога без пагинации.
// @Tags Movies
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Все фильмы"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /movies/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.movie.all"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	movies, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all movies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list movies"))
		return
	}

	log.Info("all movies listed", slog.Int("count", len(movies)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"movies": movies,
	}))
}
