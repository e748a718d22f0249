// Package list реализует HTTP-обработчик постраничного просмотра каталога
// с поиском по названию и фильтром по жанру.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieexplorer/movie-explorer/internal/http/response"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

// Handler управляет HTTP-запросами на просмотр каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики просмотра каталога.
type Service interface {
	List(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список фильмов
// @Description Возвращает страницу каталога с поиском и фильтром по жанру.
// @Tags Movies
// @Produce  json
// @Security BearerAuth
// @Param search query string false "Подстрока названия"
// @Param genre query string false "Жанр"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Страница каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /movies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.movie.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.MovieFilter{
		Search: r.URL.Query().Get("search"),
		Genre:  r.URL.Query().Get("genre"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	movies, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list movies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list movies"))
		return
	}

	log.Info("movies listed", slog.Int("count", len(movies)), slog.Int("total", total))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"movies": movies,
		"total":  total,
	}))
}
