// Package remove реализует HTTP-обработчик удаления фильма из списка желаемого.
package remove

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
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
)

// Handler управляет HTTP-запросами на удаление фильма из вишлиста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления из вишлиста.
type Service interface {
	Remove(ctx context.Context, userUID string, movieID int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить фильм из списка желаемого
// @Description Убирает фильм из списка желаемого текущего пользователя.
// @Tags Wishlists
// @Produce  json
// @Security BearerAuth
// @Param movie_id path int true "ID фильма"
// @Success 200 {object} response.Response "Фильм удален из вишлиста"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID фильма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Фильм не найден в вишлисте"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /wishlists/{movie_id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wishlist.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	movieID, err := strconv.Atoi(chi.URLParam(r, "movie_id"))
	if err != nil {
		log.Error("invalid movie id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid movie id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), userUID, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("movie not in wishlist", slog.Int("movie_id", movieID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("movie not in wishlist"))
			return
		}
		log.Error("failed to remove movie from wishlist", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove movie from wishlist"))
		return
	}

	log.Info("movie removed from wishlist", slog.Int("movie_id", movieID))
	render.JSON(w, r, response.OK())
}
