// Package cancel реализует HTTP-обработчик отмены оплаты тарифа.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/movieexplorer/movie-explorer/internal/http/response"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
	subservice "github.com/movieexplorer/movie-explorer/internal/services/subscription"
)

// Handler управляет HTTP-запросами на отмену оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отмены оплаты.
type Service interface {
	Cancel(ctx context.Context, sessionID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить оплату
// @Description Помечает ожидающую оплату подписку как отмененную.
// @Tags Subscriptions
// @Produce  json
// @Param session_id query string true "ID платежной сессии"
// @Success 200 {object} map[string]any "Оплата отменена"
// @Failure 400 {object} response.ErrorResponse "Отсутствует session_id"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/cancel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		log.Error("session_id is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("session_id is required"))
		return
	}

	sub, err := h.service.Cancel(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, subservice.ErrSessionNotFound) {
			log.Error("session not found", slog.String("session_id", sessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("session not found"))
			return
		}
		log.Error("failed to cancel checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel checkout"))
		return
	}

	log.Info("checkout cancelled", slog.String("user_uid", sub.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "checkout cancelled",
	}))
}
