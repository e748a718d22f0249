// Package success реализует HTTP-обработчик подтверждения оплаты.
//
// Handler извлекает session_id из query-параметров, проверяет статус
// оплаты у платежного шлюза через бизнес-логику и активирует подписку.
package success

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

// Handler управляет HTTP-запросами на подтверждение оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения оплаты.
type Service interface {
	Complete(ctx context.Context, sessionID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Активирует подписку после успешной оплаты checkout-сессии.
// @Tags Subscriptions
// @Produce  json
// @Param session_id query string true "ID платежной сессии"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Отсутствует session_id"
// @Failure 402 {object} response.ErrorResponse "Оплата не завершена"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/success [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.success"

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

	sub, err := h.service.Complete(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, subservice.ErrSessionNotFound):
			log.Error("session not found", slog.String("session_id", sessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("session not found"))
		case errors.Is(err, subservice.ErrPaymentNotCompleted):
			log.Error("payment not completed", slog.String("session_id", sessionID))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("payment not completed"))
		default:
			log.Error("failed to complete checkout", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not complete checkout"))
		}
		return
	}

	log.Info("subscription activated", slog.String("user_uid", sub.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
