// Package services содержит логику рассылки push-уведомлений:
// обработку событий о новинках каталога и прямую отправку на устройство.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/movieexplorer/movie-explorer/internal/fcm"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

// DeviceTokenRepository возвращает токены устройств для рассылки.
type DeviceTokenRepository interface {
	// ListNotifiableDeviceTokens возвращает токены пользователей с включенными уведомлениями.
	ListNotifiableDeviceTokens(ctx context.Context) ([]string, error)
}

// PushGateway отправляет push-сообщения на устройства.
type PushGateway interface {
	Send(ctx context.Context, msg fcm.Message) error
	SendToAll(ctx context.Context, tokens []string, title, body string, data map[string]string) []fcm.SendResult
}

// SenderService рассылает уведомления о новых фильмах.
type SenderService struct {
	users   DeviceTokenRepository
	gateway PushGateway
	log     *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(users DeviceTokenRepository, gateway PushGateway, log *slog.Logger) *SenderService {
	return &SenderService{
		users:   users,
		gateway: gateway,
		log:     log,
	}
}

// HandleMovieCreated обрабатывает событие о новом фильме: рассылает
// уведомление на все устройства с включенными уведомлениями.
func (s *SenderService) HandleMovieCreated(ctx context.Context, body []byte) error {
	const op = "services.sender.HandleMovieCreated"

	var event models.MovieCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	tokens, err := s.users.ListNotifiableDeviceTokens(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(tokens) == 0 {
		s.log.Info("no devices to notify", slog.Int("movie_id", event.MovieID))
		return nil
	}

	title := "New movie added"
	text := fmt.Sprintf("%s is now available in the catalog", event.Title)
	data := map[string]string{"movie_id": fmt.Sprintf("%d", event.MovieID)}

	results := s.gateway.SendToAll(ctx, tokens, title, text, data)
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.log.Warn("push delivery failed", slog.String("token", r.Token), sl.Err(r.Err))
		}
	}
	s.log.Info("movie notification fanout finished",
		slog.Int("movie_id", event.MovieID),
		slog.Int("sent", len(results)-failed),
		slog.Int("failed", failed))
	return nil
}

// SendToDevice отправляет произвольное уведомление на одно устройство.
func (s *SenderService) SendToDevice(ctx context.Context, req models.DummyNotification) error {
	const op = "services.sender.SendToDevice"

	err := s.gateway.Send(ctx, fcm.Message{
		Token: req.DeviceToken,
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
