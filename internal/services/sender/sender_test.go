package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/movieexplorer/movie-explorer/internal/fcm"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) ListNotifiableDeviceTokens(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Send(ctx context.Context, msg fcm.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *GatewayMock) SendToAll(ctx context.Context, tokens []string, title, body string, data map[string]string) []fcm.SendResult {
	args := m.Called(ctx, tokens, title, body, data)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]fcm.SendResult)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSenderService_HandleMovieCreated(t *testing.T) {
	ctx := context.Background()
	body, err := json.Marshal(models.MovieCreatedEvent{MovieID: 5, Title: "Inception"})
	require.NoError(t, err)

	t.Run("рассылка на все устройства", func(t *testing.T) {
		users := new(UsersMock)
		gateway := new(GatewayMock)

		tokens := []string{"token-1", "token-2"}
		users.On("ListNotifiableDeviceTokens", mock.Anything).Return(tokens, nil)
		gateway.On("SendToAll", mock.Anything, tokens, "New movie added",
			"Inception is now available in the catalog",
			map[string]string{"movie_id": "5"}).Return([]fcm.SendResult{
			{Token: "token-1"},
			{Token: "token-2", Err: errors.New("unregistered")},
		})

		svc := NewSenderService(users, gateway, newNoopLogger())
		err := svc.HandleMovieCreated(ctx, body)

		require.NoError(t, err)
		gateway.AssertExpectations(t)
	})

	t.Run("нет устройств для рассылки", func(t *testing.T) {
		users := new(UsersMock)
		gateway := new(GatewayMock)
		users.On("ListNotifiableDeviceTokens", mock.Anything).Return([]string{}, nil)

		svc := NewSenderService(users, gateway, newNoopLogger())
		err := svc.HandleMovieCreated(ctx, body)

		require.NoError(t, err)
		gateway.AssertNotCalled(t, "SendToAll")
	})

	t.Run("некорректное тело сообщения", func(t *testing.T) {
		svc := NewSenderService(new(UsersMock), new(GatewayMock), newNoopLogger())
		err := svc.HandleMovieCreated(ctx, []byte("not json"))
		assert.Error(t, err)
	})
}

func TestSenderService_SendToDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("успешная отправка", func(t *testing.T) {
		gateway := new(GatewayMock)
		gateway.On("Send", mock.Anything, fcm.Message{
			Token: "token-1",
			Title: "Hello",
			Body:  "World",
		}).Return(nil)

		svc := NewSenderService(new(UsersMock), gateway, newNoopLogger())
		err := svc.SendToDevice(ctx, models.DummyNotification{
			DeviceToken: "token-1",
			Title:       "Hello",
			Body:        "World",
		})

		require.NoError(t, err)
		gateway.AssertExpectations(t)
	})

	t.Run("ошибка шлюза", func(t *testing.T) {
		gateway := new(GatewayMock)
		gateway.On("Send", mock.Anything, mock.Anything).Return(errors.New("gateway error"))

		svc := NewSenderService(new(UsersMock), gateway, newNoopLogger())
		err := svc.SendToDevice(ctx, models.DummyNotification{
			DeviceToken: "token-1", Title: "Hello", Body: "World",
		})

		assert.Error(t, err)
	})
}
