package success

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movieexplorer/movie-explorer/internal/models"
	subservice "github.com/movieexplorer/movie-explorer/internal/services/subscription"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Complete(ctx context.Context, sessionID string) (*models.Subscription, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSuccessHandler_ServeHTTP(t *testing.T) {
	activeSub := &models.Subscription{
		ID:      3,
		UserUID: "uid-1",
		Plan:    models.PlanGold,
		Status:  models.StatusActive,
	}

	tests := []struct {
		name           string
		sessionID      string
		mockSub        *models.Subscription
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "успешная активация",
			sessionID:      "cs_test_1",
			mockSub:        activeSub,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "отсутствует session_id",
			sessionID:      "",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "session_id is required",
		},
		{
			name:           "сессия не найдена",
			sessionID:      "cs_missing",
			mockErr:        subservice.ErrSessionNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "session not found",
		},
		{
			name:           "оплата не завершена",
			sessionID:      "cs_test_1",
			mockErr:        subservice.ErrPaymentNotCompleted,
			wantStatusCode: http.StatusPaymentRequired,
			wantStatus:     "Error",
			wantError:      "payment not completed",
		},
		{
			name:           "ошибка платежного шлюза",
			sessionID:      "cs_test_1",
			mockErr:        errors.New("stripe down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not complete checkout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockSub != nil || tt.mockErr != nil {
				serviceMock.On("Complete", mock.Anything, tt.sessionID).
					Return(tt.mockSub, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			url := "/subscriptions/success"
			if tt.sessionID != "" {
				url += "?session_id=" + tt.sessionID
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
