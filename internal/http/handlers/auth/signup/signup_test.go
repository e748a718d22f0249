package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.DummyRegisterUser) (string, string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyRegisterUser{
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Email:        "ivan@example.com",
		Password:     "secret123",
		MobileNumber: "9990001122",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUID        string
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "успешная регистрация",
			requestBody:    validReq,
			mockUID:        "uid-1",
			mockToken:      "jwt-token",
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "отсутствует пароль",
			requestBody: models.DummyRegisterUser{
				FirstName:    "Ivan",
				LastName:     "Petrov",
				Email:        "ivan@example.com",
				MobileNumber: "9990001122",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name: "некорректный номер телефона",
			requestBody: models.DummyRegisterUser{
				FirstName:    "Ivan",
				LastName:     "Petrov",
				Email:        "ivan@example.com",
				Password:     "secret123",
				MobileNumber: "12345",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field MobileNumber has wrong length",
		},
		{
			name:           "ошибка сервиса",
			requestBody:    validReq,
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockUID != "" || tt.mockErr != nil {
				serviceMock.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockUID, tt.mockToken, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
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
			if tt.mockUID != "" && tt.mockErr == nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockUID, data["uid"])
				assert.Equal(t, tt.mockToken, data["token"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
