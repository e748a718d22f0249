package read

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movieexplorer/movie-explorer/internal/http/middlewarectx"
	"github.com/movieexplorer/movie-explorer/internal/models"
	movieservice "github.com/movieexplorer/movie-explorer/internal/services/movie"
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetForViewer(ctx context.Context, userUID, role string, id int) (*models.Movie, error) {
	args := m.Called(ctx, userUID, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	movie := &models.Movie{ID: 5, Title: "Inception", Plan: models.PlanGold}

	tests := []struct {
		name           string
		urlID          string
		mockMovie      *models.Movie
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "успешное чтение",
			urlID:          "5",
			mockMovie:      movie,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "некорректный ID",
			urlID:          "abc",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "failed to decode id from url",
		},
		{
			name:           "фильм не найден",
			urlID:          "99",
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "movie not found",
		},
		{
			name:           "тариф слишком низкий",
			urlID:          "5",
			mockErr:        movieservice.ErrPlanTooLow,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "subscription plan too low",
		},
		{
			name:           "внутренняя ошибка",
			urlID:          "5",
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not read movie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockMovie != nil || tt.mockErr != nil {
				serviceMock.On("GetForViewer", mock.Anything, "uid-1", models.RoleUser, mock.Anything).
					Return(tt.mockMovie, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/movies/"+tt.urlID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleUser)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.mockMovie != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.NotNil(t, data["movie"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
