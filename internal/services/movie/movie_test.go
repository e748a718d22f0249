package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/movieexplorer/movie-explorer/internal/models"
	"github.com/movieexplorer/movie-explorer/internal/rabbitmq"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMovie(ctx context.Context, movie *models.Movie) (int, error) {
	args := m.Called(ctx, movie)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}
func (m *RepoMock) UpdateMovie(ctx context.Context, movie *models.Movie) (int, error) {
	args := m.Called(ctx, movie)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteMovie(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListMovies(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Movie), args.Int(1), args.Error(2)
}
func (m *RepoMock) ListAllMovies(ctx context.Context) ([]*models.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

type SubsMock struct{ mock.Mock }

func (m *SubsMock) Current(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, routingkey string, message any) error {
	return m.Called(exchange, routingkey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock, subs *SubsMock, cache *CacheMock, publisher *PublisherMock) *MovieService {
	return NewMovieService(repo, subs, cache, publisher, newNoopLogger())
}

func TestMovieService_Create(t *testing.T) {
	ctx := context.Background()
	req := models.DummyMovie{
		Title:       "Inception",
		Genre:       "Sci-Fi",
		ReleaseYear: 2010,
		Rating:      8.8,
		Plan:        "gold",
	}

	t.Run("создание публикует событие о новинке", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)

		repo.On("CreateMovie", mock.Anything, mock.MatchedBy(func(m *models.Movie) bool {
			return m.Title == "Inception" && m.Plan == models.PlanGold
		})).Return(5, nil)
		publisher.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.MovieCreatedKey,
			models.MovieCreatedEvent{MovieID: 5, Title: "Inception"}).Return(nil)

		svc := newService(repo, new(SubsMock), new(CacheMock), publisher)
		id, err := svc.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 5, id)
		publisher.AssertExpectations(t)
	})

	t.Run("ошибка публикации не мешает созданию", func(t *testing.T) {
		repo := new(RepoMock)
		publisher := new(PublisherMock)

		repo.On("CreateMovie", mock.Anything, mock.Anything).Return(5, nil)
		publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

		svc := newService(repo, new(SubsMock), new(CacheMock), publisher)
		id, err := svc.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 5, id)
	})

	t.Run("неизвестный тариф", func(t *testing.T) {
		bad := req
		bad.Plan = "diamond"
		svc := newService(new(RepoMock), new(SubsMock), new(CacheMock), new(PublisherMock))
		_, err := svc.Create(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidPlan)
	})
}

func TestMovieService_Get(t *testing.T) {
	ctx := context.Background()
	movie := &models.Movie{ID: 5, Title: "Inception", Plan: models.PlanGold}

	t.Run("промах кеша читает из базы и кеширует", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)

		cache.On("Get", "movie:5", mock.Anything).Return(false, nil)
		repo.On("GetMovie", mock.Anything, 5).Return(movie, nil)
		cache.On("Set", "movie:5", movie, time.Hour).Return(nil)

		svc := newService(repo, new(SubsMock), cache, new(PublisherMock))
		got, err := svc.Get(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, "Inception", got.Title)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш не обращается к базе", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)

		cache.On("Get", "movie:5", mock.Anything).Run(func(args mock.Arguments) {
			*args.Get(1).(*models.Movie) = *movie
		}).Return(true, nil)

		svc := newService(repo, new(SubsMock), cache, new(PublisherMock))
		got, err := svc.Get(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, "Inception", got.Title)
		repo.AssertNotCalled(t, "GetMovie")
	})
}

func TestMovieService_GetForViewer(t *testing.T) {
	ctx := context.Background()
	goldMovie := &models.Movie{ID: 5, Title: "Inception", Plan: models.PlanGold}

	setupCacheMiss := func(cache *CacheMock, repo *RepoMock) {
		cache.On("Get", "movie:5", mock.Anything).Return(false, nil)
		repo.On("GetMovie", mock.Anything, 5).Return(goldMovie, nil)
		cache.On("Set", "movie:5", goldMovie, time.Hour).Return(nil)
	}

	t.Run("администратор видит фильм без подписки", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		subs := new(SubsMock)
		setupCacheMiss(cache, repo)

		svc := newService(repo, subs, cache, new(PublisherMock))
		got, err := svc.GetForViewer(ctx, "uid-1", models.RoleAdmin, 5)

		require.NoError(t, err)
		assert.Equal(t, 5, got.ID)
		subs.AssertNotCalled(t, "Current")
	})

	t.Run("золотая подписка открывает золотой фильм", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		subs := new(SubsMock)
		setupCacheMiss(cache, repo)
		subs.On("Current", mock.Anything, "uid-1").Return(&models.Subscription{
			Plan: models.PlanGold, Status: models.StatusActive,
		}, nil)

		svc := newService(repo, subs, cache, new(PublisherMock))
		got, err := svc.GetForViewer(ctx, "uid-1", models.RoleUser, 5)

		require.NoError(t, err)
		assert.Equal(t, "Inception", got.Title)
	})

	t.Run("базовая подписка не открывает золотой фильм", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		subs := new(SubsMock)
		setupCacheMiss(cache, repo)
		subs.On("Current", mock.Anything, "uid-1").Return(&models.Subscription{
			Plan: models.PlanBasic, Status: models.StatusActive,
		}, nil)

		svc := newService(repo, subs, cache, new(PublisherMock))
		_, err := svc.GetForViewer(ctx, "uid-1", models.RoleUser, 5)

		assert.ErrorIs(t, err, ErrPlanTooLow)
	})

	t.Run("неактивная подписка не открывает фильм", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		subs := new(SubsMock)
		setupCacheMiss(cache, repo)
		subs.On("Current", mock.Anything, "uid-1").Return(&models.Subscription{
			Plan: models.PlanPlatinum, Status: models.StatusPending,
		}, nil)

		svc := newService(repo, subs, cache, new(PublisherMock))
		_, err := svc.GetForViewer(ctx, "uid-1", models.RoleUser, 5)

		assert.ErrorIs(t, err, ErrPlanTooLow)
	})
}

func TestMovieService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("обновление сбрасывает кеш", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)

		repo.On("UpdateMovie", mock.Anything, mock.MatchedBy(func(m *models.Movie) bool {
			return m.ID == 5 && m.Plan == models.PlanPlatinum
		})).Return(1, nil)
		cache.On("Invalidate", "movie:5").Return(nil)

		svc := newService(repo, new(SubsMock), cache, new(PublisherMock))
		n, err := svc.Update(ctx, 5, models.DummyMovie{
			Title: "Inception", Genre: "Sci-Fi", ReleaseYear: 2010, Plan: "platinum",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		cache.AssertExpectations(t)
	})

	t.Run("удаление сбрасывает кеш", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)

		repo.On("DeleteMovie", mock.Anything, 5).Return(1, nil)
		cache.On("Invalidate", "movie:5").Return(nil)

		svc := newService(repo, new(SubsMock), cache, new(PublisherMock))
		n, err := svc.Delete(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestMovieService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("нулевой лимит заменяется дефолтным", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListMovies", mock.Anything, models.MovieFilter{Search: "matrix", Limit: 20}).
			Return([]*models.Movie{{ID: 1, Title: "The Matrix"}}, 1, nil)

		svc := newService(repo, new(SubsMock), new(CacheMock), new(PublisherMock))
		movies, total, err := svc.List(ctx, models.MovieFilter{Search: "matrix"})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, movies, 1)
		repo.AssertExpectations(t)
	})
}
