// Package services содержит бизнес-логику каталога фильмов, включая
// кеширование, проверку тарифа и публикацию событий о новинках.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
	"github.com/movieexplorer/movie-explorer/internal/policy"
	"github.com/movieexplorer/movie-explorer/internal/rabbitmq"
)

var (
	// ErrPlanTooLow возвращается, когда тариф подписки ниже тарифа фильма.
	ErrPlanTooLow = errors.New("subscription plan too low")
	// ErrInvalidPlan возвращается при неизвестном тарифе фильма.
	ErrInvalidPlan = errors.New("invalid plan")
)

// MovieRepository определяет методы для работы с фильмами в хранилище.
type MovieRepository interface {
	// CreateMovie добавляет новый фильм и возвращает его ID.
	CreateMovie(ctx context.Context, movie *models.Movie) (int, error)
	// GetMovie возвращает фильм по ID.
	GetMovie(ctx context.Context, id int) (*models.Movie, error)
	// UpdateMovie обновляет фильм и возвращает количество измененных записей.
	UpdateMovie(ctx context.Context, movie *models.Movie) (int, error)
	// DeleteMovie удаляет фильм и возвращает количество удаленных записей.
	DeleteMovie(ctx context.Context, id int) (int, error)
	// ListMovies возвращает страницу фильмов по фильтру и общее количество.
	ListMovies(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, int, error)
	// ListAllMovies возвращает весь каталог.
	ListAllMovies(ctx context.Context) ([]*models.Movie, error)
}

// SubscriptionProvider возвращает актуальную подписку пользователя.
type SubscriptionProvider interface {
	Current(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события в брокер сообщений.
type EventPublisher interface {
	Publish(exchange, routingkey string, message any) error
}

// MovieService реализует операции каталога фильмов.
type MovieService struct {
	repo      MovieRepository
	subs      SubscriptionProvider
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewMovieService создает новый экземпляр MovieService.
func NewMovieService(repo MovieRepository, subs SubscriptionProvider,
	cache Cache, publisher EventPublisher, log *slog.Logger) *MovieService {
	return &MovieService{
		repo:      repo,
		subs:      subs,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func movieCacheKey(id int) string {
	return fmt.Sprintf("movie:%d", id)
}

// movieFromRequest собирает модель фильма из запроса, разбирая тариф.
func movieFromRequest(req models.DummyMovie) (*models.Movie, error) {
	plan, err := models.ParsePlan(req.Plan)
	if err != nil {
		return nil, ErrInvalidPlan
	}
	return &models.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Director:    req.Director,
		Duration:    req.Duration,
		Description: req.Description,
		Plan:        plan,
		PosterURL:   req.PosterURL,
		BannerURL:   req.BannerURL,
	}, nil
}

// Create добавляет фильм в каталог и публикует событие о новинке.
func (s *MovieService) Create(ctx context.Context, req models.DummyMovie) (int, error) {
	const op = "services.movie.Create"

	movie, err := movieFromRequest(req)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateMovie(ctx, movie)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new movie", slog.Int("id", id), slog.String("title", movie.Title))

	event := models.MovieCreatedEvent{MovieID: id, Title: movie.Title}
	if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.MovieCreatedKey, event); err != nil {
		s.log.Warn("failed to publish movie created event", slog.Int("id", id), sl.Err(err))
	}
	return id, nil
}

// Get возвращает фильм по ID без проверки тарифа, сначала из кеша.
func (s *MovieService) Get(ctx context.Context, id int) (*models.Movie, error) {
	const op = "services.movie.Get"

	var cached models.Movie
	found, err := s.cache.Get(movieCacheKey(id), &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.Int("id", id), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	movie, err := s.repo.GetMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(movieCacheKey(id), movie, time.Hour); err != nil {
		s.log.Warn("cache write failed", slog.Int("id", id), sl.Err(err))
	}
	return movie, nil
}

// GetForViewer возвращает фильм с проверкой тарифа. Администраторы и
// супервизоры видят любые фильмы; остальным нужна подписка не ниже
// тарифа фильма.
func (s *MovieService) GetForViewer(ctx context.Context, userUID, role string, id int) (*models.Movie, error) {
	const op = "services.movie.GetForViewer"

	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.BypassesTierGate(role) {
		return movie, nil
	}

	sub, err := s.subs.Current(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !sub.Active() || !policy.CanAccessPlan(sub.Plan, movie.Plan) {
		return nil, ErrPlanTooLow
	}
	return movie, nil
}

// Update обновляет фильм и сбрасывает его кеш.
func (s *MovieService) Update(ctx context.Context, id int, req models.DummyMovie) (int, error) {
	const op = "services.movie.Update"

	movie, err := movieFromRequest(req)
	if err != nil {
		return 0, err
	}
	movie.ID = id
	n, err := s.repo.UpdateMovie(ctx, movie)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(movieCacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", slog.Int("id", id), sl.Err(err))
	}
	return n, nil
}

// Delete удаляет фильм и сбрасывает его кеш.
func (s *MovieService) Delete(ctx context.Context, id int) (int, error) {
	const op = "services.movie.Delete"

	n, err := s.repo.DeleteMovie(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(movieCacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", slog.Int("id", id), sl.Err(err))
	}
	return n, nil
}

// List возвращает страницу каталога по фильтру и общее количество фильмов.
func (s *MovieService) List(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, int, error) {
	const op = "services.movie.List"

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	movies, total, err := s.repo.ListMovies(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return movies, total, nil
}

// ListAll возвращает весь каталог без пагинации.
func (s *MovieService) ListAll(ctx context.Context) ([]*models.Movie, error) {
	const op = "services.movie.ListAll"

	movies, err := s.repo.ListAllMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return movies, nil
}
