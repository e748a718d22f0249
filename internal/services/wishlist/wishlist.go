// Package services содержит бизнес-логику списка желаемого.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

// WishlistRepository определяет методы для работы со списком желаемого.
type WishlistRepository interface {
	// FindWishlist проверяет, добавлен ли фильм в список пользователя.
	FindWishlist(ctx context.Context, userUID string, movieID int) (bool, error)
	// AddWishlist добавляет фильм в список и возвращает ID записи.
	AddWishlist(ctx context.Context, userUID string, movieID int) (int, error)
	// RemoveWishlist убирает фильм из списка.
	RemoveWishlist(ctx context.Context, userUID string, movieID int) error
	// ClearWishlist очищает список и возвращает количество удаленных записей.
	ClearWishlist(ctx context.Context, userUID string) (int, error)
	// ListWishlistedMovies возвращает фильмы из списка пользователя.
	ListWishlistedMovies(ctx context.Context, userUID string) ([]*models.Movie, error)
}

// MovieRepository проверяет существование фильма.
type MovieRepository interface {
	GetMovie(ctx context.Context, id int) (*models.Movie, error)
}

// WishlistService реализует переключение и просмотр списка желаемого.
type WishlistService struct {
	repo   WishlistRepository
	movies MovieRepository
	log    *slog.Logger
}

// NewWishlistService создает новый экземпляр WishlistService.
func NewWishlistService(repo WishlistRepository, movies MovieRepository, log *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:   repo,
		movies: movies,
		log:    log,
	}
}

// Toggle добавляет фильм в список желаемого или убирает его, если он
// уже добавлен.
func (s *WishlistService) Toggle(ctx context.Context, userUID string, movieID int) (*models.WishlistToggleResult, error) {
	const op = "services.wishlist.Toggle"

	if _, err := s.movies.GetMovie(ctx, movieID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.repo.FindWishlist(ctx, userUID, movieID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.WishlistToggleResult{MovieID: movieID}
	if exists {
		if err := s.repo.RemoveWishlist(ctx, userUID, movieID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Message = "movie removed from wishlist"
		result.IsWishlisted = false
	} else {
		if _, err := s.repo.AddWishlist(ctx, userUID, movieID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Message = "movie added to wishlist"
		result.IsWishlisted = true
	}
	s.log.Info("wishlist toggled", slog.String("user_uid", userUID),
		slog.Int("movie_id", movieID), slog.Bool("wishlisted", result.IsWishlisted))
	return result, nil
}

// Remove убирает фильм из списка желаемого.
func (s *WishlistService) Remove(ctx context.Context, userUID string, movieID int) error {
	const op = "services.wishlist.Remove"

	if err := s.repo.RemoveWishlist(ctx, userUID, movieID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear очищает список желаемого и возвращает количество удаленных записей.
func (s *WishlistService) Clear(ctx context.Context, userUID string) (int, error) {
	const op = "services.wishlist.Clear"

	n, err := s.repo.ClearWishlist(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// List возвращает фильмы из списка желаемого пользователя.
func (s *WishlistService) List(ctx context.Context, userUID string) ([]*models.Movie, error) {
	const op = "services.wishlist.List"

	movies, err := s.repo.ListWishlistedMovies(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return movies, nil
}
