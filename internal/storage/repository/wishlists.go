package repository

import (
	"context"
	"fmt"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

// FindWishlist сообщает, находится ли фильм в вишлисте пользователя.
func (s *Storage) FindWishlist(ctx context.Context, userUID string, movieID int) (bool, error) {
	const op = "storage.FindWishlist"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM wishlists WHERE user_uid = $1 AND movie_id = $2)`
	if err := s.DB.QueryRowContext(ctx, query, userUID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AddWishlist добавляет фильм в вишлист и возвращает ID записи.
func (s *Storage) AddWishlist(ctx context.Context, userUID string, movieID int) (int, error) {
	const op = "storage.AddWishlist"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO wishlists (user_uid, movie_id) VALUES ($1, $2) RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, userUID, movieID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// RemoveWishlist убирает фильм из вишлиста. Если записи не было,
// возвращает ErrNotFound.
func (s *Storage) RemoveWishlist(ctx context.Context, userUID string, movieID int) error {
	const op = "storage.RemoveWishlist"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM wishlists WHERE user_uid = $1 AND movie_id = $2`, userUID, movieID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ClearWishlist очищает вишлист пользователя и возвращает количество
// удалённых записей.
func (s *Storage) ClearWishlist(ctx context.Context, userUID string) (int, error) {
	const op = "storage.ClearWishlist"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM wishlists WHERE user_uid = $1`, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// ListWishlistedMovies возвращает фильмы из вишлиста пользователя.
func (s *Storage) ListWishlistedMovies(ctx context.Context, userUID string) ([]*models.Movie, error) {
	const op = "storage.ListWishlistedMovies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.id, m.title, m.genre, m.release_year, m.rating, m.director,
			      m.duration, m.description, m.plan, m.poster_url, m.banner_url, m.created_at
			  FROM movies m
			  JOIN wishlists w ON w.movie_id = m.id
			  WHERE w.user_uid = $1
			  ORDER BY w.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return movies, nil
}
