package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

// CreateMovie добавляет фильм в каталог и возвращает его ID.
func (s *Storage) CreateMovie(ctx context.Context, movie *models.Movie) (int, error) {
	const op = "storage.CreateMovie"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO movies (title, genre, release_year, rating, director,
			      duration, description, plan, poster_url, banner_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		movie.Title, movie.Genre, movie.ReleaseYear, movie.Rating, movie.Director,
		movie.Duration, movie.Description, int(movie.Plan), movie.PosterURL,
		movie.BannerURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetMovie возвращает фильм по ID.
func (s *Storage) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	const op = "storage.GetMovie"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := movieSelect + ` WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	movie, err := scanMovieRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return movie, nil
}

// UpdateMovie обновляет данные фильма по его ID и возвращает количество
// обновлённых записей.
func (s *Storage) UpdateMovie(ctx context.Context, movie *models.Movie) (int, error) {
	const op = "storage.UpdateMovie"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE movies
		      SET title = $2, genre = $3, release_year = $4, rating = $5,
			      director = $6, duration = $7, description = $8, plan = $9,
			      poster_url = $10, banner_url = $11
		      WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, movie.ID,
		movie.Title, movie.Genre, movie.ReleaseYear, movie.Rating, movie.Director,
		movie.Duration, movie.Description, int(movie.Plan), movie.PosterURL, movie.BannerURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// DeleteMovie удаляет фильм по ID и возвращает количество удалённых записей.
func (s *Storage) DeleteMovie(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteMovie"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// ListMovies возвращает страницу каталога по фильтру и общее количество
// записей, подходящих под фильтр.
func (s *Storage) ListMovies(ctx context.Context, filter models.MovieFilter) ([]*models.Movie, int, error) {
	const op = "storage.ListMovies"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := ` WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
			    AND ($2 = '' OR genre = $2)`

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies`+where, filter.Search, filter.Genre).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := movieSelect + where + ` ORDER BY id LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, filter.Search, filter.Genre, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return movies, total, nil
}

// ListAllMovies возвращает весь каталог без пагинации.
func (s *Storage) ListAllMovies(ctx context.Context) ([]*models.Movie, error) {
	const op = "storage.ListAllMovies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, movieSelect+` ORDER BY id`)
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

const movieSelect = `SELECT id, title, genre, release_year, rating, director,
			      duration, description, plan, poster_url, banner_url, created_at
			  FROM movies`

func scanMovieRow(scan func(...any) error) (*models.Movie, error) {
	m := &models.Movie{}
	var plan int
	var posterURL, bannerURL sql.NullString
	if err := scan(&m.ID, &m.Title, &m.Genre, &m.ReleaseYear, &m.Rating, &m.Director,
		&m.Duration, &m.Description, &plan, &posterURL, &bannerURL, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Plan = models.Plan(plan)
	if posterURL.Valid {
		m.PosterURL = &posterURL.String
	}
	if bannerURL.Valid {
		m.BannerURL = &bannerURL.String
	}
	return m, nil
}

func collectMovies(rows *sql.Rows) ([]*models.Movie, error) {
	var result []*models.Movie
	for rows.Next() {
		movie, err := scanMovieRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
