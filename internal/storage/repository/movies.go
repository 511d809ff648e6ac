package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movienest/movienest/internal/models"
)

// CreateMovie сохраняет новый фильм и возвращает его с заполненными
// идентификатором и временными метками.
func (s *Storage) CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	const op = "storage.CreateMovie"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO movies (title, duration_min, price, description, imdb_rate, cover_url, genre)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		movie.Title, movie.DurationMin, movie.Price, movie.Description,
		movie.ImdbRate, movie.CoverURL, movie.Genre).
		Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &movie, nil
}

// GetMovieByID возвращает фильм по ID или ErrNotFound.
func (s *Storage) GetMovieByID(ctx context.Context, id int64) (*models.Movie, error) {
	const op = "storage.GetMovieByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, duration_min, price, description, imdb_rate, cover_url, genre, created_at, updated_at
			  FROM movies
			  WHERE id = $1`
	m := &models.Movie{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&m.ID, &m.Title, &m.DurationMin, &m.Price, &m.Description,
		&m.ImdbRate, &m.CoverURL, &m.Genre, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMovies возвращает страницу фильмов с необязательным поиском по названию
// без учёта регистра и общее число строк по фильтру. Сортировка по названию.
func (s *Storage) ListMovies(ctx context.Context, search string, limit, offset int) ([]*models.Movie, int, error) {
	const op = "storage.ListMovies"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM movies
				   WHERE title ILIKE $1`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, title, duration_min, price, description, imdb_rate, cover_url, genre, created_at, updated_at
			  FROM movies
			  WHERE title ILIKE $1
			  ORDER BY title
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Movie
	for rows.Next() {
		m := &models.Movie{}
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMin, &m.Price, &m.Description,
			&m.ImdbRate, &m.CoverURL, &m.Genre, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CountMovies возвращает общее количество фильмов в каталоге.
func (s *Storage) CountMovies(ctx context.Context) (int, error) {
	const op = "storage.CountMovies"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteMovie удаляет фильм из каталога. Если фильма нет, возвращает ErrNotFound.
func (s *Storage) DeleteMovie(ctx context.Context, id int64) error {
	const op = "storage.DeleteMovie"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
