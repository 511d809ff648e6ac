package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movienest/movienest/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role.String()).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetActiveUserByUsername возвращает неудалённого пользователя по username.
// Мягко удалённые пользователи для аутентификации не существуют.
func (s *Storage) GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetActiveUserByUsername"
	query := `SELECT id, username, email, password_hash, role, is_deleted, created_at, updated_at
			  FROM users
			  WHERE username = $1 AND is_deleted = false`
	return s.scanUser(ctx, op, query, username)
}

// GetActiveUserByEmail возвращает неудалённого пользователя по email.
func (s *Storage) GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetActiveUserByEmail"
	query := `SELECT id, username, email, password_hash, role, is_deleted, created_at, updated_at
			  FROM users
			  WHERE email = $1 AND is_deleted = false`
	return s.scanUser(ctx, op, query, email)
}

// GetUserByID возвращает пользователя по ID, включая мягко удалённых:
// админка видит историю, вызывающая сторона сама решает, что с ней делать.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	query := `SELECT id, username, email, password_hash, role, is_deleted, created_at, updated_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(ctx, op, query, id)
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	var role string
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Role = parsed
	return u, nil
}

// ListUsers возвращает страницу неудалённых пользователей с необязательным
// поиском по username или email без учёта регистра, и общее число строк
// по фильтру.
func (s *Storage) ListUsers(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	pattern := "%" + search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM users
				   WHERE is_deleted = false
				     AND (username ILIKE $1 OR email ILIKE $1)`
	if err := s.DB.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, email, password_hash, role, is_deleted, created_at, updated_at
			  FROM users
			  WHERE is_deleted = false
			    AND (username ILIKE $1 OR email ILIKE $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		u.Role, err = models.ParseRole(role)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CountUsers возвращает общее количество пользователей, включая удалённых.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateUsername обновляет имя неудалённого пользователя.
// Если такого пользователя нет, возвращает ErrNotFound.
func (s *Storage) UpdateUsername(ctx context.Context, id int64, username string) error {
	const op = "storage.UpdateUsername"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = $1, updated_at = now()
			  WHERE id = $2 AND is_deleted = false`
	result, err := s.DB.ExecContext(ctx, query, username, id)
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

// SoftDeleteUser помечает пользователя удалённым. Строка остаётся в базе
// как история, но исчезает из аутентификации и проверок уникальности.
// Если пользователь не найден или уже удалён, возвращает ErrNotFound.
func (s *Storage) SoftDeleteUser(ctx context.Context, id int64) error {
	const op = "storage.SoftDeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_deleted = true, updated_at = now()
			  WHERE id = $1 AND is_deleted = false`
	result, err := s.DB.ExecContext(ctx, query, id)
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
