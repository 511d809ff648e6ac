// Package services содержит административную бизнес-логику: сводка по
// сервису, выдача списка пользователей, изменение и удаление учётных
// записей, управление каталогом фильмов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movienest/movienest/internal/models"
	"github.com/movienest/movienest/internal/storage/repository"
)

// ErrUserNotFound возвращается, когда пользователь не существует.
var ErrUserNotFound = errors.New("user not found")

// ErrAlreadyDeleted возвращается при повторном удалении пользователя.
var ErrAlreadyDeleted = errors.New("user already deleted")

// ErrDeleteAdmin возвращается при попытке удалить администратора.
var ErrDeleteAdmin = errors.New("cannot delete an admin user")

// ErrUsernameTaken возвращается при смене имени на уже занятое.
var ErrUsernameTaken = errors.New("username already taken")

// ErrMovieNotFound возвращается, когда фильм не существует.
var ErrMovieNotFound = errors.New("movie not found")

// AdminRepository определяет методы хранилища, необходимые административным операциям.
type AdminRepository interface {
	// GetUserByID возвращает пользователя по ID, включая удалённых.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// GetActiveUserByUsername возвращает неудалённого пользователя по имени.
	GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListUsers возвращает страницу неудалённых пользователей с фильтром поиска.
	ListUsers(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error)
	// UpdateUsername меняет имя неудалённого пользователя.
	UpdateUsername(ctx context.Context, id int64, username string) error
	// SoftDeleteUser помечает пользователя удалённым.
	SoftDeleteUser(ctx context.Context, id int64) error
	// CountUsers считает всех пользователей, включая удалённых.
	CountUsers(ctx context.Context) (int, error)
	// CountActiveEntitlements считает действующие периоды подписки.
	CountActiveEntitlements(ctx context.Context, asOf time.Time) (int, error)
	// CountMovies считает фильмы в каталоге.
	CountMovies(ctx context.Context) (int, error)
	// CreateMovie сохраняет новый фильм каталога.
	CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error)
	// DeleteMovie удаляет фильм из каталога.
	DeleteMovie(ctx context.Context, id int64) error
}

// Overview — сводные показатели сервиса.
type Overview struct {
	UsersCount  int `json:"users_count"`
	MoviesCount int `json:"movies_count"`
	SubsCount   int `json:"subs_count"`
}

// AdminService реализует административные операции над пользователями.
type AdminService struct {
	repo AdminRepository
	log  *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo AdminRepository, log *slog.Logger) *AdminService {
	return &AdminService{repo: repo, log: log}
}

// Overview возвращает число пользователей, фильмов каталога
// и действующих подписок.
func (s *AdminService) Overview(ctx context.Context) (*Overview, error) {
	const op = "services.admin.Overview"

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	movies, err := s.repo.CountMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.CountActiveEntitlements(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Overview{UsersCount: users, MoviesCount: movies, SubsCount: subs}, nil
}

// ListUsers возвращает страницу пользователей с необязательным поиском
// по имени и почте. page и pageSize нормализуются к допустимым значениям.
func (s *AdminService) ListUsers(ctx context.Context, search string, page, pageSize int) (*models.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	users, total, err := s.repo.ListUsers(ctx, search, pageSize, offset)
	if err != nil {
		return nil, err
	}
	return &models.UserPage{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  users,
	}, nil
}

// UpdateUser меняет имя пользователя userID на username.
// Неизвестный или удалённый пользователь даёт ErrUserNotFound,
// занятое имя — ErrUsernameTaken.
func (s *AdminService) UpdateUser(ctx context.Context, userID int64, username string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsDeleted {
		return nil, ErrUserNotFound
	}

	if username != user.Username {
		if _, err := s.repo.GetActiveUserByUsername(ctx, username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.log.Info("user renamed",
		slog.Int64("user_id", userID),
		slog.String("username", username))

	user.Username = username
	return user, nil
}

// DeleteUser помечает пользователя удалённым. Учётная запись и история
// подписок сохраняются в хранилище, но пользователь пропадает из выдачи
// и теряет возможность входа.
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsDeleted {
		return ErrAlreadyDeleted
	}
	if user.Role == models.RoleAdmin {
		return ErrDeleteAdmin
	}

	if err := s.repo.SoftDeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlreadyDeleted
		}
		return err
	}
	s.log.Info("user soft-deleted", slog.Int64("user_id", userID))
	return nil
}

// CreateMovie добавляет фильм в каталог.
func (s *AdminService) CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	created, err := s.repo.CreateMovie(ctx, movie)
	if err != nil {
		return nil, err
	}
	s.log.Info("movie created",
		slog.Int64("movie_id", created.ID),
		slog.String("title", created.Title))
	return created, nil
}

// DeleteMovie удаляет фильм из каталога. Неизвестный фильм даёт ErrMovieNotFound.
func (s *AdminService) DeleteMovie(ctx context.Context, movieID int64) error {
	if err := s.repo.DeleteMovie(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMovieNotFound
		}
		return err
	}
	s.log.Info("movie deleted", slog.Int64("movie_id", movieID))
	return nil
}
