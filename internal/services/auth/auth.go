// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/movienest/movienest/internal/lib/password"
	"github.com/movienest/movienest/internal/lib/token"
	"github.com/movienest/movienest/internal/models"
	"github.com/movienest/movienest/internal/storage/repository"
)

// Ошибки аутентификации и регистрации, различимые на граничном слое.
var (
	// ErrUsernameTaken возвращается, если имя занято неудалённым пользователем.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken возвращается, если почта занята неудалённым пользователем.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	// Удалённый пользователь неотличим от несуществующего.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound возвращается, когда владелец валидного токена не найден.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetActiveUserByUsername возвращает неудалённого пользователя по имени.
	GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetActiveUserByEmail возвращает неудалённого пользователя по почте.
	GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID возвращает пользователя по ID, включая удалённых.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и данные текущего пользователя.
type AuthService struct {
	users  UserRepository
	tokens token.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens token.Maker) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
//
// Уникальность имени и почты проверяется только среди неудалённых пользователей:
// мягко удалённые строки имена не резервируют.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (int64, error) {
	if _, err := s.users.GetActiveUserByUsername(ctx, username); err == nil {
		return 0, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if _, err := s.users.GetActiveUserByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, err
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	return s.users.CreateUser(ctx, user)
}

// Login проверяет пароль пользователя и выпускает токен доступа.
// Subject токена — строковая форма числового ID пользователя.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (accessToken string, role models.Role, err error) {
	user, err := s.users.GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	accessToken, err = s.tokens.GenerateTokenForID(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}
	return accessToken, user.Role, nil
}

// Me возвращает пользователя по subject из валидного токена доступа.
func (s *AuthService) Me(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject %q: %w", subject, err)
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsDeleted {
		return nil, ErrUserNotFound
	}
	return user, nil
}
