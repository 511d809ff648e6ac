package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/admin"
	"github.com/movienest/movienest/internal/storage/repository"
)

// Мок для AdminRepository
type AdminRepoMock struct {
	mock.Mock
}

func (m *AdminRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AdminRepoMock) GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AdminRepoMock) ListUsers(ctx context.Context, search string, limit, offset int) ([]*models.User, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}

func (m *AdminRepoMock) UpdateUsername(ctx context.Context, id int64, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *AdminRepoMock) SoftDeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AdminRepoMock) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CountActiveEntitlements(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CountMovies(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	args := m.Called(ctx, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *AdminRepoMock) DeleteMovie(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdminService_Overview(t *testing.T) {
	repo := new(AdminRepoMock)
	svc := services.NewAdminService(repo, discardLogger())

	repo.On("CountUsers", mock.Anything).Return(120, nil).Once()
	repo.On("CountMovies", mock.Anything).Return(54, nil).Once()
	repo.On("CountActiveEntitlements", mock.Anything, mock.Anything).Return(87, nil).Once()

	got, err := svc.Overview(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &services.Overview{UsersCount: 120, MoviesCount: 54, SubsCount: 87}, got)

	repo.AssertExpectations(t)
}

func TestAdminService_ListUsers(t *testing.T) {
	users := []*models.User{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
	}

	tests := []struct {
		name       string
		search     string
		page       int
		pageSize   int
		setupMocks func(r *AdminRepoMock)
		wantPage   int
		wantSize   int
	}{
		{
			name:     "first page with defaults",
			page:     0,
			pageSize: 0,
			setupMocks: func(r *AdminRepoMock) {
				r.On("ListUsers", mock.Anything, "", 20, 0).Return(users, 2, nil).Once()
			},
			wantPage: 1,
			wantSize: 20,
		},
		{
			name:     "explicit page and size",
			search:   "ali",
			page:     3,
			pageSize: 10,
			setupMocks: func(r *AdminRepoMock) {
				r.On("ListUsers", mock.Anything, "ali", 10, 20).Return(users, 42, nil).Once()
			},
			wantPage: 3,
			wantSize: 10,
		},
		{
			name:     "oversized page size clamped",
			page:     1,
			pageSize: 500,
			setupMocks: func(r *AdminRepoMock) {
				r.On("ListUsers", mock.Anything, "", 20, 0).Return(users, 2, nil).Once()
			},
			wantPage: 1,
			wantSize: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			svc := services.NewAdminService(repo, discardLogger())

			tt.setupMocks(repo)

			got, err := svc.ListUsers(context.Background(), tt.search, tt.page, tt.pageSize)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			assert.Equal(t, users, got.Results)

			repo.AssertExpectations(t)
		})
	}
}

func TestAdminService_UpdateUser(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		username   string
		setupMocks func(r *AdminRepoMock)
		wantErr    error
	}{
		{
			name:     "successful rename",
			userID:   42,
			username: "newname",
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Username: "oldname"}, nil).Once()
				r.On("GetActiveUserByUsername", mock.Anything, "newname").
					Return(nil, repository.ErrNotFound).Once()
				r.On("UpdateUsername", mock.Anything, int64(42), "newname").Return(nil).Once()
			},
		},
		{
			name:     "unknown user",
			userID:   99,
			username: "newname",
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(99)).
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:     "deleted user",
			userID:   42,
			username: "newname",
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Username: "oldname", IsDeleted: true}, nil).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:     "username taken",
			userID:   42,
			username: "bob",
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Username: "oldname"}, nil).Once()
				r.On("GetActiveUserByUsername", mock.Anything, "bob").
					Return(&models.User{ID: 2, Username: "bob"}, nil).Once()
			},
			wantErr: services.ErrUsernameTaken,
		},
		{
			name:     "same name skips uniqueness check",
			userID:   42,
			username: "oldname",
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Username: "oldname"}, nil).Once()
				r.On("UpdateUsername", mock.Anything, int64(42), "oldname").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			svc := services.NewAdminService(repo, discardLogger())

			tt.setupMocks(repo)

			got, err := svc.UpdateUser(context.Background(), tt.userID, tt.username)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.username, got.Username)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		setupMocks func(r *AdminRepoMock)
		wantErr    error
	}{
		{
			name:   "successful soft delete",
			userID: 42,
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Role: models.RoleUser}, nil).Once()
				r.On("SoftDeleteUser", mock.Anything, int64(42)).Return(nil).Once()
			},
		},
		{
			name:   "unknown user",
			userID: 99,
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(99)).
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:   "already deleted",
			userID: 42,
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(42)).
					Return(&models.User{ID: 42, Role: models.RoleUser, IsDeleted: true}, nil).Once()
			},
			wantErr: services.ErrAlreadyDeleted,
		},
		{
			name:   "admin is protected",
			userID: 1,
			setupMocks: func(r *AdminRepoMock) {
				r.On("GetUserByID", mock.Anything, int64(1)).
					Return(&models.User{ID: 1, Role: models.RoleAdmin}, nil).Once()
			},
			wantErr: services.ErrDeleteAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			svc := services.NewAdminService(repo, discardLogger())

			tt.setupMocks(repo)

			err := svc.DeleteUser(context.Background(), tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAdminService_CreateMovie(t *testing.T) {
	repo := new(AdminRepoMock)
	svc := services.NewAdminService(repo, discardLogger())

	movie := models.Movie{Title: "Interstellar", DurationMin: 169, Genre: "sci-fi"}
	created := &models.Movie{ID: 7, Title: "Interstellar", DurationMin: 169, Genre: "sci-fi"}
	repo.On("CreateMovie", mock.Anything, movie).Return(created, nil).Once()

	got, err := svc.CreateMovie(context.Background(), movie)
	assert.NoError(t, err)
	assert.Equal(t, created, got)

	repo.AssertExpectations(t)
}

func TestAdminService_DeleteMovie(t *testing.T) {
	tests := []struct {
		name       string
		movieID    int64
		setupMocks func(r *AdminRepoMock)
		wantErr    error
	}{
		{
			name:    "success",
			movieID: 7,
			setupMocks: func(r *AdminRepoMock) {
				r.On("DeleteMovie", mock.Anything, int64(7)).Return(nil).Once()
			},
		},
		{
			name:    "unknown movie",
			movieID: 99,
			setupMocks: func(r *AdminRepoMock) {
				r.On("DeleteMovie", mock.Anything, int64(99)).Return(repository.ErrNotFound).Once()
			},
			wantErr: services.ErrMovieNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			svc := services.NewAdminService(repo, discardLogger())

			tt.setupMocks(repo)

			err := svc.DeleteMovie(context.Background(), tt.movieID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
