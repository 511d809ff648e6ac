// Package services содержит бизнес-логику каталога фильмов:
// постраничная выдача с поиском по названию.
package services

import (
	"context"
	"log/slog"

	"github.com/movienest/movienest/internal/models"
)

// CatalogRepository определяет методы хранилища, необходимые каталогу.
type CatalogRepository interface {
	// ListMovies возвращает страницу фильмов с поиском по названию.
	ListMovies(ctx context.Context, search string, limit, offset int) ([]*models.Movie, int, error)
	// GetMovieByID возвращает фильм по ID.
	GetMovieByID(ctx context.Context, id int64) (*models.Movie, error)
}

// CatalogService реализует выдачу каталога фильмов.
type CatalogService struct {
	repo CatalogRepository
	log  *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// ListMovies возвращает страницу фильмов с необязательным поиском
// по названию. page и pageSize нормализуются к допустимым значениям.
func (s *CatalogService) ListMovies(ctx context.Context, search string, page, pageSize int) (*models.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	movies, total, err := s.repo.ListMovies(ctx, search, pageSize, offset)
	if err != nil {
		return nil, err
	}
	s.log.Debug("catalog page served",
		slog.String("search", search),
		slog.Int("page", page),
		slog.Int("total", total))
	return &models.MoviePage{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  movies,
	}, nil
}

// Movie возвращает фильм по ID. Ошибка хранилища пробрасывается как есть,
// в том числе repository.ErrNotFound.
func (s *CatalogService) Movie(ctx context.Context, movieID int64) (*models.Movie, error) {
	return s.repo.GetMovieByID(ctx, movieID)
}
