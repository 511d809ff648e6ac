package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movienest/movienest/internal/models"
)

func TestMoviesRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	t.Run("create fills id and timestamps", func(t *testing.T) {
		movie, err := storage.CreateMovie(ctx, models.Movie{
			Title:       "Interstellar",
			DurationMin: 169,
			Price:       9.99,
			ImdbRate:    8.7,
			Genre:       "sci-fi",
		})
		require.NoError(t, err)
		assert.NotZero(t, movie.ID)
		assert.False(t, movie.CreatedAt.IsZero())

		got, err := storage.GetMovieByID(ctx, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, "Interstellar", got.Title)
		assert.Equal(t, 169, got.DurationMin)
		assert.InDelta(t, 8.7, got.ImdbRate, 0.001)
	})

	t.Run("unknown movie id", func(t *testing.T) {
		_, err := storage.GetMovieByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list searches by title without case and sorts by title", func(t *testing.T) {
		factory.CreateMovie(t, "Blade Runner", "sci-fi", 117)
		factory.CreateMovie(t, "Alien", "horror", 117)
		factory.CreateMovie(t, "ALIEN: Romulus", "horror", 119)

		movies, total, err := storage.ListMovies(ctx, "alien", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, movies, 2)
		assert.Equal(t, "ALIEN: Romulus", movies[0].Title)
		assert.Equal(t, "Alien", movies[1].Title)
	})

	t.Run("list paginates", func(t *testing.T) {
		movies, total, err := storage.ListMovies(ctx, "", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, movies, 2)

		rest, _, err := storage.ListMovies(ctx, "", 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 2)
		assert.NotEqual(t, movies[0].ID, rest[0].ID)
	})

	t.Run("count movies", func(t *testing.T) {
		count, err := storage.CountMovies(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("delete removes movie", func(t *testing.T) {
		id := factory.CreateMovie(t, "Dune", "sci-fi", 155)

		require.NoError(t, storage.DeleteMovie(ctx, id))

		_, err := storage.GetMovieByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)

		err = storage.DeleteMovie(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
