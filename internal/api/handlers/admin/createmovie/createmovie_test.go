package createmovie

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movienest/movienest/internal/models"
)

// MockService реализует интерфейс createmovie.AdminService
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateMovie(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	args := m.Called(ctx, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func TestCreateMovieHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	validBody := `{"title":"Interstellar","duration_min":169,"price":9.99,"imdb_rate":8.7,"genre":"sci-fi"}`
	wantMovie := models.Movie{Title: "Interstellar", DurationMin: 169, Price: 9.99, ImdbRate: 8.7, Genre: "sci-fi"}

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "успешное добавление",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				created := wantMovie
				created.ID = 7
				m.On("CreateMovie", mock.Anything, wantMovie).Return(&created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "failed to decode request",
		},
		{
			name:           "пустое название",
			requestBody:    `{"title":"","genre":"sci-fi"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "field Title is a required field",
		},
		{
			name:           "рейтинг вне диапазона",
			requestBody:    `{"title":"Interstellar","imdb_rate":11}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateMovie", mock.Anything, wantMovie).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to create movie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/movies", bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedError)
			} else {
				assert.Contains(t, rec.Body.String(), `"status":"OK"`)
				assert.Contains(t, rec.Body.String(), `"title":"Interstellar"`)
			}

			mockService.AssertExpectations(t)
		})
	}
}
