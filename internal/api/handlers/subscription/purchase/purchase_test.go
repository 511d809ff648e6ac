package purchase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/movienest/movienest/internal/api/middlewarectx"
	"github.com/movienest/movienest/internal/models"
	services "github.com/movienest/movienest/internal/services/entitlement"
	"github.com/movienest/movienest/internal/storage/repository"
)

// MockService реализует интерфейс purchase.EntitlementService
type MockService struct {
	mock.Mock
}

func (m *MockService) Acquire(ctx context.Context, userID, planID int64) (*models.Entitlement, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entitlement), args.Error(1)
}

func TestPurchaseHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	now := time.Now().UTC()
	ent := &models.Entitlement{
		ID:        10,
		UserID:    42,
		PlanID:    2,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}

	tests := []struct {
		name           string
		subject        string
		planID         string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "успешная покупка",
			subject: "42",
			planID:  "2",
			setupMock: func(m *MockService) {
				m.On("Acquire", mock.Anything, int64(42), int64(2)).Return(ent, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "отсутствует авторизация",
			subject:        "",
			planID:         "2",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "could not validate credentials",
		},
		{
			name:           "некорректный plan_id",
			subject:        "42",
			planID:         "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid plan_id",
		},
		{
			name:    "неизвестный план",
			subject: "42",
			planID:  "99",
			setupMock: func(m *MockService) {
				m.On("Acquire", mock.Anything, int64(42), int64(99)).
					Return(nil, services.ErrPlanNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "plan not found",
		},
		{
			name:    "удалённый пользователь",
			subject: "42",
			planID:  "2",
			setupMock: func(m *MockService) {
				m.On("Acquire", mock.Anything, int64(42), int64(2)).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "could not validate credentials",
		},
		{
			name:    "ошибка сервиса",
			subject: "42",
			planID:  "2",
			setupMock: func(m *MockService) {
				m.On("Acquire", mock.Anything, int64(42), int64(2)).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to purchase subscription",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/purchase/"+tt.planID, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("plan_id", tt.planID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.subject != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserID, tt.subject)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedError)
			} else {
				assert.Contains(t, rec.Body.String(), `"status":"OK"`)
				assert.Contains(t, rec.Body.String(), `"is_active":true`)
			}

			mockService.AssertExpectations(t)
		})
	}
}
