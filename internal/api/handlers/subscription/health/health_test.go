package health_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/movienest/movienest/internal/api/handlers/subscription/health"
)

type DBMock struct {
	mock.Mock
}

func (m *DBMock) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type BrokerMock struct {
	mock.Mock
}

func (m *BrokerMock) IsClosed() bool {
	args := m.Called()
	return args.Bool(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doHealthRequest(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body.Data
}

func TestHealthHandler_AllComponentsUp(t *testing.T) {
	db := new(DBMock)
	cache := new(CacheMock)
	broker := new(BrokerMock)

	db.On("PingContext", mock.Anything).Return(nil).Once()
	broker.On("IsClosed").Return(false).Once()
	cache.On("Ping", mock.Anything).Return(nil).Once()

	h := health.New(discardLogger(), db, broker, cache)
	rec, data := doHealthRequest(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", data["status"])

	components := data["components"].(map[string]any)
	assert.Equal(t, "ok", components["database"])
	assert.Equal(t, "ok", components["rabbitmq"])
	assert.Equal(t, "ok", components["cache"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	db := new(DBMock)
	cache := new(CacheMock)
	broker := new(BrokerMock)

	db.On("PingContext", mock.Anything).Return(assert.AnError).Once()
	broker.On("IsClosed").Return(false).Once()
	cache.On("Ping", mock.Anything).Return(nil).Once()

	h := health.New(discardLogger(), db, broker, cache)
	rec, data := doHealthRequest(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", data["status"])

	components := data["components"].(map[string]any)
	assert.Equal(t, "unavailable", components["database"])
	assert.Equal(t, "ok", components["rabbitmq"])
}

func TestHealthHandler_BrokerClosed(t *testing.T) {
	db := new(DBMock)
	cache := new(CacheMock)
	broker := new(BrokerMock)

	db.On("PingContext", mock.Anything).Return(nil).Once()
	broker.On("IsClosed").Return(true).Once()
	cache.On("Ping", mock.Anything).Return(nil).Once()

	h := health.New(discardLogger(), db, broker, cache)
	rec, data := doHealthRequest(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	components := data["components"].(map[string]any)
	assert.Equal(t, "unavailable", components["rabbitmq"])
}
