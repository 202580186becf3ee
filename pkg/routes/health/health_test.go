package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

type fakeRunner struct {
	running bool
}

func (f *fakeRunner) Running() bool {
	return f.running
}

func healthRequest(t *testing.T, checker *Checker) (*httptest.ResponseRecorder, *HealthStatus) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, checker.Health(e.NewContext(req, rec)))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return rec, &status
}

func TestHealth(t *testing.T) {
	t.Run("healthy graph", func(t *testing.T) {
		checker := NewChecker(&fakePinger{}, nil, nil, "test")

		rec, status := healthRequest(t, checker)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "healthy", status.Checks["graph"].Status)
		assert.NotContains(t, status.Checks, "redis")
	})

	t.Run("unreachable graph", func(t *testing.T) {
		checker := NewChecker(&fakePinger{err: errors.New("connection refused")}, nil, nil, "test")

		rec, status := healthRequest(t, checker)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unhealthy", status.Status)
	})

	t.Run("redis is checked when configured", func(t *testing.T) {
		checker := NewChecker(&fakePinger{}, &fakePinger{err: errors.New("timeout")}, nil, "test")

		rec, status := healthRequest(t, checker)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "healthy", status.Checks["graph"].Status)
		assert.Equal(t, "unhealthy", status.Checks["redis"].Status)
	})

	t.Run("running ingest loop is healthy", func(t *testing.T) {
		checker := NewChecker(&fakePinger{}, nil, &fakeRunner{running: true}, "test")

		rec, status := healthRequest(t, checker)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", status.Checks["ingest"].Status)
	})

	t.Run("stopped ingest loop is unhealthy", func(t *testing.T) {
		checker := NewChecker(&fakePinger{}, nil, &fakeRunner{}, "test")

		rec, status := healthRequest(t, checker)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unhealthy", status.Checks["ingest"].Status)
		assert.Equal(t, "healthy", status.Checks["graph"].Status)
	})
}

func TestReady(t *testing.T) {
	checker := NewChecker(&fakePinger{}, nil, nil, "test")
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, checker.Ready(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	checker.SetReady(true)

	rec = httptest.NewRecorder()
	require.NoError(t, checker.Ready(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
