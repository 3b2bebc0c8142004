package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/jwtflow/core/health"
	"github.com/dmitrymomot/jwtflow/core/logger"
)

func probe(h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = h(c)
	return rec
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := probe(health.Liveness)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = probe(health.NoContent)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name   string
		checks []health.Check
		status int
		body   string
	}{
		{"no checks", nil, http.StatusOK, "READY"},
		{"all pass", []health.Check{ok, ok}, http.StatusOK, "READY"},
		{"one fails", []health.Check{ok, fail}, http.StatusServiceUnavailable, "NOT READY"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := probe(health.Readiness(logger.Discard(), tt.checks...))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
