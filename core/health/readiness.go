package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrymomot/jwtflow/core/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// Readiness runs every check and returns "READY", or 503 Service
// Unavailable on the first failure.
func Readiness(log *slog.Logger, checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				return c.String(http.StatusServiceUnavailable, "NOT READY")
			}
		}
		return c.String(http.StatusOK, "READY")
	}
}
