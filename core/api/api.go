package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/jwtflow/core/health"
	"github.com/dmitrymomot/jwtflow/core/logger"
	"github.com/dmitrymomot/jwtflow/core/profile"
	"github.com/dmitrymomot/jwtflow/core/revocation"
	"github.com/dmitrymomot/jwtflow/core/telemetry"
)

// API serves the token endpoints for every profile in a registry.
type API struct {
	registry  *profile.Registry
	log       *slog.Logger
	metrics   *telemetry.TokenMetrics
	newID     func() string
	rateLimit rate.Limit
	burst     int
	revoker   revocation.Revoker
	checks    []health.Check
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger used for request and token logs.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics records sign/verify outcomes.
func WithMetrics(m *telemetry.TokenMetrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithIDGenerator replaces the generator used for "jti" and request IDs.
func WithIDGenerator(fn func() string) Option {
	return func(a *API) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// WithRateLimit limits requests per client IP. A zero rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *API) {
		a.rateLimit = rate.Limit(rps)
		a.burst = burst
	}
}

// WithRevoker enables token revocation. Without it nothing is ever revoked.
func WithRevoker(r revocation.Revoker) Option {
	return func(a *API) {
		if r != nil {
			a.revoker = r
		}
	}
}

// WithReadinessCheck adds a dependency check to /health/ready.
func WithReadinessCheck(checks ...health.Check) Option {
	return func(a *API) { a.checks = append(a.checks, checks...) }
}

// New creates the API for reg.
func New(reg *profile.Registry, opts ...Option) *API {
	a := &API{
		registry: reg,
		log:      logger.Discard(),
		newID:    uuid.NewString,
		revoker:  revocation.NoOp{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler builds the echo router with middleware and routes.
func (a *API) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(a.log)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: a.newID}))
	e.Use(a.requestLogger())
	e.Use(middleware.Recover())
	if a.rateLimit > 0 {
		e.Use(a.rateLimiter())
	}

	e.GET("/healthz", health.Liveness)
	e.GET("/health/live", health.Liveness)
	e.GET("/health/ready", health.Readiness(a.log, append([]health.Check{a.profilesLoaded}, a.checks...)...))

	v1 := e.Group("/v1")
	v1.GET("/profiles", a.listProfiles)
	v1.POST("/profiles/:profile/sign", a.sign)
	v1.POST("/profiles/:profile/verify", a.verify)
	v1.POST("/profiles/:profile/revoke", a.revoke)
	v1.GET("/profiles/:profile/claims", a.claims, RequireTokenWithConfig(TokenConfig{
		VerifierFor: a.profileVerifier,
	}))

	return e
}

func (a *API) profilesLoaded(context.Context) error {
	if a.registry.Len() == 0 {
		return profile.ErrNoProfiles
	}
	return nil
}

func (a *API) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			a.log.LogAttrs(c.Request().Context(), level, "request",
				logger.Component("api"),
				logger.Method(v.Method),
				logger.Path(v.URI),
				logger.StatusCode(v.Status),
				logger.RequestID(v.RequestID),
				logger.ClientIP(v.RemoteIP),
				logger.Duration(v.Latency),
				logger.Error(v.Error),
			)
			return nil
		},
	})
}

func (a *API) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      a.rateLimit,
		Burst:     a.burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return ErrBadRequest.WithMessage("cannot identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return ErrTooManyRequests
		},
	})
}
