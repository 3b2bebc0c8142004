package api_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jwtflow/core/api"
	"github.com/dmitrymomot/jwtflow/core/logger"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

func newJSONLogger(w io.Writer) *slog.Logger {
	return logger.New(logger.WithJSONFormatter(), logger.WithOutput(w), logger.WithLevel(slog.LevelDebug))
}

func newProtectedEcho(t *testing.T, cfg api.TokenConfig) (*echo.Echo, *jwt.Service) {
	t.Helper()
	svc, err := jwt.New(jwt.Config{Issuer: "my-app", Algorithm: jwt.HS256, Secret: "test-secret"})
	require.NoError(t, err)
	if cfg.Verifier == nil && cfg.VerifierFor == nil {
		cfg.Verifier = svc
	}

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler(logger.Discard())
	e.Use(api.RequireTokenWithConfig(cfg))
	e.GET("/me", func(c echo.Context) error {
		claims, ok := api.ClaimsFromContext(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, claims.Subject())
	})
	return e, svc
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	e, svc := newProtectedEcho(t, api.TokenConfig{})
	token, err := svc.Sign(nil, jwt.WithSubject("user-1"))
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := serve(e, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("raw token without scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, token)
		assert.Equal(t, http.StatusOK, serve(e, req).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer invalid.token.here")
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := svc.Sign(nil, jwt.WithExpiresIn(-5))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})
}

func TestRequireTokenExtractors(t *testing.T) {
	t.Parallel()

	e, svc := newProtectedEcho(t, api.TokenConfig{
		Extractor: api.TokenFromMultiple(
			api.TokenFromHeader("X-Token"),
			api.TokenFromCookie("auth_token"),
			api.TokenFromQuery("token"),
		),
	})
	token, err := svc.Sign(nil, jwt.WithSubject("user-2"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Token", token)
	assert.Equal(t, "user-2", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	assert.Equal(t, "user-2", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	assert.Equal(t, "user-2", serve(e, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestRequireTokenSkipAndErrorHandler(t *testing.T) {
	t.Parallel()

	e, _ := newProtectedEcho(t, api.TokenConfig{
		Skip: func(c echo.Context) bool { return c.QueryParam("public") == "1" },
		ErrorHandler: func(c echo.Context, err error) error {
			return c.String(http.StatusForbidden, "denied")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/me?public=1", nil)
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	rec = serve(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "denied", rec.Body.String())
}

func TestRequireTokenPanicsWithoutVerifier(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { api.RequireTokenWithConfig(api.TokenConfig{}) })
}
