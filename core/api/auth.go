package api

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

// claimsContextKey is the echo context key for verified claims.
const claimsContextKey = "jwtflow.claims"

// Verifier parses and verifies a token. *jwt.Service and *jwt.Verifier satisfy it.
type Verifier interface {
	Parse(token string) (jwt.Claims, error)
}

// TokenExtractor pulls a raw token out of a request.
type TokenExtractor func(c echo.Context) string

// TokenConfig configures the bearer token middleware.
type TokenConfig struct {
	// Skip bypasses verification for matching requests.
	Skip func(c echo.Context) bool
	// Verifier is used when VerifierFor is nil.
	Verifier Verifier
	// VerifierFor picks the verifier per request, e.g. from a path parameter.
	VerifierFor func(c echo.Context) (Verifier, error)
	// Extractor defaults to TokenFromAuthHeader.
	Extractor TokenExtractor
	// ErrorHandler defaults to returning 401 Unauthorized.
	ErrorHandler func(c echo.Context, err error) error
}

// RequireToken rejects requests without a token that verifies against v and
// stores the verified claims in the echo context.
func RequireToken(v Verifier) echo.MiddlewareFunc {
	return RequireTokenWithConfig(TokenConfig{Verifier: v})
}

// RequireTokenWithConfig is RequireToken with custom extraction, verifier
// selection, skipping and error handling. Panics without a verifier source.
func RequireTokenWithConfig(cfg TokenConfig) echo.MiddlewareFunc {
	if cfg.Verifier == nil && cfg.VerifierFor == nil {
		panic("token middleware: verifier is required")
	}
	if cfg.VerifierFor == nil {
		static := cfg.Verifier
		cfg.VerifierFor = func(echo.Context) (Verifier, error) { return static, nil }
	}
	if cfg.Extractor == nil {
		cfg.Extractor = TokenFromAuthHeader()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c echo.Context, err error) error {
			var apiErr Error
			if errors.As(err, &apiErr) {
				return apiErr
			}
			return ErrTokenRejected
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			v, err := cfg.VerifierFor(c)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			token := cfg.Extractor(c)
			if token == "" {
				return cfg.ErrorHandler(c, ErrMissingToken)
			}

			claims, err := v.Parse(token)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by RequireToken.
func ClaimsFromContext(c echo.Context) (jwt.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(jwt.Claims)
	return claims, ok
}

// TokenFromAuthHeader reads "Authorization: Bearer <token>". A header
// without the Bearer scheme is used as the token itself.
func TokenFromAuthHeader() TokenExtractor {
	return func(c echo.Context) string {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if auth == "" {
			return ""
		}
		const bearerPrefix = "Bearer "
		if len(auth) >= len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(auth[len(bearerPrefix):])
		}
		return auth
	}
}

// TokenFromHeader reads the token from a custom header.
func TokenFromHeader(name string) TokenExtractor {
	return func(c echo.Context) string {
		return c.Request().Header.Get(name)
	}
}

// TokenFromQuery reads the token from a URL query parameter.
func TokenFromQuery(name string) TokenExtractor {
	return func(c echo.Context) string {
		return c.QueryParam(name)
	}
}

// TokenFromCookie reads the token from a cookie.
func TokenFromCookie(name string) TokenExtractor {
	return func(c echo.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// TokenFromMultiple tries extractors in order and returns the first token found.
func TokenFromMultiple(extractors ...TokenExtractor) TokenExtractor {
	return func(c echo.Context) string {
		for _, extract := range extractors {
			if token := extract(c); token != "" {
				return token
			}
		}
		return ""
	}
}
