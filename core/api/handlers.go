package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrymomot/jwtflow/core/logger"
	"github.com/dmitrymomot/jwtflow/pkg/jwt"
)

// SignRequest is the body of POST /v1/profiles/:profile/sign.
type SignRequest struct {
	Subject          string          `json:"subject,omitempty"`
	Audience         string          `json:"audience,omitempty"`
	ExpiresInMinutes *int            `json:"expires_in_minutes,omitempty"`
	Claims           json.RawMessage `json:"claims,omitempty"`
	GenerateID       bool            `json:"generate_id,omitempty"`
}

// SignResponse carries the signed token.
type SignResponse struct {
	Token   string `json:"token"`
	TokenID string `json:"token_id,omitempty"`
}

// VerifyRequest is the body of POST /v1/profiles/:profile/verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse reports the verification outcome.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// ProfileInfo describes a profile without its secret.
type ProfileInfo struct {
	Name      string `json:"name"`
	Issuer    string `json:"issuer"`
	Algorithm string `json:"algorithm"`
}

func (a *API) listProfiles(c echo.Context) error {
	names := a.registry.Names()
	out := make([]ProfileInfo, 0, len(names))
	for _, name := range names {
		issuer, alg, ok := a.registry.Describe(name)
		if !ok {
			continue
		}
		out = append(out, ProfileInfo{Name: name, Issuer: issuer, Algorithm: alg.String()})
	}
	return c.JSON(http.StatusOK, map[string]any{"profiles": out})
}

func (a *API) sign(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("profile")
	svc, ok := a.registry.Get(name)
	if !ok {
		return ErrProfileNotFound
	}

	var req SignRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return ErrBadRequest.WithMessage("invalid request body")
	}
	claims, err := jwt.DecodeClaims(req.Claims)
	if err != nil {
		return ErrBadRequest.WithMessage("claims must be a JSON object")
	}

	opts := []jwt.SignOption{
		jwt.WithSubject(req.Subject),
		jwt.WithAudience(req.Audience),
	}
	if req.ExpiresInMinutes != nil {
		opts = append(opts, jwt.WithExpiresIn(*req.ExpiresInMinutes))
	}
	var tokenID string
	if req.GenerateID {
		tokenID = a.newID()
		opts = append(opts, jwt.WithTokenID(tokenID))
	}

	start := time.Now()
	token, err := svc.Sign(claims, opts...)
	a.metrics.RecordSign(ctx, name, err == nil, time.Since(start))
	if err != nil {
		a.log.ErrorContext(ctx, "token signing failed",
			logger.Component("api"),
			logger.Action("sign"),
			logger.Profile(name),
			logger.Algorithm(svc.Algorithm().String()),
			logger.Error(err),
		)
		return ErrSignFailed
	}

	a.log.DebugContext(ctx, "token signed",
		logger.Component("api"),
		logger.Action("sign"),
		logger.Profile(name),
		logger.Subject(req.Subject),
		logger.TokenID(tokenID),
	)
	return c.JSON(http.StatusCreated, SignResponse{Token: token, TokenID: tokenID})
}

func (a *API) verify(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("profile")
	svc, ok := a.registry.Get(name)
	if !ok {
		return ErrProfileNotFound
	}

	var req VerifyRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return ErrBadRequest.WithMessage("invalid request body")
	}

	start := time.Now()
	_, err := a.parse(ctx, svc, req.Token)
	valid := err == nil
	a.metrics.RecordVerify(ctx, name, valid, time.Since(start))

	result := "success"
	if !valid {
		result = "failure"
	}
	a.log.DebugContext(ctx, "token verified",
		logger.Component("api"),
		logger.Action("verify"),
		logger.Profile(name),
		logger.Result(result),
		logger.Error(err),
	)
	return c.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}

// revoke adds a valid token's jti to the revocation list until it expires.
func (a *API) revoke(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("profile")
	svc, ok := a.registry.Get(name)
	if !ok {
		return ErrProfileNotFound
	}

	var req VerifyRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return ErrBadRequest.WithMessage("invalid request body")
	}

	claims, err := a.parse(ctx, svc, req.Token)
	if err != nil {
		return ErrBadRequest.WithMessage("invalid token")
	}
	jti, _ := claims[jwt.ClaimID].(string)
	if jti == "" {
		return ErrBadRequest.WithMessage("token has no id")
	}
	until, _ := claims.ExpiresAt()

	if err := a.revoker.Revoke(ctx, jti, until); err != nil {
		a.log.ErrorContext(ctx, "token revocation failed",
			logger.Component("api"),
			logger.Action("revoke"),
			logger.Profile(name),
			logger.TokenID(jti),
			logger.Error(err),
		)
		return ErrInternalServerError
	}

	a.log.InfoContext(ctx, "token revoked",
		logger.Component("api"),
		logger.Action("revoke"),
		logger.Profile(name),
		logger.TokenID(jti),
	)
	return c.NoContent(http.StatusNoContent)
}

// parse verifies token and rejects it when its jti is revoked. A failing
// revocation store rejects the token.
func (a *API) parse(ctx context.Context, svc Verifier, token string) (jwt.Claims, error) {
	claims, err := svc.Parse(token)
	if err != nil {
		return nil, err
	}
	jti, _ := claims[jwt.ClaimID].(string)
	if jti == "" {
		return claims, nil
	}
	revoked, err := a.revoker.IsRevoked(ctx, jti)
	if err != nil {
		return nil, errors.Join(ErrRevocationCheck, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (a *API) claims(c echo.Context) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ErrUnauthorized
	}
	return c.JSON(http.StatusOK, claims)
}

func (a *API) profileVerifier(c echo.Context) (Verifier, error) {
	svc, ok := a.registry.Get(c.Param("profile"))
	if !ok {
		return nil, ErrProfileNotFound
	}
	return revocationAware{api: a, ctx: c.Request().Context(), svc: svc}, nil
}

// revocationAware binds a request context to a profile verifier.
type revocationAware struct {
	api *API
	ctx context.Context
	svc Verifier
}

func (r revocationAware) Parse(token string) (jwt.Claims, error) {
	return r.api.parse(r.ctx, r.svc, token)
}
