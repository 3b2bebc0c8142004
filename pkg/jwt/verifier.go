package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Verifier checks signature, algorithm, issuer and expiry of tokens.
// Safe for concurrent use.
type Verifier struct {
	issuer    string
	primitive *Primitive
	parser    *gojwt.Parser
}

// NewVerifier validates cfg and binds its verification primitive.
func NewVerifier(cfg Config, opts ...Option) (*Verifier, error) {
	p, err := cfg.bind()
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &Verifier{
		issuer:    cfg.Issuer,
		primitive: p,
		parser: gojwt.NewParser(
			gojwt.WithValidMethods([]string{p.method.Alg()}),
			gojwt.WithIssuer(cfg.Issuer),
			gojwt.WithTimeFunc(o.now),
			gojwt.WithStrictDecoding(),
			gojwt.WithJSONNumber(),
		),
	}, nil
}

// Verify reports whether the token is well-formed, signed with the
// configured algorithm and key, issued by the configured issuer and not
// expired. It never returns an error; use Parse for the failure reason.
func (v *Verifier) Verify(token string) bool {
	_, err := v.Parse(token)
	return err == nil
}

// Parse verifies the token like Verify and returns its claims. Integral
// numbers are returned as int64, other numbers as float64. The error
// wraps ErrInvalidToken and the underlying cause.
func (v *Verifier) Parse(token string) (Claims, error) {
	parsed, err := v.parser.Parse(token, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return normalizeClaims(claims), nil
}

// Algorithm returns the algorithm the verifier is bound to.
func (v *Verifier) Algorithm() Algorithm { return v.primitive.Algorithm() }

// Issuer returns the expected issuer.
func (v *Verifier) Issuer() string { return v.issuer }

func (v *Verifier) keyFunc(t *gojwt.Token) (any, error) {
	if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok || t.Method.Alg() != v.primitive.method.Alg() {
		return nil, ErrAlgorithmMismatch
	}
	return v.primitive.key, nil
}

// ExpiresAt extracts the "exp" claim, if present.
func (c Claims) ExpiresAt() (time.Time, bool) {
	return c.unixTime(ClaimExpiresAt)
}

// IssuedAt extracts the "iat" claim, if present.
func (c Claims) IssuedAt() (time.Time, bool) {
	return c.unixTime(ClaimIssuedAt)
}

// Subject returns the "sub" claim or an empty string.
func (c Claims) Subject() string {
	s, _ := c[ClaimSubject].(string)
	return s
}

// Issuer returns the "iss" claim or an empty string.
func (c Claims) Issuer() string {
	s, _ := c[ClaimIssuer].(string)
	return s
}

func (c Claims) unixTime(name string) (time.Time, bool) {
	switch v := c[name].(type) {
	case int64:
		return time.Unix(v, 0), true
	case float64:
		return time.Unix(int64(v), 0), true
	default:
		return time.Time{}, false
	}
}
