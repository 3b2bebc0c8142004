package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Signer builds signed tokens for one configuration.
// Safe for concurrent use.
type Signer struct {
	issuer    string
	primitive *Primitive
	now       func() time.Time
	location  *time.Location
}

// NewSigner validates cfg and binds its signing primitive.
func NewSigner(cfg Config, opts ...Option) (*Signer, error) {
	p, err := cfg.bind()
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &Signer{
		issuer:    cfg.Issuer,
		primitive: p,
		now:       o.now,
		location:  o.location,
	}, nil
}

// Sign creates a compact token carrying iss, iat, the optional registered
// claims from opts and every supported value from claims. Unsupported claim
// values are skipped. Registered claims win over same-named entries in claims.
func (s *Signer) Sign(claims Claims, opts ...SignOption) (string, error) {
	var params signParams
	for _, opt := range opts {
		opt(&params)
	}

	issuedAt := s.now().Truncate(time.Second)

	payload := make(gojwt.MapClaims, len(claims)+6)
	for name, value := range claims {
		if _, ok := registered[name]; ok {
			continue
		}
		if encoded, ok := encodeClaim(value); ok {
			payload[name] = encoded
		}
	}

	payload[ClaimIssuer] = s.issuer
	payload[ClaimIssuedAt] = gojwt.NewNumericDate(issuedAt)
	if params.expiresIn != nil {
		payload[ClaimExpiresAt] = gojwt.NewNumericDate(s.expiresAt(issuedAt, *params.expiresIn))
	}
	if params.subject != "" {
		payload[ClaimSubject] = params.subject
	}
	if params.audience != "" {
		payload[ClaimAudience] = params.audience
	}
	if params.tokenID != "" {
		payload[ClaimID] = params.tokenID
	}

	token, err := gojwt.NewWithClaims(s.primitive.method, payload).SignedString(s.primitive.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignToken, err)
	}
	return token, nil
}

// Algorithm returns the algorithm the signer is bound to.
func (s *Signer) Algorithm() Algorithm { return s.primitive.Algorithm() }

// Issuer returns the configured issuer.
func (s *Signer) Issuer() string { return s.issuer }

// expiresAt adds minutes on the local wall clock. When a positive offset
// lands on or before issuedAt (repeated hour at a DST fall-back) it falls
// back to absolute time so exp stays strictly after iat.
func (s *Signer) expiresAt(issuedAt time.Time, minutes int) time.Time {
	local := issuedAt.In(s.location)
	exp := time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute()+minutes, local.Second(), 0,
		s.location,
	)
	if minutes > 0 && !exp.After(issuedAt) {
		exp = issuedAt.Add(time.Duration(minutes) * time.Minute)
	}
	return exp
}
