package jwt

import "time"

// Option configures a Signer, Verifier or Service.
type Option func(*options)

type options struct {
	now      func() time.Time
	location *time.Location
}

func newOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the wall clock used for issued-at and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the time zone used for expiration arithmetic.
// Offsets are added in local wall-clock time, so a 60 minute offset across
// a daylight-saving change follows the local clock. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// SignOption sets optional registered claims for a single Sign call.
type SignOption func(*signParams)

type signParams struct {
	subject   string
	audience  string
	tokenID   string
	expiresIn *int
}

// WithSubject sets the "sub" claim. Empty values are ignored.
func WithSubject(subject string) SignOption {
	return func(p *signParams) { p.subject = subject }
}

// WithAudience sets the "aud" claim. Empty values are ignored.
func WithAudience(audience string) SignOption {
	return func(p *signParams) { p.audience = audience }
}

// WithTokenID sets the "jti" claim. Empty values are ignored.
func WithTokenID(id string) SignOption {
	return func(p *signParams) { p.tokenID = id }
}

// WithExpiresIn sets "exp" to issued-at plus the given number of minutes.
// Zero or negative offsets produce a token that is already expired.
// Without this option the token never expires.
func WithExpiresIn(minutes int) SignOption {
	return func(p *signParams) { p.expiresIn = &minutes }
}
