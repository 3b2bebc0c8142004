package jwt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid jwt configuration")

	ErrMissingIssuer        = errors.New("issuer is required")
	ErrMissingAlgorithm     = errors.New("algorithm is required")
	ErrMissingSecret        = errors.New("secret is required for HMAC algorithms")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrSignToken wraps failures of the underlying signing primitive.
	ErrSignToken = errors.New("failed to sign token")

	// ErrInvalidToken is returned by Parse for any token that does not verify.
	// The underlying cause stays in the chain, so errors.Is works against the
	// golang-jwt sentinels (ErrTokenExpired, ErrTokenSignatureInvalid, ...).
	ErrInvalidToken      = errors.New("invalid token")
	ErrAlgorithmMismatch = errors.New("token algorithm does not match configuration")

	// ErrTrailingClaimsData is returned by DecodeClaims when the input holds
	// more than one JSON value.
	ErrTrailingClaimsData = errors.New("unexpected data after claims object")
)

// ConfigError reports which configuration field failed validation.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidConfig, e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is reports true for ErrInvalidConfig so callers can match the whole class.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configError(field string, err error) error {
	return &ConfigError{Field: field, Err: err}
}
