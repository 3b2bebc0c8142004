package revocation

import "errors"

var (
	ErrEmptyTokenID                 = errors.New("token id is required")
	ErrEmptyConnectionURL           = errors.New("empty redis connection url")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready in time")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
