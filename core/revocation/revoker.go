package revocation

import (
	"context"
	"time"
)

// Revoker tracks revoked token IDs (jti claims).
type Revoker interface {
	// IsRevoked reports whether the token ID is on the revocation list.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Revoke adds the token ID to the list until the given time, normally
	// the token's expiration. A zero until keeps it revoked forever.
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// NoOp never revokes anything.
type NoOp struct{}

// IsRevoked always returns false.
func (NoOp) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// Revoke does nothing.
func (NoOp) Revoke(context.Context, string, time.Time) error { return nil }
