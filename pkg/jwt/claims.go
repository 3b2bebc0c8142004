package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims maps claim names to values. Supported value types are string,
// time.Time, signed and unsigned integers, float32/float64, bool and
// json.Number. Values of any other type are skipped when signing.
type Claims map[string]any

// Registered claim names set by the signer.
const (
	ClaimIssuer    = "iss"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimID        = "jti"
)

var registered = map[string]struct{}{
	ClaimIssuer:    {},
	ClaimIssuedAt:  {},
	ClaimExpiresAt: {},
	ClaimSubject:   {},
	ClaimAudience:  {},
	ClaimID:        {},
}

// encodeClaim converts a claim value into its wire representation.
// The second result is false for unsupported types.
func encodeClaim(v any) (any, bool) {
	switch val := v.(type) {
	case string, bool, int64, float64:
		return val, true
	case time.Time:
		return gojwt.NewNumericDate(val), true
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, false
		}
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return nil, false
		}
		return int64(val), true
	case float32:
		return float64(val), true
	case json.Number:
		n := normalizeNumber(val)
		return n, n != nil
	default:
		return nil, false
	}
}

// DecodeClaims decodes a JSON object into Claims. Integral numbers become
// int64 and other numbers float64. Nested objects and arrays are kept as
// decoded; the signer drops them as unsupported.
func DecodeClaims(data []byte) (Claims, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Claims{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingClaimsData
	}
	return normalizeClaims(raw), nil
}

func normalizeClaims(raw map[string]any) Claims {
	out := make(Claims, len(raw))
	for k, v := range raw {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		return normalizeNumber(val)
	case map[string]any:
		return map[string]any(normalizeClaims(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return nil
}
