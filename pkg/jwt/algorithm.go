package jwt

import (
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Algorithm identifies a signing algorithm by its JOSE name.
type Algorithm string

// Supported algorithms. All of them are symmetric HMAC variants keyed by the
// configured secret.
const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
)

// aliases maps the long enum-style names some configurations use.
var aliases = map[string]Algorithm{
	"HMAC256": HS256,
	"HMAC384": HS384,
	"HMAC512": HS512,
}

type algorithmEntry struct {
	symmetric bool
	create    func(secret []byte) *Primitive
}

var algorithms = map[Algorithm]algorithmEntry{
	HS256: {symmetric: true, create: hmac(gojwt.SigningMethodHS256)},
	HS384: {symmetric: true, create: hmac(gojwt.SigningMethodHS384)},
	HS512: {symmetric: true, create: hmac(gojwt.SigningMethodHS512)},
}

func hmac(method *gojwt.SigningMethodHMAC) func([]byte) *Primitive {
	return func(secret []byte) *Primitive {
		key := make([]byte, len(secret))
		copy(key, secret)
		return &Primitive{method: method, key: key}
	}
}

// ParseAlgorithm normalizes an algorithm name. It accepts the JOSE names
// (HS256, HS384, HS512) and the HMAC256/HMAC384/HMAC512 aliases, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return "", ErrMissingAlgorithm
	}
	if alg, ok := aliases[name]; ok {
		return alg, nil
	}
	alg := Algorithm(name)
	if _, ok := algorithms[alg]; !ok {
		return "", ErrUnsupportedAlgorithm
	}
	return alg, nil
}

// Supported reports whether the algorithm is known.
func (a Algorithm) Supported() bool {
	_, ok := algorithms[a]
	return ok
}

func (a Algorithm) String() string { return string(a) }

// UnmarshalText lets env and yaml decoders accept aliases.
func (a *Algorithm) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = ""
		return nil
	}
	alg, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

// Primitive is a keyed signing function bound to one configuration.
// It is immutable and safe to share between goroutines.
type Primitive struct {
	method *gojwt.SigningMethodHMAC
	key    []byte
}

// NewPrimitive builds the signing primitive for the configured algorithm.
// The secret is used as raw bytes.
func NewPrimitive(cfg Config) (*Primitive, error) {
	entry, ok := algorithms[cfg.Algorithm]
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	return entry.create([]byte(cfg.Secret)), nil
}

// Algorithm returns the JOSE name the primitive signs with.
func (p *Primitive) Algorithm() Algorithm {
	return Algorithm(p.method.Alg())
}
