package jwt

import "strings"

// Config is the token configuration shared by a signer and a verifier.
// It is copied into the signer/verifier on construction and never mutated.
type Config struct {
	Issuer    string    `env:"JWT_ISSUER" yaml:"issuer"`
	Algorithm Algorithm `env:"JWT_ALGORITHM" envDefault:"HS256" yaml:"algorithm"`
	Secret    string    `env:"JWT_SECRET" yaml:"secret"`
}

// Configure parses the algorithm name and returns a validated Config.
func Configure(issuer, algorithm, secret string) (Config, error) {
	alg, err := ParseAlgorithm(algorithm)
	if err != nil {
		return Config{}, configError("algorithm", err)
	}
	cfg := Config{Issuer: issuer, Algorithm: alg, Secret: secret}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and returns a *ConfigError naming
// the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Issuer) == "" {
		return configError("issuer", ErrMissingIssuer)
	}
	if c.Algorithm == "" {
		return configError("algorithm", ErrMissingAlgorithm)
	}
	entry, ok := algorithms[c.Algorithm]
	if !ok {
		return configError("algorithm", ErrUnsupportedAlgorithm)
	}
	if entry.symmetric && c.Secret == "" {
		return configError("secret", ErrMissingSecret)
	}
	return nil
}

// bind validates the configuration and creates its primitive.
func (c Config) bind() (*Primitive, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := NewPrimitive(c)
	if err != nil {
		return nil, configError("algorithm", err)
	}
	return p, nil
}
