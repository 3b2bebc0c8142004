package jwt

// Service pairs a Signer and a Verifier built from the same configuration.
type Service struct {
	*Signer
	verifier *Verifier
}

// New validates cfg and returns a Service that can both sign and verify.
func New(cfg Config, opts ...Option) (*Service, error) {
	signer, err := NewSigner(cfg, opts...)
	if err != nil {
		return nil, err
	}
	verifier, err := NewVerifier(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Service{Signer: signer, verifier: verifier}, nil
}

// Verify reports whether token is valid for this configuration.
func (s *Service) Verify(token string) bool { return s.verifier.Verify(token) }

// Parse verifies token and returns its claims.
func (s *Service) Parse(token string) (Claims, error) { return s.verifier.Parse(token) }

// Verifier returns the underlying verifier.
func (s *Service) Verifier() *Verifier { return s.verifier }
