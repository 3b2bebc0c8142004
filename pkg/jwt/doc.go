// Package jwt signs and verifies compact JSON Web Tokens with HMAC keys.
//
// A Config names the issuer, the algorithm (HS256, HS384 or HS512) and the
// shared secret. Signers and verifiers validate the configuration once, bind
// the keyed primitive, and are then safe to share between goroutines. Each
// Sign or Verify call is independent and only reads the clock.
//
// # Usage
//
//	cfg, err := jwt.Configure("my-app", "HS256", "s3cr3t")
//	if err != nil {
//		log.Fatal(err) // *jwt.ConfigError, matches jwt.ErrInvalidConfig
//	}
//
//	svc, err := jwt.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	token, err := svc.Sign(jwt.Claims{"role": "admin"},
//		jwt.WithSubject("user-1"),
//		jwt.WithExpiresIn(15),
//	)
//	if err != nil {
//		log.Fatal(err) // matches jwt.ErrSignToken
//	}
//
//	if !svc.Verify(token) {
//		// bad structure, wrong algorithm, bad signature, wrong issuer or expired
//	}
//
// # Claims
//
// Claim values may be strings, time.Time (encoded as seconds since the
// epoch), integers, floats or booleans. Values of other types are dropped
// from the token without an error. The registered claims iss, iat, exp,
// sub, aud and jti are always controlled by the signer.
//
// # Verification
//
// Verify returns a single boolean. Parse performs the same checks and
// returns either the decoded claims or an error wrapping ErrInvalidToken
// together with the golang-jwt cause, for callers that need the reason.
package jwt
