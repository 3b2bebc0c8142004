// Package revocation keeps a list of revoked token IDs (jti claims).
//
// Memory serves a single process. Redis shares the list between instances
// and lets each entry expire together with the token it revokes:
//
//	client, err := revocation.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	revoker := revocation.NewRedis(client, cfg.KeyPrefix)
//
// Tokens without a jti cannot be revoked.
package revocation
