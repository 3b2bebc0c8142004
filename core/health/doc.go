// Package health provides echo handlers for service health probes.
//
//	e.GET("/health/live", health.Liveness)
//	e.GET("/health/ready", health.Readiness(log, func(ctx context.Context) error {
//		if registry.Len() == 0 {
//			return errors.New("no profiles")
//		}
//		return nil
//	}))
//
// Checks follow the func(context.Context) error signature.
package health
