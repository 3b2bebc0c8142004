// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment-specific configurations, context-aware attribute extraction
// and a set of pre-built attributes for HTTP and token operations.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/jwtflow/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("jwtflow"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(
//		logger.WithProduction("jwtflow"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("token signed",
//		logger.Component("api"),
//		logger.Profile("default"),
//		logger.Algorithm("HS256"),
//		logger.Subject("user-1"),
//	)
//
// # Context-Aware Logging
//
// Extract and inject attributes automatically from context values:
//
//	type requestIDKey struct{}
//
//	log := logger.New(
//		logger.WithProduction("jwtflow"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-12345")
//	log.InfoContext(ctx, "verifying token")
//	// Output: {"level":"INFO","msg":"verifying token","request_id":"req-12345",...}
//
// # Nil Safety
//
// Attribute helpers such as Error, RequestID and Subject return an empty
// slog.Attr for zero input, which slog omits from the output:
//
//	log.Error("sign failed", logger.Error(err))
package logger
