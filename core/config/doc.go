// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use
// and uses the caarlos0/env library for parsing environment variables into
// struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/jwtflow/core/config"
//
//	type TokenConfig struct {
//		Issuer    string `env:"JWT_ISSUER,required"`
//		Algorithm string `env:"JWT_ALGORITHM" envDefault:"HS256"`
//		Secret    string `env:"JWT_SECRET,required"`
//	}
//
//	func main() {
//		var cfg TokenConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 TokenConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 TokenConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// A failed load is not cached. Reset clears the cache in tests.
package config
