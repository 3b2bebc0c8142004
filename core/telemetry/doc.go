// Package telemetry exposes OpenTelemetry instruments for token operations.
package telemetry
