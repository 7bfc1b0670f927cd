// Package pkglog contains logging helpers used across the application.
//
// It is built around slog: a JSON handler with stable keys ("ts", "severity",
// "file"), a service attribute, and the request correlation ID when present.
package pkglog
