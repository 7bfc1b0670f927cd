// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// Handlers return (payload, error); the router encodes payloads in a
// {message, data, meta} envelope and maps pkgerror codes to HTTP statuses.
// Every route runs behind panic recovery, correlation ID propagation, and
// access logging.
package pkgrouter
