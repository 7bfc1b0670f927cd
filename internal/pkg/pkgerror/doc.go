// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Dataset failures fall into three buckets, each with a sentinel for errors.Is:
//   - ErrFetch: the source is unreachable or does not contain a table.
//   - ErrSchema: an identifying column is missing or tables are not aligned.
//   - ErrDivisionUndefined: a ratio was requested over zero cases.
//
// The structured Error type carries a message, type, and code which the router
// maps to HTTP status codes.
package pkgerror
