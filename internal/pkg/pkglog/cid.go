package pkglog

import "context"

type correlationIDKey struct{}

// GetCorrelationID returns the correlation ID stored in the context, or
// "[invalid_chain_id]" when the request never passed the correlation middleware
// (background refresh workers, CLI runs).
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return "[invalid_chain_id]"
	}
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return "[invalid_chain_id]"
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
