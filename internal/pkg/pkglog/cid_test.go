package pkglog

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelationID(ctx); got != "[invalid_chain_id]" {
		t.Fatalf("expected invalid chain id, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "refresh-42")
	if got := GetCorrelationID(ctx); got != "refresh-42" {
		t.Fatalf("expected refresh-42, got %q", got)
	}
}

//nolint:staticcheck // nil context is exercised on purpose
func TestCorrelationIDNilContext(t *testing.T) {
	if got := GetCorrelationID(nil); got != "[invalid_chain_id]" {
		t.Fatalf("expected invalid chain id, got %q", got)
	}
}
