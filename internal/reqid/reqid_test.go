package reqid

import (
	"context"
	"testing"
)

func TestNewContext_AttachesNonEmptyID(t *testing.T) {
	ctx := NewContext(context.Background())
	id := FromContext(ctx)
	if id == "" {
		t.Fatalf("expected a non-empty request ID")
	}
}

func TestNewContext_DistinctPerCall(t *testing.T) {
	first := FromContext(NewContext(context.Background()))
	second := FromContext(NewContext(context.Background()))
	if first == second {
		t.Fatalf("expected distinct request IDs, got %q twice", first)
	}
}

func TestFromContext_EmptyWhenUnset(t *testing.T) {
	if got := FromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request ID on a bare context, got %q", got)
	}
}
