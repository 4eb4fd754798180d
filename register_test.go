package graphql

import "testing"

func TestInput_UnionFieldRejected(t *testing.T) {
	type PetFilter struct {
		Pet UnionValue `graphql:"pet"`
	}

	_, err := Input[PetFilter]()
	if err == nil {
		t.Fatalf("expected Input[PetFilter] to fail, got nil error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Kind != KindSchemaBuild {
		t.Fatalf("expected KindSchemaBuild, got %v", ce.Kind)
	}
	if ce.FieldName != "pet" {
		t.Fatalf("expected field name %q, got %q", "pet", ce.FieldName)
	}
}
