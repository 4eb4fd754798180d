package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildSampleSchema() *Schema {
	s := NewSchema("")
	s.SetQueryType("Query")

	letter := NewType("Letter", TypeKindInterface, "A single letter.").
		AddField(NewField("letter", "", NonNullType(NamedType("String"))))

	a := NewType("A", TypeKindObject, "").
		AddInterface("Letter").
		AddField(NewField("letter", "", NonNullType(NamedType("String")))).
		AddField(NewField("a", "", NonNullType(NamedType("Int"))))

	b := NewType("B", TypeKindObject, "").
		AddInterface("Letter").
		AddField(NewField("letter", "", NonNullType(NamedType("String")))).
		AddField(NewField("b", "", NonNullType(NamedType("Int"))))

	namedAB := NewType("NamedAB", TypeKindUnion, "").
		AddPossibleType("A").
		AddPossibleType("B")

	query := NewType("Query", TypeKindObject, "").
		AddField(NewField("greeting", "", NonNullType(NamedType("String"))).SetAsync(false)).
		AddField(
			NewField("common", "", NamedType("Letter")).
				AddArgument(NewInputValue("type", "", NonNullType(NamedType("String")))),
		).
		AddField(
			NewField("named", "", NamedType("NamedAB")).
				AddArgument(NewInputValue("type", "", NonNullType(NamedType("String")))),
		)

	s.AddType(query).AddType(letter).AddType(a).AddType(b).AddType(namedAB)
	return s
}

func TestRender_DeterministicOrdering(t *testing.T) {
	s := buildSampleSchema()
	first := Render(s)
	second := Render(buildSampleSchema())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Render is not deterministic across equivalent builds (-first +second):\n%s", diff)
	}
	if want := "interface Letter"; !contains(first, want) {
		t.Errorf("expected rendered SDL to contain %q, got:\n%s", want, first)
	}
	if want := "type A implements Letter"; !contains(first, want) {
		t.Errorf("expected rendered SDL to contain %q, got:\n%s", want, first)
	}
	if want := "union NamedAB = A | B"; !contains(first, want) {
		t.Errorf("expected rendered SDL to contain %q, got:\n%s", want, first)
	}
}

func TestRender_ExcludesBuiltins(t *testing.T) {
	s := NewSchema("")
	s.SetQueryType("Query")
	s.AddType(NewType("Query", TypeKindObject, "").
		AddField(NewField("greeting", "", NonNullType(NamedType("String")))))
	s.AddType(stringType)
	out := Render(s)
	if contains(out, "scalar String") {
		t.Errorf("builtin scalar String should not be rendered, got:\n%s", out)
	}
}

func TestTypeRef_Helpers(t *testing.T) {
	nonNullList := NonNullType(ListType(NonNullType(NamedType("String"))))
	if !IsNonNull(nonNullList) {
		t.Errorf("expected outer type to be non-null")
	}
	if GetNamedType(nonNullList) != "String" {
		t.Errorf("expected named type String, got %s", GetNamedType(nonNullList))
	}
	if !IsList(nonNullList) {
		t.Errorf("expected non-null wrapped list to report IsList")
	}
}

func contains(haystack, needle string) bool {
	return indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
