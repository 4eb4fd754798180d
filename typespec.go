package graphql

// typeSpecKind discriminates the TypeSpec union.
type typeSpecKind int

const (
	specNamed typeSpecKind = iota
	specList
	specUnion
)

// TypeSpec is the compiled, immutable description of a GraphQL type
// reference. It is a discriminated union (Named/List/Union) carrying an
// explicit Nullable flag; construct one only through the package-level
// constructors below so Nullable is never inferred from a nil pointer.
type TypeSpec struct {
	kind     typeSpecKind
	Nullable bool

	// Named is set when kind == specNamed: the GraphQL type name.
	Named string

	// Element is set when kind == specList: the element TypeSpec.
	Element *TypeSpec

	// UnionMembers is set when kind == specUnion: the declared member type
	// names, in registration order.
	UnionMembers []string
	UnionName    string
}

// NamedSpec builds a TypeSpec referring to a named GraphQL type.
func NamedSpec(name string, nullable bool) *TypeSpec {
	return &TypeSpec{kind: specNamed, Named: name, Nullable: nullable}
}

// ListSpec builds a TypeSpec for a list of element, which must itself be a
// fully-formed TypeSpec (its own Nullable flag governs list-item nullability).
func ListSpec(element *TypeSpec, nullable bool) *TypeSpec {
	return &TypeSpec{kind: specList, Element: element, Nullable: nullable}
}

// UnionSpec builds a TypeSpec for a named union with the given members.
func UnionSpec(name string, members []string, nullable bool) *TypeSpec {
	return &TypeSpec{kind: specUnion, UnionName: name, UnionMembers: members, Nullable: nullable}
}

func (t *TypeSpec) IsNamed() bool { return t.kind == specNamed }
func (t *TypeSpec) IsList() bool  { return t.kind == specList }
func (t *TypeSpec) IsUnion() bool { return t.kind == specUnion }

// NamedTypeName returns the GraphQL name at the bottom of any nesting of
// lists, i.e. the name that should key into the type side-table.
func (t *TypeSpec) NamedTypeName() string {
	switch t.kind {
	case specNamed:
		return t.Named
	case specUnion:
		return t.UnionName
	case specList:
		return t.Element.NamedTypeName()
	default:
		return ""
	}
}
