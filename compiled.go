package graphql

import "reflect"

// typeKind discriminates what a CompiledType may legally contain.
type typeKind int

const (
	kindObject typeKind = iota
	kindInput
	kindInterface
	kindSubscription
)

func (k typeKind) String() string {
	switch k {
	case kindObject:
		return "object"
	case kindInput:
		return "input"
	case kindInterface:
		return "interface"
	case kindSubscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// CompiledDataField is a plain struct field compiled for direct
// reflect.Value read dispatch, the cheapest of the three ways a field can
// resolve.
type CompiledDataField struct {
	Name        string
	Description string
	Type        *TypeSpec
	HasDefault  bool
	Default     any
	index       []int
}

// CompiledInputField is a struct field compiled for input-coercion.
type CompiledInputField struct {
	Name        string
	Description string
	Type        *TypeSpec
	HasDefault  bool
	Default     any
	index       []int
	goType      reflect.Type
}

// CompiledArg is a single resolver parameter's compiled type and default.
type CompiledArg struct {
	Name       string
	Type       *TypeSpec
	HasDefault bool
	Default    any
	goType     reflect.Type
}

// CompiledResolverField is a method-backed field compiled for synchronous,
// batched, or streaming dispatch.
type CompiledResolverField struct {
	Name         string
	Description  string
	Type         *TypeSpec
	Args         []*CompiledArg
	Async        bool
	IsStream     bool
	NeedsContext bool

	ownerName  string
	methodName string
	parentType reflect.Type
	contextIdx int
	stateType  reflect.Type
	resultType reflect.Type
}

// CompiledUnion is the compiled, deduplicated record for a registered
// union: its declared name and ordered member type names.
type CompiledUnion struct {
	Name        string
	Description string
	Members     []string
}

// CompiledType is the frozen schema-metadata record produced once per
// registered Go struct type, stored in the package-level type registry.
type CompiledType struct {
	GoType      reflect.Type
	Name        string
	Description string
	Kind        typeKind

	DataFields         []*CompiledDataField
	ResolverFields     []*CompiledResolverField
	InputFields        []*CompiledInputField
	SubscriptionFields []*CompiledResolverField

	// Implements lists the GraphQL interface names this type embeds.
	Implements []string

	// DirectRefs is the ordered, deduplicated set of registered GraphQL type
	// names mentioned directly by any field of this type; the schema-graph
	// builder walks this to compute the transitive closure. Ordered so BFS
	// discovery order (and hence SDL output order) is deterministic.
	DirectRefs *refSet
}

// refSet is an insertion-ordered set of names.
type refSet struct {
	seen  map[string]bool
	Order []string
}

func newRefSet() *refSet { return &refSet{seen: map[string]bool{}} }

func (r *refSet) add(name string) {
	if name == "" || r.seen[name] {
		return
	}
	r.seen[name] = true
	r.Order = append(r.Order, name)
}

func (ct *CompiledType) resolverByName(name string) *CompiledResolverField {
	for _, f := range ct.ResolverFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
