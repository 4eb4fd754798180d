package graphql

import "reflect"

// typeBuildState accumulates a TypeOption call's declarations before
// compileType runs against them.
type typeBuildState struct {
	name        string
	description string
	fields      []fieldEntry
	subFields   []fieldEntry
}

type fieldEntry struct {
	name      string
	fn        any
	argNames  []string
	async     bool
	union     *UnionHandle
	ifaceName string
}

// TypeOption configures an Object/Input/Interface/Subscription call.
type TypeOption func(*typeBuildState)

// FieldOption configures a single Field or SubscriptionField entry.
type FieldOption func(*fieldEntry)

// Name overrides the GraphQL type name (defaults to the Go type's name).
func Name(name string) TypeOption {
	return func(s *typeBuildState) { s.name = name }
}

// Description sets the GraphQL type's SDL description.
func Description(d string) TypeOption {
	return func(s *typeBuildState) { s.description = d }
}

// Field registers a resolver method as an object/interface field. fn should
// be a method expression (Type.Method) so the compiled field keeps
// dispatching correctly through Go's method-promotion rules when inherited
// by an embedding struct.
func Field(name string, fn any, opts ...FieldOption) TypeOption {
	return func(s *typeBuildState) {
		fe := fieldEntry{name: name, fn: fn}
		for _, opt := range opts {
			opt(&fe)
		}
		s.fields = append(s.fields, fe)
	}
}

// SubscriptionField registers a streaming resolver method on a
// Subscription[T] type; fn must return (<-chan Result, error).
func SubscriptionField(name string, fn any, opts ...FieldOption) TypeOption {
	return func(s *typeBuildState) {
		fe := fieldEntry{name: name, fn: fn}
		for _, opt := range opts {
			opt(&fe)
		}
		s.subFields = append(s.subFields, fe)
	}
}

// Args supplies GraphQL argument names for a resolver's parameters, in
// declaration order, standing in for the parameter names Go's reflect
// package does not retain.
func Args(names ...string) FieldOption {
	return func(fe *fieldEntry) { fe.argNames = names }
}

// Async opts a field into the engine's batched dispatch path
// (BatchResolveAsync) instead of immediate synchronous dispatch.
func Async() FieldOption {
	return func(fe *fieldEntry) { fe.async = true }
}

// ReturnsUnion declares that a field's resolver returns a graphql.UnionValue
// boxing a member of the given union.
func ReturnsUnion(u *UnionHandle) FieldOption {
	return func(fe *fieldEntry) { fe.union = u }
}

// ReturnsInterface declares that a field's resolver returns `any`, holding
// a concrete value of some type implementing the named interface: Go has
// no structural subtyping between an implementer struct and the interface
// struct it embeds, so the field's static GraphQL type cannot be recovered
// from the resolver's own Go return type the way a plain object field's
// can. The returned value is dispatched to its GraphQL type exactly like a
// plain object return: by its own Go runtime type, via ResolveType.
func ReturnsInterface[T any](h *TypeHandle[T]) FieldOption {
	return func(fe *fieldEntry) { fe.ifaceName = h.Name() }
}

// TypeHandle is the registration receipt for a Go struct type T. A failed
// registration carries its error on the handle; the error is also returned
// directly by Object/Input/Interface/Subscription.
type TypeHandle[T any] struct {
	compiled *CompiledType
	err      error
}

// Err returns the registration error, if any.
func (h *TypeHandle[T]) Err() error { return h.err }

// Name returns the registered GraphQL type name.
func (h *TypeHandle[T]) Name() string {
	if h.compiled == nil {
		return ""
	}
	return h.compiled.Name
}

// Object registers T as a GraphQL object type.
func Object[T any](opts ...TypeOption) (*TypeHandle[T], error) {
	return registerType[T](kindObject, opts)
}

// MustObject registers T as a GraphQL object type, panicking on failure.
func MustObject[T any](opts ...TypeOption) *TypeHandle[T] {
	h, err := Object[T](opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Input registers T as a GraphQL input object type.
func Input[T any](opts ...TypeOption) (*TypeHandle[T], error) {
	return registerType[T](kindInput, opts)
}

// MustInput registers T as a GraphQL input object type, panicking on failure.
func MustInput[T any](opts ...TypeOption) *TypeHandle[T] {
	h, err := Input[T](opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Interface registers T as a GraphQL interface type. Structs that embed T
// anonymously automatically implement it; its own Field entries are
// inherited by implementers that don't redeclare the same field name.
func Interface[T any](opts ...TypeOption) (*TypeHandle[T], error) {
	return registerType[T](kindInterface, opts)
}

// MustInterface registers T as a GraphQL interface type, panicking on failure.
func MustInterface[T any](opts ...TypeOption) *TypeHandle[T] {
	h, err := Interface[T](opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Subscription registers T as a GraphQL subscription root type. Its fields
// must all be declared via SubscriptionField.
func Subscription[T any](opts ...TypeOption) (*TypeHandle[T], error) {
	return registerType[T](kindSubscription, opts)
}

// MustSubscription registers T as a GraphQL subscription root type,
// panicking on failure.
func MustSubscription[T any](opts ...TypeOption) *TypeHandle[T] {
	h, err := Subscription[T](opts...)
	if err != nil {
		panic(err)
	}
	return h
}

func registerType[T any](kind typeKind, opts []TypeOption) (*TypeHandle[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		err := errNotAStruct("<nil>")
		return &TypeHandle[T]{err: err}, err
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		err := errNotAStruct(t.String())
		return &TypeHandle[T]{err: err}, err
	}

	registryMu.Lock()
	if existing, ok := byGoType[t]; ok {
		registryMu.Unlock()
		if existing.Kind != kind {
			err := errAlreadyRegistered(t.Name())
			return &TypeHandle[T]{err: err}, err
		}
		return &TypeHandle[T]{compiled: existing}, nil
	}
	registryMu.Unlock()

	state := &typeBuildState{name: t.Name()}
	for _, opt := range opts {
		opt(state)
	}

	ct, err := compileType(t, kind, state)
	if err != nil {
		return &TypeHandle[T]{err: err}, err
	}

	registryMu.Lock()
	if existing, ok := byGoType[t]; ok {
		registryMu.Unlock()
		return &TypeHandle[T]{compiled: existing}, nil
	}
	byGoType[t] = ct
	byName[ct.Name] = ct
	registryMu.Unlock()

	registerEmbeddedInterfaces(t, ct)

	return &TypeHandle[T]{compiled: ct}, nil
}

// registerEmbeddedInterfaces walks T's anonymous fields and, for each one
// whose type is a registered interface, records T in that interface's
// reverse implementer index.
func registerEmbeddedInterfaces(t reflect.Type, ct *CompiledType) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		registryMu.Lock()
		iface, ok := byGoType[ft]
		registryMu.Unlock()
		if !ok || iface.Kind != kindInterface {
			continue
		}
		registryMu.Lock()
		interfaceImplementers[ft] = append(interfaceImplementers[ft], t)
		registryMu.Unlock()
	}
}
