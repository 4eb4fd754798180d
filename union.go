package graphql

import (
	"fmt"
	"reflect"
	"strings"
)

// UnionValue boxes a concrete member value behind a declared union, Go's
// structural stand-in for a sum type: a resolver returning a union field
// returns (UnionValue, error), boxing whichever member it resolved.
type UnionValue struct {
	union *UnionHandle
	value any
}

// Value unwraps the boxed concrete member value.
func (u UnionValue) Value() any { return u.value }

// UnionHandle is a registered, named union. Construct with NewUnion and
// reference it from the ReturnsUnion field option on whichever resolver
// fields return it.
type UnionHandle struct {
	name        string
	description string
	members     []string
	memberTypes []reflect.Type
	err         error
}

// UnionOption configures a NewUnion call.
type UnionOption func(*UnionHandle)

// UnionDescription sets the union's SDL description.
func UnionDescription(d string) UnionOption {
	return func(h *UnionHandle) { h.description = d }
}

// NewUnion registers a named union from zero-value member instances; their
// reflect.Type is extracted for membership and the values themselves are
// discarded. Members must be (or later be) registered via Object[T]. An
// empty name is replaced by the member type names concatenated in order.
func NewUnion(name string, members []any, opts ...UnionOption) *UnionHandle {
	h := &UnionHandle{name: name}
	for _, opt := range opts {
		opt(h)
	}
	seen := make(map[string]bool)
	for _, m := range members {
		t := reflect.TypeOf(m)
		for t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			h.err = errNotAStruct(fmt.Sprintf("%v", m))
			continue
		}
		if seen[t.Name()] {
			continue
		}
		seen[t.Name()] = true
		h.members = append(h.members, t.Name())
		h.memberTypes = append(h.memberTypes, t)
	}
	if h.name == "" {
		h.name = strings.Join(h.members, "")
	}
	registerUnion(h)
	return h
}

// Box wraps a concrete member value as this union's UnionValue, for use as
// a resolver's return value.
func (h *UnionHandle) Box(value any) UnionValue {
	return UnionValue{union: h, value: value}
}

// Name returns the union's declared GraphQL name.
func (h *UnionHandle) Name() string { return h.name }

// Err returns a non-nil error if a supplied member was not a struct.
func (h *UnionHandle) Err() error { return h.err }

var unionValueType = reflect.TypeOf(UnionValue{})
