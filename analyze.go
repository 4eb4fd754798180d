package graphql

import (
	"fmt"
	"reflect"
)

var bytesType = reflect.TypeOf([]byte(nil))

// analyzeType turns a reflect.Type into a TypeSpec, recursing through
// pointers (nullable), slices (list), and named/defined types (dereferenced
// via Kind()). Registered struct types resolve to their compiled GraphQL
// name. visited records the slice types entered so far, so a recursive
// slice type is reported as a cyclic reference instead of recursing forever.
func analyzeType(t reflect.Type, visited map[reflect.Type]bool) (*TypeSpec, error) {
	nullable := false
	for t.Kind() == reflect.Ptr {
		nullable = true
		t = t.Elem()
	}

	if t == bytesType {
		return NamedSpec("ID", nullable), nil
	}

	if t.Kind() == reflect.Slice {
		if visited[t] {
			return nil, fmt.Errorf("cyclic type reference at %s", t)
		}
		visited[t] = true
		elem, err := analyzeType(t.Elem(), visited)
		if err != nil {
			return nil, err
		}
		return ListSpec(elem, nullable), nil
	}

	if scalar := builtinScalarName(t); scalar != "" {
		return NamedSpec(scalar, nullable), nil
	}

	if ct := lookupCompiledByGoType(t); ct != nil {
		return NamedSpec(ct.Name, nullable), nil
	}

	if t.Kind() == reflect.Struct {
		return nil, fmt.Errorf("type %s is not registered (call Object/Input/Interface on it first)", t)
	}

	if visited[t] {
		return nil, fmt.Errorf("cyclic type reference at %s", t)
	}

	return nil, fmt.Errorf("unsupported field type %s", t)
}

// isStreamType reports whether t is a receive-capable channel type and
// returns its element type.
func isStreamType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Chan {
		return nil, false
	}
	if t.ChanDir() == reflect.SendDir {
		return nil, false
	}
	return t.Elem(), true
}
