package graphql

import (
	"fmt"
	"reflect"
)

// serializeScalar converts a resolved Go value into the engine's JSON-safe
// value domain for a named scalar: String only from string, Int only from
// an integer kind within the signed-64-bit range, Float from any numeric
// kind (widened), Boolean only from bool, ID from string or any integer
// kind (stringified).
func serializeScalar(name string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch name {
	case "String":
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(name, value)
		}
		return s, nil
	case "Boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(name, value)
		}
		return b, nil
	case "Int":
		return serializeInt(name, value)
	case "Float":
		return serializeFloat(name, value)
	case "ID":
		return serializeID(name, value)
	default:
		return nil, typeMismatch(name, value)
	}
}

func serializeInt(name string, value any) (any, error) {
	if v, ok := value.(ID); ok {
		value = string(v)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(1)<<63-1 {
			return nil, typeMismatch(name, value)
		}
		return int64(u), nil
	default:
		return nil, typeMismatch(name, value)
	}
}

func serializeFloat(name string, value any) (any, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	default:
		return nil, typeMismatch(name, value)
	}
}

func serializeID(name string, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case ID:
		return string(v), nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", rv.Uint()), nil
	default:
		return nil, typeMismatch(name, value)
	}
}

func typeMismatch(name string, value any) error {
	return &CompileError{Kind: KindTypeMismatch, TypeName: name, Message: fmt.Sprintf("cannot serialize %T as %s", value, name)}
}
