package graphql

import (
	"reflect"
	"strconv"
	"strings"
)

// ID is the Go type analog of the GraphQL ID scalar. Any string or integer
// Go value may also be coerced to ID; this named type exists for fields
// that want ID semantics to be explicit in their Go signature.
type ID string

// Hidden is a marker type for struct-tag-only use (`graphql:",hidden"`);
// it is never instantiated as a field's Go type.
type Hidden struct{}

// fieldTag is the parsed form of a `graphql:"..."` struct tag.
type fieldTag struct {
	Name        string
	Hidden      bool
	Description string
	HasDefault  bool
	Default     string
}

// parseFieldTag parses the comma-separated `graphql:"name,opt=val,..."` tag
// format. The bare leading segment renames the field; "-" hides it exactly
// like "hidden".
func parseFieldTag(raw string) fieldTag {
	var tag fieldTag
	if raw == "" {
		return tag
	}
	parts := strings.Split(raw, ",")
	if parts[0] == "-" {
		tag.Hidden = true
	} else {
		tag.Name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch {
		case opt == "hidden":
			tag.Hidden = true
		case strings.HasPrefix(opt, "description="):
			tag.Description = strings.TrimPrefix(opt, "description=")
		case strings.HasPrefix(opt, "default="):
			tag.HasDefault = true
			tag.Default = strings.TrimPrefix(opt, "default=")
		}
	}
	return tag
}

// builtinScalarName maps a Go kind to the GraphQL builtin scalar it
// represents, or "" if the kind has no direct scalar mapping.
func builtinScalarName(t reflect.Type) string {
	if t == reflect.TypeOf(ID("")) {
		return "ID"
	}
	switch t.Kind() {
	case reflect.String:
		return "String"
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Int"
	case reflect.Float32, reflect.Float64:
		return "Float"
	default:
		return ""
	}
}

// defaultValueForScalar converts a tag-carried default string literal into
// a Go value appropriate for the named builtin scalar.
func defaultValueForScalar(scalar, raw string) any {
	switch scalar {
	case "Int":
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	case "Float":
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case "Boolean":
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return raw
}
