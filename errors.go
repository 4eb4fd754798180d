package graphql

import "fmt"

// ErrorKind identifies the stable category of a compile-time or runtime
// failure produced by this package.
type ErrorKind string

const (
	KindSchemaBuild            ErrorKind = "schema_build"
	KindArgumentCoercion       ErrorKind = "argument_coercion"
	KindResolverException      ErrorKind = "resolver_exception"
	KindStreamTerminated       ErrorKind = "stream_terminated"
	KindTypeMismatch           ErrorKind = "type_mismatch"
	KindAbstractTypeResolution ErrorKind = "abstract_type_resolution"
)

// CompileError reports a registration- or schema-build-time failure, and is
// also the error value the engine returns for runtime failures (a resolver
// panic, a type mismatch). It names the offending type and, where
// applicable, field.
type CompileError struct {
	Kind      ErrorKind
	TypeName  string
	FieldName string
	Message   string
}

func (e *CompileError) Error() string {
	switch {
	case e.TypeName != "" && e.FieldName != "":
		return fmt.Sprintf("%s.%s: %s", e.TypeName, e.FieldName, e.Message)
	case e.TypeName != "":
		return fmt.Sprintf("%s: %s", e.TypeName, e.Message)
	default:
		return e.Message
	}
}

func errNotAStruct(typeName string) *CompileError {
	return &CompileError{
		Kind:     KindSchemaBuild,
		TypeName: typeName,
		Message:  "registered type must be a struct",
	}
}

func errAlreadyRegistered(typeName string) *CompileError {
	return &CompileError{
		Kind:     KindSchemaBuild,
		TypeName: typeName,
		Message:  "type is already registered under a different kind",
	}
}

func errUnsupportedAnnotation(typeName, fieldName, detail string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   fmt.Sprintf("unsupported field type: %s", detail),
	}
}

func errUnionInInputPosition(typeName, fieldName string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   "union types cannot appear in input position",
	}
}

func errStreamOutsideSubscription(typeName, fieldName string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   "channel return type is only legal on a subscription field",
	}
}

func errSubscriptionResolverNotChannel(typeName, fieldName string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   "subscription field resolver must return (<-chan T, error)",
	}
}

func errResolverBadSignature(typeName, fieldName, detail string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   fmt.Sprintf("bad resolver signature: %s", detail),
	}
}

func errInvalidFieldOnKind(typeName, fieldName, kind string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   fmt.Sprintf("field not permitted on a %s type", kind),
	}
}

func errSchemaBuildRootMissing(name string) *CompileError {
	return &CompileError{
		Kind:    KindSchemaBuild,
		Message: fmt.Sprintf("root type %q was not registered before NewSchema", name),
	}
}

func errUnionConflict(name string) *CompileError {
	return &CompileError{
		Kind:     KindSchemaBuild,
		TypeName: name,
		Message:  "union already registered under this name with a different member set or description",
	}
}

func errDanglingTypeReference(fromType, referenced string) *CompileError {
	return &CompileError{
		Kind:      KindSchemaBuild,
		TypeName:  fromType,
		FieldName: referenced,
		Message:   fmt.Sprintf("references %q, which was never registered", referenced),
	}
}

func errArgumentCoercion(typeName, fieldName, argName string, cause error) *CompileError {
	return &CompileError{
		Kind:      KindArgumentCoercion,
		TypeName:  typeName,
		FieldName: fieldName,
		Message:   fmt.Sprintf("argument %q: %v", argName, cause),
	}
}
