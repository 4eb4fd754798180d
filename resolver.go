package graphql

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	lookahead "github.com/thearchitector/grommet/internal/lookahead"
)

var (
	errorInterface = reflect.TypeOf((*error)(nil)).Elem()
	thisPkgPath    = reflect.TypeOf(Context[struct{}]{}).PkgPath()
)

// methodNameOf recovers the bare method name from a method-expression func
// value (e.g. User.Posts), the mechanism this package uses so an
// interface's compiled field keeps dispatching correctly against any
// struct that merely embeds it: the name is looked up again, by
// reflect.Value.MethodByName, against whatever concrete parent value is
// passed at call time.
func methodNameOf(fn any) (string, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "", fmt.Errorf("not a function value")
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "", fmt.Errorf("cannot resolve function name via runtime reflection")
	}
	full := strings.TrimSuffix(f.Name(), "-fm")
	idx := strings.LastIndex(full, ".")
	if idx < 0 || idx == len(full)-1 {
		return "", fmt.Errorf("cannot parse method name from %s", full)
	}
	return full[idx+1:], nil
}

// contextStateType reports whether pt is an instantiation of Context[S] and
// returns S's reflect.Type.
func contextStateType(pt reflect.Type) (reflect.Type, bool) {
	if pt.Kind() != reflect.Struct || !strings.HasPrefix(pt.Name(), "Context[") || pt.PkgPath() != thisPkgPath {
		return nil, false
	}
	f, ok := pt.FieldByName("State")
	if !ok {
		return nil, false
	}
	return f.Type, true
}

// compileResolverField inspects fn's reflect.Type and produces a
// CompiledResolverField carrying everything the runtime needs to invoke it
// later: its bound method name, parameter layout, and result type.
//
// argNames supplies GraphQL argument names positionally for fn's parameters
// after the parent and optional Context[S] parameter, since Go's reflect
// package retains no parameter names to recover them from (a language
// constraint, not an oversight). Parameters beyond the
// supplied names fall back to "arg0", "arg1", ...
func compileResolverField(ownerName, name string, fn any, argNames []string, async bool, union *UnionHandle, ifaceName string, forSubscription bool) (*CompiledResolverField, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, errResolverBadSignature(ownerName, name, "Field/SubscriptionField expects a function or method value")
	}
	ft := fnVal.Type()
	if ft.NumIn() < 1 {
		return nil, errResolverBadSignature(ownerName, name, "resolver must take the parent as its first parameter")
	}
	parentType := ft.In(0)

	methodName, err := methodNameOf(fn)
	if err != nil {
		return nil, errResolverBadSignature(ownerName, name, err.Error())
	}

	contextIdx := -1
	var stateType reflect.Type
	var args []*CompiledArg
	argPos := 0
	for i := 1; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		if st, ok := contextStateType(pt); ok {
			if contextIdx != -1 {
				return nil, errResolverBadSignature(ownerName, name, "resolver may take at most one Context[S] parameter")
			}
			contextIdx = i
			stateType = st
			continue
		}
		spec, err := analyzeType(pt, map[reflect.Type]bool{})
		if err != nil {
			return nil, errUnsupportedAnnotation(ownerName, name, err.Error())
		}
		argName := fmt.Sprintf("arg%d", argPos)
		if argPos < len(argNames) {
			argName = argNames[argPos]
		}
		args = append(args, &CompiledArg{Name: argName, Type: spec, goType: pt})
		argPos++
	}

	if ft.NumOut() != 2 {
		return nil, errResolverBadSignature(ownerName, name, "resolver must return exactly (value, error)")
	}
	if !ft.Out(1).Implements(errorInterface) {
		return nil, errResolverBadSignature(ownerName, name, "resolver's second return value must be error")
	}

	resultType := ft.Out(0)
	isStream := false

	if forSubscription {
		elemType, ok := isStreamType(resultType)
		if !ok {
			return nil, errSubscriptionResolverNotChannel(ownerName, name)
		}
		isStream = true
		resultType = elemType
	} else if _, ok := isStreamType(resultType); ok {
		return nil, errStreamOutsideSubscription(ownerName, name)
	}

	var typeSpec *TypeSpec
	switch {
	case union != nil:
		if resultType != unionValueType {
			return nil, errResolverBadSignature(ownerName, name, "a field using ReturnsUnion must return graphql.UnionValue")
		}
		typeSpec = UnionSpec(union.name, append([]string{}, union.members...), true)
	case ifaceName != "":
		if resultType.Kind() != reflect.Interface {
			return nil, errResolverBadSignature(ownerName, name, "a field using ReturnsInterface must return any")
		}
		typeSpec = NamedSpec(ifaceName, true)
	default:
		spec, err := analyzeType(resultType, map[reflect.Type]bool{})
		if err != nil {
			return nil, errUnsupportedAnnotation(ownerName, name, err.Error())
		}
		typeSpec = spec
	}

	return &CompiledResolverField{
		Name:         name,
		Type:         typeSpec,
		Args:         args,
		Async:        async,
		IsStream:     isStream,
		NeedsContext: contextIdx >= 0,
		ownerName:    ownerName,
		methodName:   methodName,
		parentType:   parentType,
		contextIdx:   contextIdx,
		stateType:    stateType,
		resultType:   resultType,
	}, nil
}

// callResolverField invokes a compiled resolver's promoted method against a
// concrete parent value, synchronously or as one unit of batched async work.
// lh and state are only consulted when the field declared a
// Context[S] parameter.
func callResolverField(field *CompiledResolverField, parent any, lh *lookahead.Graph, state any, args map[string]any) (any, error) {
	if field.IsStream {
		return nil, fmt.Errorf("callResolverField used on a streaming field %q", field.Name)
	}
	method, err := boundMethod(field, parent)
	if err != nil {
		return nil, err
	}
	callArgs, err := buildCallArgs(field, method.Type(), lh, state, args)
	if err != nil {
		return nil, err
	}
	out := method.Call(callArgs)
	return extractResult(out)
}

// callSubscriptionField invokes a compiled subscription resolver, returning
// its source event channel as a generic <-chan any. A draining goroutine
// bridges the user's concretely typed channel into it.
func callSubscriptionField(field *CompiledResolverField, parent any, lh *lookahead.Graph, state any, args map[string]any) (<-chan any, error) {
	method, err := boundMethod(field, parent)
	if err != nil {
		return nil, err
	}
	callArgs, err := buildCallArgs(field, method.Type(), lh, state, args)
	if err != nil {
		return nil, err
	}
	out := method.Call(callArgs)
	if len(out) != 2 {
		return nil, fmt.Errorf("subscription resolver %q returned %d values, expected 2", field.Name, len(out))
	}
	if !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	typedChan := out[0]
	result := make(chan any)
	go func() {
		defer close(result)
		for {
			v, ok := typedChan.Recv()
			if !ok {
				return
			}
			result <- v.Interface()
		}
	}()
	return result, nil
}

func boundMethod(field *CompiledResolverField, parent any) (reflect.Value, error) {
	pv := reflect.ValueOf(parent)
	m := pv.MethodByName(field.methodName)
	if !m.IsValid() {
		// Try through a pointer receiver if parent was passed by value.
		if pv.CanAddr() {
			m = pv.Addr().MethodByName(field.methodName)
		} else {
			ptr := reflect.New(pv.Type())
			ptr.Elem().Set(pv)
			m = ptr.MethodByName(field.methodName)
		}
	}
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("method %q not found on %s", field.methodName, pv.Type())
	}
	return m, nil
}

func buildCallArgs(field *CompiledResolverField, methodType reflect.Type, lh *lookahead.Graph, state any, args map[string]any) ([]reflect.Value, error) {
	numIn := methodType.NumIn()
	callArgs := make([]reflect.Value, 0, numIn)
	argIdx := 0
	for i := 0; i < numIn; i++ {
		pt := methodType.In(i)
		if field.contextIdx == i+1 {
			ctxVal := reflect.New(pt).Elem()
			if lh == nil {
				lh = &lookahead.Graph{}
			}
			ctxVal.FieldByName("Lookahead").Set(reflect.ValueOf(newLookahead(lh)))
			stateVal := reflect.ValueOf(state)
			if !stateVal.IsValid() {
				stateVal = reflect.Zero(field.stateType)
			} else if stateVal.Type() != field.stateType && stateVal.Type().ConvertibleTo(field.stateType) {
				stateVal = stateVal.Convert(field.stateType)
			}
			ctxVal.FieldByName("State").Set(stateVal)
			callArgs = append(callArgs, ctxVal)
			continue
		}
		if argIdx >= len(field.Args) {
			return nil, fmt.Errorf("resolver %q: argument count mismatch", field.Name)
		}
		argDef := field.Args[argIdx]
		argIdx++
		raw, ok := args[argDef.Name]
		if !ok && argDef.HasDefault {
			raw = argDef.Default
		}
		converted, err := convertArg(raw, pt)
		if err != nil {
			return nil, errArgumentCoercion(field.ownerName, field.Name, argDef.Name, err)
		}
		callArgs = append(callArgs, converted)
	}
	return callArgs, nil
}

func extractResult(out []reflect.Value) (any, error) {
	if len(out) != 2 {
		return nil, fmt.Errorf("resolver returned %d values, expected 2", len(out))
	}
	var errVal error
	if !out[1].IsNil() {
		errVal, _ = out[1].Interface().(error)
	}
	if errVal != nil {
		return nil, errVal
	}
	if !out[0].IsValid() {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// convertArg converts an already scalar-coerced Go value (string, float64,
// int, bool, []any, map[string]any, nil) into the concrete Go type a
// resolver parameter declares, recursively building registered input
// structs from map[string]any.
func convertArg(value any, target reflect.Type) (reflect.Value, error) {
	if target.Kind() == reflect.Ptr {
		if value == nil {
			return reflect.Zero(target), nil
		}
		inner, err := convertArg(value, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	if value == nil {
		return reflect.Zero(target), nil
	}

	if target == reflect.TypeOf(ID("")) {
		s, err := scalarToString(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(ID(s)), nil
	}

	if ct := lookupCompiledByGoType(target); ct != nil && ct.Kind == kindInput {
		m, ok := value.(map[string]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected an input object, got %T", value)
		}
		return convertInput(m, target, ct)
	}

	switch target.Kind() {
	case reflect.String:
		s, err := scalarToString(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(target), nil
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %T", value)
		}
		return reflect.ValueOf(b).Convert(target), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := scalarToInt64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(target), nil
	case reflect.Float32, reflect.Float64:
		f, err := scalarToFloat64(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(target), nil
	case reflect.Slice:
		items, ok := value.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a list, got %T", value)
		}
		out := reflect.MakeSlice(target, len(items), len(items))
		for i, item := range items {
			cv, err := convertArg(item, target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(cv)
		}
		return out, nil
	default:
		rv := reflect.ValueOf(value)
		if rv.Type().ConvertibleTo(target) {
			return rv.Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", value, target)
	}
}

func convertInput(m map[string]any, target reflect.Type, ct *CompiledType) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	for _, f := range ct.InputFields {
		raw, ok := m[f.Name]
		if !ok {
			if f.HasDefault {
				raw = f.Default
			} else {
				continue
			}
		}
		cv, err := convertArg(raw, f.goType)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out.FieldByIndex(f.index).Set(cv)
	}
	return out, nil
}

func scalarToString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case ID:
		return string(t), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

func scalarToInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err
	default:
		return 0, fmt.Errorf("cannot coerce %T to int", v)
	}
}

func scalarToFloat64(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to float", v)
	}
}
