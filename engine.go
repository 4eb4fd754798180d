package graphql

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/thearchitector/grommet/internal/executor"
	"github.com/thearchitector/grommet/internal/lookahead"
	schemapkg "github.com/thearchitector/grommet/internal/schema"
)

// maxAsyncWorkers bounds the goroutine fan-out used by BatchResolveAsync so
// a selection set with many async fields can't spawn unbounded goroutines.
const maxAsyncWorkers = 32

type fieldDispatch struct {
	data     *CompiledDataField
	resolver *CompiledResolverField
}

// engine is the compiled, ready-to-execute form of a SchemaBundle: the
// internal/schema.Schema the executor needs to run queries against, plus the
// dispatch tables that let ResolveSync/BatchResolveAsync/ResolveSubscription
// route a (objectType, field) pair back to the CompiledDataField or
// CompiledResolverField that produced it.
type engine struct {
	bundle *SchemaBundle
	schema *schemapkg.Schema

	dispatch map[string]map[string]fieldDispatch
	roots    map[string]any
}

func buildEngine(bundle *SchemaBundle, roots map[string]any) (*engine, error) {
	e := &engine{
		bundle:   bundle,
		dispatch: map[string]map[string]fieldDispatch{},
		roots:    roots,
	}

	sch := schemapkg.NewSchema("")
	sch.SetQueryType(bundle.QueryName)
	if bundle.MutationName != "" {
		sch.SetMutationType(bundle.MutationName)
	}
	if bundle.SubscriptionName != "" {
		sch.SetSubscriptionType(bundle.SubscriptionName)
	}
	schemapkg.AddBuiltins(sch)

	byName := map[string]*schemapkg.Type{}

	for _, ct := range bundle.Types {
		t := e.buildEngineType(ct)
		byName[ct.Name] = t
		sch.AddType(t)
		e.indexFields(ct)
	}

	for _, cu := range bundle.Unions {
		t := schemapkg.NewType(cu.Name, schemapkg.TypeKindUnion, cu.Description)
		for _, member := range cu.Members {
			t.AddPossibleType(member)
		}
		sch.AddType(t)
	}

	// Second pass: an object's implemented interfaces learn their possible
	// types only once every object in the bundle has been built.
	for _, ct := range bundle.Types {
		if ct.Kind != kindObject {
			continue
		}
		for _, ifaceName := range ct.Implements {
			if ifaceType, ok := byName[ifaceName]; ok {
				ifaceType.AddPossibleType(ct.Name)
			}
		}
	}

	e.schema = sch
	return e, nil
}

func (e *engine) buildEngineType(ct *CompiledType) *schemapkg.Type {
	kind := schemapkg.TypeKindObject
	if ct.Kind == kindInterface {
		kind = schemapkg.TypeKindInterface
	} else if ct.Kind == kindInput {
		kind = schemapkg.TypeKindInputObject
	}

	t := schemapkg.NewType(ct.Name, kind, ct.Description)
	for _, iface := range ct.Implements {
		t.AddInterface(iface)
	}

	if ct.Kind == kindInput {
		for _, f := range ct.InputFields {
			iv := schemapkg.NewInputValue(f.Name, f.Description, typeRefFromSpec(f.Type))
			if f.HasDefault {
				iv.SetDefault(f.Default)
			}
			t.AddInputField(iv)
		}
		return t
	}

	for _, f := range ct.DataFields {
		field := schemapkg.NewField(f.Name, f.Description, typeRefFromSpec(f.Type)).SetAsync(false)
		if f.HasDefault {
			field.SetDefault(f.Default)
		}
		t.AddField(field)
	}
	for _, rf := range ct.ResolverFields {
		t.AddField(buildEngineResolverField(rf))
	}
	for _, rf := range ct.SubscriptionFields {
		t.AddField(buildEngineResolverField(rf))
	}
	return t
}

func buildEngineResolverField(rf *CompiledResolverField) *schemapkg.Field {
	f := schemapkg.NewField(rf.Name, rf.Description, typeRefFromSpec(rf.Type)).SetAsync(rf.Async)
	for _, a := range rf.Args {
		iv := schemapkg.NewInputValue(a.Name, "", typeRefFromSpec(a.Type))
		if a.HasDefault {
			iv.SetDefault(a.Default)
		}
		f.AddArgument(iv)
	}
	return f
}

func typeRefFromSpec(spec *TypeSpec) *schemapkg.TypeRef {
	var ref *schemapkg.TypeRef
	if spec.IsList() {
		ref = schemapkg.ListType(typeRefFromSpec(spec.Element))
	} else {
		ref = schemapkg.NamedType(spec.NamedTypeName())
	}
	if !spec.Nullable {
		ref = schemapkg.NonNullType(ref)
	}
	return ref
}

func (e *engine) indexFields(ct *CompiledType) {
	if ct.Kind == kindInput {
		return
	}
	fields := map[string]fieldDispatch{}
	for _, f := range ct.DataFields {
		fields[f.Name] = fieldDispatch{data: f}
	}
	for _, rf := range ct.ResolverFields {
		fields[rf.Name] = fieldDispatch{resolver: rf}
	}
	for _, rf := range ct.SubscriptionFields {
		fields[rf.Name] = fieldDispatch{resolver: rf}
	}
	e.dispatch[ct.Name] = fields
}

// ResolveSync implements internal/executor.Runtime's synchronous dispatch: a
// plain attribute read for a data field, or a promoted-method call for a
// resolver field, guarded by a panic recovery that surfaces as a
// resolver_exception error rather than crashing the request.
func (e *engine) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CompileError{Kind: KindResolverException, TypeName: objectType, FieldName: field, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	fd, ok := e.dispatch[objectType][field]
	if !ok {
		return nil, &CompileError{Kind: KindResolverException, TypeName: objectType, FieldName: field, Message: "unknown field"}
	}

	parent := source
	if parent == nil {
		if root, ok := e.roots[objectType]; ok {
			parent = root
		}
	}
	if uv, ok := parent.(UnionValue); ok {
		parent = uv.value
	}

	if fd.data != nil {
		return readDataField(fd.data, parent), nil
	}

	var lh *lookahead.Graph
	if fd.resolver.NeedsContext {
		lh = e.lookaheadFor(ctx, fd.resolver.Type)
	}
	state := requestStateFromContext(ctx)
	return callResolverField(fd.resolver, parent, lh, state, args)
}

func readDataField(f *CompiledDataField, parent any) any {
	pv := reflect.ValueOf(parent)
	for pv.Kind() == reflect.Ptr {
		if pv.IsNil() {
			return nil
		}
		pv = pv.Elem()
	}
	if !pv.IsValid() || pv.Kind() != reflect.Struct {
		return nil
	}
	fv := pv.FieldByIndex(f.index)
	if !fv.IsValid() {
		return nil
	}
	return fv.Interface()
}

func (e *engine) lookaheadFor(ctx context.Context, spec *TypeSpec) *lookahead.Graph {
	fs := executor.SelectionSetFromContext(ctx)
	if fs.Document == nil {
		return nil
	}
	returnType := e.schema.Types[spec.NamedTypeName()]
	return lookahead.Build(fs.Document, e.schema, returnType, fs.SelectionSet)
}

// BatchResolveAsync implements internal/executor.Runtime's batched dispatch:
// one depth of Async()-opted-in fields, fanned out over a bounded worker
// pool so sibling fields resolve concurrently instead of one at a time.
func (e *engine) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	sem := make(chan struct{}, maxAsyncWorkers)
	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			task := tasks[i]
			taskCtx := executor.WithSelectionSet(ctx, task.Document, task.SelectionSet)
			value, err := e.ResolveSync(taskCtx, task.ObjectType, task.Field, task.Source, task.Args)
			results[i] = executor.AsyncResolveResult{Value: value, Error: err}
		}(i)
	}
	wg.Wait()
	return results
}

// ResolveType implements internal/executor.Runtime for interface/union
// values: the concrete Go type (unboxing a UnionValue first, if present)
// names its own compiled GraphQL type.
func (e *engine) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if uv, ok := value.(UnionValue); ok {
		value = uv.value
	}
	t := reflect.TypeOf(value)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ct := lookupCompiledByGoType(t)
	if ct == nil {
		return "", &CompileError{Kind: KindAbstractTypeResolution, TypeName: abstractType, Message: fmt.Sprintf("cannot resolve concrete type from %T", value)}
	}
	return ct.Name, nil
}

// SerializeLeafValue implements internal/executor.Runtime for the scalar
// output path: it converts a resolved Go value into the representation the
// response encoder expects for the named scalar.
func (e *engine) SerializeLeafValue(ctx context.Context, scalarTypeName string, value any) (any, error) {
	return serializeScalar(scalarTypeName, value)
}

// ResolveSubscription implements internal/executor.SubscriptionRuntime: it
// opens the subscription field's source stream by invoking its compiled
// resolver and bridges the resulting <-chan any straight through (the
// resolver itself already returns a generic channel via
// callSubscriptionField's bridging goroutine).
func (e *engine) ResolveSubscription(ctx context.Context, objectType, field string, source any, args map[string]any) (<-chan any, error) {
	fd, ok := e.dispatch[objectType][field]
	if !ok || fd.resolver == nil {
		return nil, &CompileError{Kind: KindResolverException, TypeName: objectType, FieldName: field, Message: "unknown subscription field"}
	}

	parent := source
	if parent == nil {
		if root, ok := e.roots[objectType]; ok {
			parent = root
		}
	}

	var lh *lookahead.Graph
	if fd.resolver.NeedsContext {
		lh = e.lookaheadFor(ctx, fd.resolver.Type)
	}
	state := requestStateFromContext(ctx)
	return callSubscriptionField(fd.resolver, parent, lh, state, args)
}

type requestStateCtxKey struct{}

func withRequestState(ctx context.Context, state any) context.Context {
	return context.WithValue(ctx, requestStateCtxKey{}, state)
}

func requestStateFromContext(ctx context.Context) any {
	return ctx.Value(requestStateCtxKey{})
}
