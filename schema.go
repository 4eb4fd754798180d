package graphql

import (
	"context"
	"reflect"
	"sync"

	"github.com/thearchitector/grommet/internal/executor"
	"github.com/thearchitector/grommet/internal/language"
	"github.com/thearchitector/grommet/internal/reqid"
	schemapkg "github.com/thearchitector/grommet/internal/schema"
)

// schemaBuildState accumulates a NewSchema call's SchemaOptions before
// buildSchemaBundle runs against them.
type schemaBuildState struct {
	mutation     any
	subscription any
}

// SchemaOption configures a NewSchema call.
type SchemaOption func(*schemaBuildState)

// Mutation declares the root mutation object. m must be an instance of a
// type already registered via Object[T].
func Mutation(m any) SchemaOption {
	return func(s *schemaBuildState) { s.mutation = m }
}

// SubscriptionRoot declares the root subscription object. s must be an
// instance of a type already registered via Subscription[T].
func SubscriptionRoot(s any) SchemaOption {
	return func(st *schemaBuildState) { st.subscription = s }
}

// Schema is the compiled, immutable schema graph returned by NewSchema: no
// further registration is observed by a Schema once it is built, which is
// what makes it safe for concurrent reads without its own locking.
type Schema struct {
	engine   *engine
	executor *executor.Executor

	sdlOnce sync.Once
	sdl     string
}

// NewSchema runs schema-graph discovery and engine construction eagerly:
// query must be an instance of a type already registered via Object[T]; an
// unregistered root is an error, not a deferred panic.
func NewSchema(query any, opts ...SchemaOption) (*Schema, error) {
	state := &schemaBuildState{}
	for _, opt := range opts {
		opt(state)
	}

	queryType, err := rootType(query)
	if err != nil {
		return nil, err
	}

	var mutationType, subscriptionType reflect.Type
	roots := map[string]any{}

	queryCt := lookupCompiledByGoType(queryType)
	if queryCt == nil {
		return nil, errSchemaBuildRootMissing(queryType.Name())
	}
	roots[queryCt.Name] = query

	if state.mutation != nil {
		mutationType, err = rootType(state.mutation)
		if err != nil {
			return nil, err
		}
		mutationCt := lookupCompiledByGoType(mutationType)
		if mutationCt == nil {
			return nil, errSchemaBuildRootMissing(mutationType.Name())
		}
		roots[mutationCt.Name] = state.mutation
	}

	if state.subscription != nil {
		subscriptionType, err = rootType(state.subscription)
		if err != nil {
			return nil, err
		}
		subscriptionCt := lookupCompiledByGoType(subscriptionType)
		if subscriptionCt == nil {
			return nil, errSchemaBuildRootMissing(subscriptionType.Name())
		}
		roots[subscriptionCt.Name] = state.subscription
	}

	bundle, err := buildSchemaBundle(queryType, mutationType, subscriptionType)
	if err != nil {
		return nil, err
	}

	eng, err := buildEngine(bundle, roots)
	if err != nil {
		return nil, err
	}

	return &Schema{
		engine:   eng,
		executor: executor.NewExecutor(eng, eng.schema),
	}, nil
}

func rootType(v any) (reflect.Type, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, errNotAStruct("<nil>")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errNotAStruct(t.String())
	}
	return t, nil
}

// SDL renders the schema's SDL text, memoized after first computation since
// the underlying type graph never changes after NewSchema returns.
func (s *Schema) SDL() string {
	s.sdlOnce.Do(func() {
		s.sdl = schemapkg.Render(s.engine.schema)
	})
	return s.sdl
}

// OperationResult is the public, per-operation wire format: data alongside
// any field or request errors, plus top-level extensions (currently just
// the per-request identifier attached by Execute/Subscribe).
type OperationResult struct {
	Data       any                     `json:"data"`
	Errors     []executor.GraphQLError `json:"errors,omitempty"`
	Extensions map[string]any          `json:"extensions,omitempty"`
}

func newOperationResult(ctx context.Context, r *executor.ExecutionResult) *OperationResult {
	out := &OperationResult{Data: r.Data, Errors: r.Errors}
	if id := reqid.FromContext(ctx); id != "" {
		out.Extensions = map[string]any{"requestID": id}
	}
	return out
}

// Execute runs a query or mutation document, the single entry point for
// both. state is the caller-supplied per-request value later visible to
// resolvers declaring a Context[S] parameter.
func (s *Schema) Execute(ctx context.Context, query string, variables map[string]any, state any) *OperationResult {
	ctx = reqid.NewContext(ctx)
	document, err := language.ParseQuery(query)
	if err != nil {
		return &OperationResult{Errors: []executor.GraphQLError{{Message: err.Error()}}}
	}
	ctx = withRequestState(ctx, state)
	result := s.executor.ExecuteRequest(ctx, document, "", variables, nil)
	return newOperationResult(ctx, result)
}

// SubscriptionStream iterates the OperationResult values produced by a
// subscription, one per source-stream event, until the underlying channel
// closes or Close is called.
type SubscriptionStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	ch     <-chan *executor.ExecutionResult
}

// Next blocks for the next event, returning (nil, false) once the stream
// has ended. ctx is consulted in addition to the stream's own cancellation.
func (sub *SubscriptionStream) Next(ctx context.Context) (*OperationResult, bool) {
	select {
	case r, more := <-sub.ch:
		if !more {
			return nil, false
		}
		return newOperationResult(sub.ctx, r), true
	case <-ctx.Done():
		return nil, false
	}
}

// Close cancels the stream's context, causing the producing goroutine to
// stop and close its channel.
func (sub *SubscriptionStream) Close() {
	sub.cancel()
}

// Subscribe opens a subscription document's source event stream. state is
// the caller-supplied per-request value later visible to resolvers
// declaring a Context[S] parameter.
func (s *Schema) Subscribe(ctx context.Context, query string, variables map[string]any, state any) (*SubscriptionStream, error) {
	document, err := language.ParseQuery(query)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(reqid.NewContext(ctx))
	subCtx = withRequestState(subCtx, state)

	ch, err := s.executor.Subscribe(subCtx, document, "", variables, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	return &SubscriptionStream{ctx: subCtx, cancel: cancel, ch: ch}, nil
}
