package executor

import (
	"context"
	"fmt"

	language "github.com/thearchitector/grommet/internal/language"
	schema "github.com/thearchitector/grommet/internal/schema"
)

// SubscriptionRuntime extends Runtime with the ability to open the source
// event stream for a subscription root field. A Runtime produced by this
// module's engine always implements it; runtimes with no subscription
// fields registered may decline by returning a non-nil error from
// ResolveSubscription.
type SubscriptionRuntime interface {
	Runtime

	// ResolveSubscription opens the source event stream for a subscription
	// root field. The returned channel carries one source value per event.
	// The Executor stops reading once ctx is cancelled; the implementation
	// is responsible for closing the channel when the stream ends.
	ResolveSubscription(ctx context.Context, objectType string, field string, source any, args map[string]any) (<-chan any, error)
}

// Subscribe executes a subscription operation against its single root
// field, running the "ExecuteSubscriptionEvent" step once per value taken
// from the field's source stream. The returned channel yields one
// *ExecutionResult per event and is closed when the source stream closes
// or ctx is cancelled.
func (e *Executor) Subscribe(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) (<-chan *ExecutionResult, error) {
	subRuntime, ok := e.runtime.(SubscriptionRuntime)
	if !ok {
		return nil, fmt.Errorf("runtime does not support subscriptions")
	}

	operation := getOperation(document, operationName)
	if operation == nil {
		return nil, fmt.Errorf("operation not found")
	}
	if operation.Operation != language.Subscription {
		return nil, fmt.Errorf("operation is not a subscription")
	}

	coercedVariableValues, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return nil, err
	}

	rootType := e.schema.GetSubscriptionType()
	if rootType == nil {
		return nil, fmt.Errorf("root type not found for subscription operation")
	}

	setupState := newExecutionState(e.runtime, e.schema, document, coercedVariableValues, ctx)
	groupedFields := collectFields(setupState, rootType, operation.SelectionSet)
	rootFields := groupedFields.orderedFields()
	if len(rootFields) != 1 {
		return nil, fmt.Errorf("subscription operations must select exactly one root field")
	}
	root := rootFields[0]
	rootFieldName := root.Fields[0].Name

	fieldDef := getFieldDefinition(rootType, rootFieldName)
	if fieldDef == nil {
		return nil, fmt.Errorf("unknown subscription field %q", rootFieldName)
	}

	path := Path{root.ResponseName}
	argumentValues := coerceArgumentValues(fieldDef, root.Fields[0].Arguments, coercedVariableValues, setupState, path)
	if len(setupState.errors) > 0 {
		return nil, fmt.Errorf("%s", setupState.errors[0].Message)
	}

	subscribeCtx := WithSelectionSet(ctx, document, mergeSelectionSets(root.Fields))
	sourceStream, err := subRuntime.ResolveSubscription(subscribeCtx, rootType.Name, rootFieldName, initialValue, argumentValues)
	if err != nil {
		return nil, err
	}

	out := make(chan *ExecutionResult)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, more := <-sourceStream:
				if !more {
					return
				}
				result := e.mapSubscriptionEvent(ctx, document, rootType, root, fieldDef, coercedVariableValues, event)
				select {
				case out <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// mapSubscriptionEvent runs the "MapSourceToResponseEvent" step: it treats a
// single source-stream event as the already-resolved value of the
// subscription root field and completes it exactly like any other field
// result, including draining any async tasks its nested selections queue.
func (e *Executor) mapSubscriptionEvent(
	ctx context.Context,
	document *language.QueryDocument,
	rootType *schema.Type,
	root collectedField,
	fieldDef *schema.Field,
	variableValues map[string]any,
	event any,
) *ExecutionResult {
	state := newExecutionState(e.runtime, e.schema, document, variableValues, ctx)

	responseRoot := make(map[string]any)
	path := Path{root.ResponseName}
	completed := completeValue(state, fieldDef.Type, root.Fields, event, path)
	if isNullish(completed) {
		responseRoot[root.ResponseName] = nil
	} else {
		responseRoot[root.ResponseName] = completed
	}

	for len(state.asyncTaskGroup) > 0 {
		filtered, results := flushAsyncTasks(state)
		for i, r := range results {
			completeAsyncField(state, filtered[i], r, responseRoot)
		}
	}

	return &ExecutionResult{Data: responseRoot, Errors: state.errors}
}

func newExecutionState(runtime Runtime, sch *schema.Schema, document *language.QueryDocument, variableValues map[string]any, ctx context.Context) *executionState {
	return &executionState{
		runtime:         runtime,
		schema:          sch,
		document:        document,
		variableValues:  variableValues,
		context:         ctx,
		asyncTaskGroup:  []asyncTask{},
		errors:          []GraphQLError{},
		asyncTaskInfo:   make(map[NodeID]asyncTask),
		nextID:          1,
		nullifiedPrefix: make(map[string]struct{}),
	}
}
