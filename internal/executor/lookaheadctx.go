package executor

import (
	"context"

	language "github.com/thearchitector/grommet/internal/language"
)

type selectionSetCtxKey struct{}

// FieldSelection bundles a field's merged sub-selection set together with
// the query document it belongs to (needed to expand fragment spreads when
// a Runtime builds a lookahead snapshot).
type FieldSelection struct {
	Document     *language.QueryDocument
	SelectionSet language.SelectionSet
}

// WithSelectionSet attaches a field's sub-selection set to ctx so a Runtime
// implementation wanting to build a lookahead snapshot (for a resolver that
// declares a context-carrying parameter) can recover it from the ctx
// argument it already receives via ResolveSync/ResolveSubscription.
func WithSelectionSet(ctx context.Context, document *language.QueryDocument, selectionSet language.SelectionSet) context.Context {
	return context.WithValue(ctx, selectionSetCtxKey{}, FieldSelection{Document: document, SelectionSet: selectionSet})
}

// SelectionSetFromContext recovers the selection attached by
// WithSelectionSet, or the zero value if none was attached.
func SelectionSetFromContext(ctx context.Context) FieldSelection {
	fs, _ := ctx.Value(selectionSetCtxKey{}).(FieldSelection)
	return fs
}
