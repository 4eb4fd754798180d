package graphql

import (
	lookahead "github.com/thearchitector/grommet/internal/lookahead"
)

// Context is the Go analog of a resolver's per-request marker parameter: it
// carries the caller-supplied request state S plus a Lookahead snapshot of
// the remaining selection set below the current field. A resolver method
// takes a Context[S] parameter to receive either; the state value passed to
// Execute/Subscribe is converted to S.
type Context[S any] struct {
	State     S
	Lookahead *Lookahead
}

// Lookahead answers "will the caller need field X below this point,"
// without a resolver having to inspect the raw query AST itself.
type Lookahead struct {
	graph *lookahead.Graph
}

func newLookahead(g *lookahead.Graph) *Lookahead {
	return &Lookahead{graph: g}
}

// Exists reports whether the current field was selected at all. Always true
// for the Lookahead handed to a resolver that is itself being invoked.
func (l *Lookahead) Exists() bool {
	return l != nil && l.graph.Exists()
}

// Field returns the Lookahead for a nested field name, usable to ask
// further "does this exist" questions, bounded to depth 32 below the current
// field.
func (l *Lookahead) Field(name string) *Lookahead {
	if l == nil {
		return nil
	}
	return newLookahead(l.graph.Field(name))
}
