// Package lookahead builds an owned snapshot of the remaining selection set
// around a resolver invocation, letting the resolver ask "will the caller
// need field X" before doing expensive work to produce it.
package lookahead

import (
	language "github.com/thearchitector/grommet/internal/language"
	schema "github.com/thearchitector/grommet/internal/schema"
)

// MaxDepth bounds how many nested levels of selection the graph captures.
// Selections beyond this depth are not expanded; Field lookups past it
// report Exists() == false rather than panicking or looping.
const MaxDepth = 32

// Graph is a node in the captured selection tree: whether this field was
// selected at all, and the set of sub-selections beneath it.
type Graph struct {
	exists bool
	fields map[string]*Graph
}

// Exists reports whether the field this node was obtained from was present
// in the query. A nil Graph (field not selected at all) reports false.
func (g *Graph) Exists() bool {
	return g != nil && g.exists
}

// Field returns the sub-graph for a nested field name, or a non-existent
// Graph if it was not selected.
func (g *Graph) Field(name string) *Graph {
	if g == nil {
		return nil
	}
	return g.fields[name]
}

func newGraph() *Graph {
	return &Graph{exists: true, fields: make(map[string]*Graph)}
}

// Build captures a Graph rooted at a selection set against a concrete
// object type, expanding fragment spreads and inline fragments whose type
// condition matches objectType, bounded to MaxDepth.
func Build(doc *language.QueryDocument, sch *schema.Schema, objectType *schema.Type, selectionSet language.SelectionSet) *Graph {
	root := newGraph()
	collect(doc, sch, objectType, selectionSet, root, 0, make(map[string]bool))
	return root
}

func collect(doc *language.QueryDocument, sch *schema.Schema, objectType *schema.Type, selectionSet language.SelectionSet, into *Graph, depth int, visitedFragments map[string]bool) {
	if depth >= MaxDepth {
		return
	}
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			name := sel.Alias
			if name == "" {
				name = sel.Name
			}
			child, ok := into.fields[name]
			if !ok {
				child = newGraph()
				into.fields[name] = child
			}
			collect(doc, sch, fieldReturnType(sch, objectType, sel.Name), sel.SelectionSet, child, depth+1, visitedFragments)

		case *language.InlineFragment:
			if !typeConditionMatches(sch, sel.TypeCondition, objectType) {
				continue
			}
			collect(doc, sch, objectType, sel.SelectionSet, into, depth, visitedFragments)

		case *language.FragmentSpread:
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true
			fragmentDef := doc.Fragments.ForName(sel.Name)
			if fragmentDef == nil {
				continue
			}
			if !typeConditionMatches(sch, fragmentDef.TypeCondition, objectType) {
				continue
			}
			collect(doc, sch, objectType, fragmentDef.SelectionSet, into, depth, visitedFragments)
		}
	}
}

func fieldReturnType(sch *schema.Schema, objectType *schema.Type, fieldName string) *schema.Type {
	if objectType == nil {
		return nil
	}
	for _, f := range objectType.Fields {
		if f.Name == fieldName {
			return sch.Types[schema.GetNamedType(f.Type)]
		}
	}
	return nil
}

func typeConditionMatches(sch *schema.Schema, typeCondition string, objectType *schema.Type) bool {
	if objectType == nil {
		return typeCondition == ""
	}
	if typeCondition == "" || typeCondition == objectType.Name {
		return true
	}
	conditionType := sch.Types[typeCondition]
	if conditionType == nil {
		return false
	}
	switch conditionType.Kind {
	case schema.TypeKindInterface:
		return objectType.ImplementsInterface(typeCondition)
	case schema.TypeKindUnion:
		return conditionType.HasPossibleType(objectType.Name)
	default:
		return false
	}
}
