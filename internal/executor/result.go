package executor

import language "github.com/thearchitector/grommet/internal/language"

// Location identifies a position in the query document that an error
// pertains to, per the GraphQL response format.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// positionToLocations converts an AST source position into the single-element
// Locations slice used on GraphQLError. Returns nil if pos is nil.
func positionToLocations(pos *language.Position) []Location {
	if pos == nil {
		return nil
	}
	return []Location{{Line: pos.Line, Column: pos.Column}}
}

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       Path           `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}
