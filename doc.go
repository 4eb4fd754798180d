// Package graphql is a native Go GraphQL schema-compilation and execution
// library. User types are registered explicitly through Object, Input,
// Interface and Subscription; registrations are compiled once into an
// immutable schema graph built on top of internal/schema and executed by
// internal/executor.
package graphql
