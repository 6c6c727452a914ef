package engine

import (
	"context"
)

// Resolver defines the host integration surface the engine drives field
// resolution through. The engine owns document flattening, list fan-out and
// response assembly; the Resolver owns where data actually comes from.
//
// General contract
//   - ResolveField is called once per included field per source value. Return
//     (nil, nil) to produce a GraphQL null for nullable fields.
//   - ResolveBatch is called once per included @batched field per sibling
//     group, with every source value of that group. It must return a
//     dictionary keyed by source item; the engine extracts each source's
//     slice itself and supports partial absence (a missing key renders null).
//   - ResolveType must return the concrete object type name for a value of an
//     interface or union type.
//   - SerializeLeaf coerces scalars and enums into JSON-safe Go values
//     (string, float64, int, bool). For enums, return the symbolic name.
//   - Errors returned from any method become located GraphQL errors; they
//     fail the one field (or element) involved and never abort the request.
//   - Implementations should be stateless or otherwise concurrency-safe; the
//     engine may execute different requests concurrently.
//   - Implementations must not mutate source or args values.
type Resolver interface {
	ResolveField(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	ResolveBatch(ctx context.Context, objectType string, field string, sources []any, args map[string]any) (any, error)

	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	SerializeLeaf(ctx context.Context, typeName string, value any) (any, error)
}

// GraphQLError is one located execution or validation error.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string { return e.Message }

// Response is the result of executing one operation.
type Response struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}
