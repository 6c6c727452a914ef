package main

import (
	"context"
	"fmt"
)

// sourceResolver serves fields straight out of nested map data. It backs the
// serve command so a schema plus a JSON document make a working read-only
// endpoint without any resolver code.
type sourceResolver struct {
	root map[string]any
}

func newSourceResolver(root map[string]any) *sourceResolver {
	if root == nil {
		root = map[string]any{}
	}
	return &sourceResolver{root: root}
}

func (r *sourceResolver) ResolveField(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	m, ok := source.(map[string]any)
	if !ok {
		if source == nil {
			m = r.root
		} else {
			return nil, fmt.Errorf("cannot resolve %s.%s from %T", objectType, field, source)
		}
	}
	return m[field], nil
}

func (r *sourceResolver) ResolveBatch(ctx context.Context, objectType, field string, sources []any, args map[string]any) (any, error) {
	return nil, fmt.Errorf("batched field %s.%s is not supported by the data-backed resolver", objectType, field)
}

func (r *sourceResolver) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if m, ok := value.(map[string]any); ok {
		if tn, ok := m["__typename"].(string); ok {
			return tn, nil
		}
	}
	return "", fmt.Errorf("cannot determine concrete type for %s value", abstractType)
}

func (r *sourceResolver) SerializeLeaf(ctx context.Context, typeName string, value any) (any, error) {
	return value, nil
}
