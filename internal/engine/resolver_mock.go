package engine

import (
	"context"
	"fmt"
	"sync"
)

// MockFieldFunc resolves a single field invocation in tests.
type MockFieldFunc func(ctx context.Context, source any, args map[string]any) (any, error)

const (
	CallKindField = "field"
	CallKindBatch = "batch"
)

// NewMockValueFunc returns a MockFieldFunc that always returns the provided value.
func NewMockValueFunc(val any) MockFieldFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return val, nil
	}
}

// NewMockErrorFunc returns a MockFieldFunc that always returns the provided error.
func NewMockErrorFunc(err error) MockFieldFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return nil, err
	}
}

// Call represents one recorded invocation. Batched fields record one Call per
// group, with the full source slice.
type Call struct {
	Kind       string
	ObjectType string
	Field      string
	Source     any
	Sources    []any
	Args       map[string]any
}

// MockResolver implements Resolver with a "ObjectType.Field" keyed registry
// and a call log.
type MockResolver struct {
	mu     sync.Mutex
	fields map[string]MockFieldFunc
	calls  []Call

	typeResolver func(value any) (string, error)
	serializer   func(typeName string, val any) (any, error)
}

// NewMockResolver creates a MockResolver with the provided field funcs. Keys
// are of the form "ObjectType.Field". The default type resolver reads a
// "__typename" entry from map sources; the default serializer passes values
// through unchanged.
func NewMockResolver(fields map[string]MockFieldFunc) *MockResolver {
	m := &MockResolver{fields: make(map[string]MockFieldFunc)}
	m.typeResolver = func(value any) (string, error) {
		if mv, ok := value.(map[string]any); ok {
			if typename, ok := mv["__typename"].(string); ok {
				return typename, nil
			}
		}
		return "", fmt.Errorf("cannot resolve type")
	}
	m.serializer = func(typeName string, val any) (any, error) {
		return val, nil
	}
	for k, v := range fields {
		m.fields[k] = v
	}
	return m
}

// SetField registers or updates the func for the given object type and field.
func (m *MockResolver) SetField(objectType, field string, fn MockFieldFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[objectType+"."+field] = fn
}

func (m *MockResolver) SetTypeResolver(f func(value any) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeResolver = f
}

func (m *MockResolver) SetSerializer(f func(typeName string, val any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serializer = f
}

func (m *MockResolver) ResolveField(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	m.mu.Lock()
	fn := m.fields[objectType+"."+field]
	m.calls = append(m.calls, Call{
		Kind:       CallKindField,
		ObjectType: objectType,
		Field:      field,
		Source:     source,
		Args:       args,
	})
	m.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx, source, args)
}

// ResolveBatch invokes the registered func once per source and returns the
// results as a map keyed by source, the shape the engine extracts from.
func (m *MockResolver) ResolveBatch(ctx context.Context, objectType string, field string, sources []any, args map[string]any) (any, error) {
	m.mu.Lock()
	fn := m.fields[objectType+"."+field]
	m.calls = append(m.calls, Call{
		Kind:       CallKindBatch,
		ObjectType: objectType,
		Field:      field,
		Sources:    append([]any(nil), sources...),
		Args:       args,
	})
	m.mu.Unlock()

	out := make(map[any]any, len(sources))
	for _, src := range sources {
		if fn == nil {
			out[src] = nil
			continue
		}
		val, err := fn(ctx, src, args)
		if err != nil {
			return nil, err
		}
		out[src] = val
	}
	return out, nil
}

func (m *MockResolver) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	m.mu.Lock()
	tr := m.typeResolver
	m.mu.Unlock()
	if tr == nil {
		return "", fmt.Errorf("type resolver not configured")
	}
	return tr(value)
}

func (m *MockResolver) SerializeLeaf(ctx context.Context, typeName string, value any) (any, error) {
	m.mu.Lock()
	ser := m.serializer
	m.mu.Unlock()
	if ser == nil {
		return value, nil
	}
	return ser(typeName, value)
}

// GetCalls returns a copy of the recorded calls in order.
func (m *MockResolver) GetCalls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls; the field registry remains.
func (m *MockResolver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
