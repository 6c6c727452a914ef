package resolution

import (
	"fmt"
	"reflect"

	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// ExtractBatchItem picks, out of a dictionary-shaped batch resolver result,
// the slice of data belonging to one source item, normalizing the stored
// value against the field's type expression: a lone value under a list-typed
// field becomes a one-element list, and a list stored for a scalar-typed
// field collapses to its first element.
//
// The second return reports whether the batch held an entry for the source at
// all; an error means the batch result was not dictionary-shaped or its key
// type cannot address the source item.
func ExtractBatchItem(batch any, source any, typeExpr *schema.TypeRef) (any, bool, error) {
	if batch == nil {
		return nil, false, nil
	}
	rv := reflect.ValueOf(batch)
	if rv.Kind() != reflect.Map {
		return nil, false, fmt.Errorf("resolution: batch result must be a map, got %T", batch)
	}

	key := reflect.ValueOf(source)
	if source == nil || !key.Type().AssignableTo(rv.Type().Key()) {
		return nil, false, fmt.Errorf("resolution: source item %T cannot key batch result %T", source, batch)
	}

	entry := rv.MapIndex(key)
	if !entry.IsValid() {
		return nil, false, nil
	}
	value := entry.Interface()

	if schema.IsList(typeExpr) {
		return normalizeToList(value), true, nil
	}
	return normalizeToScalar(value), true, nil
}

func normalizeToList(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return value
	}
	return []any{value}
}

func normalizeToScalar(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return value
	}
	if rv.Len() == 0 {
		return nil
	}
	return rv.Index(0).Interface()
}
