package resolution

import (
	"fmt"
	"reflect"

	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// childKind tags the mutually exclusive child collection of an item. An item
// decomposes into named fields or fans out into list items, never both.
type childKind int

const (
	childrenNone childKind = iota
	childrenFields
	childrenListItems
)

type childSet struct {
	kind  childKind
	items []*FieldDataItem
}

// FieldDataItem tracks the resolution of one field invocation against one
// source value: the raw source, the assigned result, the status machine, and
// the children the result decomposed into.
type FieldDataItem struct {
	name     string
	typeExpr *schema.TypeRef
	leaf     bool
	path     string

	source    any
	result    any
	resultSet bool

	status   Status
	children childSet
}

func NewFieldDataItem(name string, typeExpr *schema.TypeRef, leaf bool, path string, source any) *FieldDataItem {
	return &FieldDataItem{
		name:     name,
		typeExpr: typeExpr,
		leaf:     leaf,
		path:     path,
		source:   source,
		status:   StatusNotStarted,
	}
}

func (it *FieldDataItem) Name() string                   { return it.name }
func (it *FieldDataItem) Path() string                   { return it.path }
func (it *FieldDataItem) TypeExpression() *schema.TypeRef { return it.typeExpr }
func (it *FieldDataItem) IsLeaf() bool                   { return it.leaf }
func (it *FieldDataItem) SourceData() any                { return it.source }
func (it *FieldDataItem) Status() Status                 { return it.status }

// ResultData returns the most recently assigned result and whether one was
// assigned at all.
func (it *FieldDataItem) ResultData() (any, bool) { return it.result, it.resultSet }

// Fields returns the named-field children, or nil when the item fanned out as
// a list (or has no children).
func (it *FieldDataItem) Fields() []*FieldDataItem {
	if it.children.kind != childrenFields {
		return nil
	}
	return it.children.items
}

// ListItems returns the per-element children of a list-shaped item.
func (it *FieldDataItem) ListItems() []*FieldDataItem {
	if it.children.kind != childrenListItems {
		return nil
	}
	return it.children.items
}

// requestTransition applies the allow-table; disallowed requests leave the
// status untouched and report false.
func (it *FieldDataItem) requestTransition(to Status) bool {
	if !CanTransition(it.status, to) {
		return false
	}
	it.status = to
	return true
}

// setStatus stamps the status unconditionally. Used only for list fan-out
// children, which inherit the parent's status at assignment time.
func (it *FieldDataItem) setStatus(s Status) { it.status = s }

func (it *FieldDataItem) Complete() bool               { return it.requestTransition(StatusComplete) }
func (it *FieldDataItem) Fail() bool                   { return it.requestTransition(StatusFailed) }
func (it *FieldDataItem) Cancel() bool                 { return it.requestTransition(StatusCanceled) }
func (it *FieldDataItem) InvalidateResult() bool       { return it.requestTransition(StatusInvalid) }
func (it *FieldDataItem) RequireChildResolution() bool { return it.requestTransition(StatusNeedsChildResolution) }

// AssignResult stores the resolved raw value, discarding any children from a
// prior round. When the item's type expression denotes a list, the value fans
// out synchronously into one child item per element; each child is resolved
// with its element immediately and then stamped with this item's current
// status, so a list assigned under a cancelled parent stays cancelled without
// a second traversal.
func (it *FieldDataItem) AssignResult(data any) {
	it.children = childSet{}
	it.result = data
	it.resultSet = true
	it.requestTransition(StatusResultAssigned)

	if !schema.IsList(it.typeExpr) || data == nil {
		return
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		// not enumerable; treated as having no children
		return
	}

	elemType := it.typeExpr.UnwrapList()
	items := make([]*FieldDataItem, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		child := NewFieldDataItem(
			it.name,
			elemType,
			it.leaf,
			fmt.Sprintf("%s[%d]", it.path, i),
			elem,
		)
		child.AssignResult(elem)
		child.setStatus(it.status)
		items[i] = child
	}
	it.children = childSet{kind: childrenListItems, items: items}
}

// AddField attaches a named-field child. Attaching to an item already fanned
// out as a list is a contract violation.
func (it *FieldDataItem) AddField(child *FieldDataItem) error {
	if it.children.kind == childrenListItems {
		return fmt.Errorf("resolution: cannot add field %q to list-shaped item %q", child.name, it.path)
	}
	it.children.kind = childrenFields
	it.children.items = append(it.children.items, child)
	return nil
}

// AddListItem attaches a list-element child. Attaching to an item holding
// named fields is a contract violation.
func (it *FieldDataItem) AddListItem(child *FieldDataItem) error {
	if it.children.kind == childrenFields {
		return fmt.Errorf("resolution: cannot add list item to field-shaped item %q", it.path)
	}
	it.children.kind = childrenListItems
	it.children.items = append(it.children.items, child)
	return nil
}
