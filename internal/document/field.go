package document

import (
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// FieldPart is a single requested field within a selection set. A field is
// its own first inclusion governor: skip/include directives toggle its flag
// directly.
type FieldPart struct {
	partBase

	name     string
	alias    string
	fieldDef *schema.Field
	included bool

	directives   []*DirectivePart
	arguments    []*InputArgumentPart
	selectionSet *FieldSelectionSetPart
}

func NewFieldPart(name, alias string, fieldDef *schema.Field, graphType *schema.Type, origin SourceLocation) *FieldPart {
	f := &FieldPart{name: name, alias: alias, fieldDef: fieldDef, included: true}
	f.init(f, KindField, origin)
	f.graphType = graphType
	return f
}

func (f *FieldPart) Name() string { return f.name }

// ResponseName is the key this field renders under: the alias when one was
// declared, otherwise the field name.
func (f *FieldPart) ResponseName() string {
	if f.alias != "" {
		return f.alias
	}
	return f.name
}

func (f *FieldPart) Alias() string             { return f.alias }
func (f *FieldPart) FieldDefinition() *schema.Field { return f.fieldDef }

// TypeExpression is the declared wrapper chain of the field's schema type.
func (f *FieldPart) TypeExpression() *schema.TypeRef {
	if f.fieldDef == nil {
		return nil
	}
	return f.fieldDef.Type
}

func (f *FieldPart) IsIncluded() bool { return f.included }

func (f *FieldPart) SetIncluded(v bool) {
	if f.included == v {
		return
	}
	f.included = v
	RefreshAllAscendantFields(f)
}

func (f *FieldPart) Directives() []*DirectivePart    { return f.directives }
func (f *FieldPart) Arguments() []*InputArgumentPart { return f.arguments }

func (f *FieldPart) Argument(name string) *InputArgumentPart {
	for _, a := range f.arguments {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// SelectionSet returns the child selection set, or nil for leaf fields.
func (f *FieldPart) SelectionSet() *FieldSelectionSetPart { return f.selectionSet }

func (f *FieldPart) pathSegment() string { return f.ResponseName() }

// FieldSelectionSetPart owns the ordered child selections of one scope: an
// operation, a field or a fragment body. Its flattened executable view is
// rebuilt lazily, keyed off a monotonic sequence counter.
type FieldSelectionSetPart struct {
	partBase

	sequence   uint64
	executable *ExecutableFieldSet
}

func NewFieldSelectionSetPart(graphType *schema.Type, origin SourceLocation) *FieldSelectionSetPart {
	s := &FieldSelectionSetPart{}
	s.init(s, KindFieldSelectionSet, origin)
	s.graphType = graphType
	return s
}

// ResetFieldSelectionSet marks the executable view stale. The next read
// rebuilds; a burst of toggles between reads costs one rebuild total.
func (s *FieldSelectionSetPart) ResetFieldSelectionSet() { s.sequence++ }

func (s *FieldSelectionSetPart) Refresh() { s.ResetFieldSelectionSet() }

func (s *FieldSelectionSetPart) OnDescendantAdded(Part, int) { s.ResetFieldSelectionSet() }

// ExecutableFields returns the current flattened view of this selection set,
// rebuilding it first if any structural change or inclusion toggle happened
// since the last read.
func (s *FieldSelectionSetPart) ExecutableFields() *ExecutableFieldSet {
	if s.executable == nil {
		s.executable = &ExecutableFieldSet{owner: s}
	}
	s.executable.ensure()
	return s.executable
}

// selection set parts contribute nothing to the path; their owner already did.
func (s *FieldSelectionSetPart) pathSegment() string { return "" }
