package document

import (
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// InlineFragmentPart wraps a selection subset behind an optional type
// condition. It governs inclusion of every field it carries.
type InlineFragmentPart struct {
	partBase

	typeCondition string
	included      bool
	directives    []*DirectivePart
	selectionSet  *FieldSelectionSetPart
}

func NewInlineFragmentPart(typeCondition string, graphType *schema.Type, origin SourceLocation) *InlineFragmentPart {
	f := &InlineFragmentPart{typeCondition: typeCondition, included: true}
	f.init(f, KindInlineFragment, origin)
	f.graphType = graphType
	return f
}

func (f *InlineFragmentPart) TypeCondition() string { return f.typeCondition }

func (f *InlineFragmentPart) IsIncluded() bool { return f.included }

func (f *InlineFragmentPart) SetIncluded(v bool) {
	if f.included == v {
		return
	}
	f.included = v
	RefreshAllAscendantFields(f)
}

func (f *InlineFragmentPart) Directives() []*DirectivePart        { return f.directives }
func (f *InlineFragmentPart) SelectionSet() *FieldSelectionSetPart { return f.selectionSet }

func (f *InlineFragmentPart) pathSegment() string {
	if f.typeCondition == "" {
		return "..."
	}
	return "...on" + f.typeCondition
}

// FragmentSpreadPart references a named fragment by name. Its inclusion flag
// is independent of the fragment's own flag; both sit on the governor chain
// of every field the fragment carries in.
type FragmentSpreadPart struct {
	partBase

	fragmentName string
	included     bool
	directives   []*DirectivePart
	fragment     *NamedFragmentPart
}

func NewFragmentSpreadPart(fragmentName string, origin SourceLocation) *FragmentSpreadPart {
	s := &FragmentSpreadPart{fragmentName: fragmentName, included: true}
	s.init(s, KindFragmentSpread, origin)
	return s
}

func (s *FragmentSpreadPart) FragmentName() string { return s.fragmentName }

func (s *FragmentSpreadPart) IsIncluded() bool { return s.included }

func (s *FragmentSpreadPart) SetIncluded(v bool) {
	if s.included == v {
		return
	}
	s.included = v
	RefreshAllAscendantFields(s)
}

func (s *FragmentSpreadPart) Directives() []*DirectivePart { return s.directives }

// Fragment returns the officially chosen named fragment, nil until assigned.
func (s *FragmentSpreadPart) Fragment() *NamedFragmentPart { return s.fragment }

// AssignNamedFragment binds the spread to its target fragment and records the
// back-reference on the fragment. Selection sets above the spread are
// refreshed since the spread's reachable fields just changed.
func (s *FragmentSpreadPart) AssignNamedFragment(frag *NamedFragmentPart) {
	s.fragment = frag
	s.graphType = frag.GraphType()
	frag.spreads.Add(s)
	RefreshAllAscendantFields(s)
}

func (s *FragmentSpreadPart) pathSegment() string { return "..." + s.fragmentName }

// NamedFragmentPart is a fragment declared once by name and spread any number
// of times. It tracks the spreads that reference it.
type NamedFragmentPart struct {
	partBase

	name          string
	typeCondition string
	included      bool
	directives    []*DirectivePart
	selectionSet  *FieldSelectionSetPart
	spreads       *FragmentSpreadCollection
}

func NewNamedFragmentPart(name, typeCondition string, graphType *schema.Type, origin SourceLocation) *NamedFragmentPart {
	f := &NamedFragmentPart{
		name:          name,
		typeCondition: typeCondition,
		included:      true,
		spreads:       NewFragmentSpreadCollection(),
	}
	f.init(f, KindNamedFragment, origin)
	f.graphType = graphType
	return f
}

func (f *NamedFragmentPart) Name() string          { return f.name }
func (f *NamedFragmentPart) TypeCondition() string { return f.typeCondition }

func (f *NamedFragmentPart) IsIncluded() bool { return f.included }

func (f *NamedFragmentPart) SetIncluded(v bool) {
	if f.included == v {
		return
	}
	f.included = v
	// Every spread site flattens this fragment's fields; refresh them all.
	for _, sp := range f.spreads.All() {
		RefreshAllAscendantFields(sp)
	}
	RefreshAllAscendantFields(f)
}

func (f *NamedFragmentPart) Directives() []*DirectivePart         { return f.directives }
func (f *NamedFragmentPart) SelectionSet() *FieldSelectionSetPart { return f.selectionSet }
func (f *NamedFragmentPart) Spreads() *FragmentSpreadCollection   { return f.spreads }

func (f *NamedFragmentPart) pathSegment() string { return f.name }
