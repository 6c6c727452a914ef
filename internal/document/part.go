package document

import (
	"fmt"

	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// PartKind tags the node type of a document part.
type PartKind string

const (
	KindDocument          PartKind = "Document"
	KindOperation         PartKind = "Operation"
	KindNamedFragment     PartKind = "NamedFragment"
	KindFieldSelectionSet PartKind = "FieldSelectionSet"
	KindField             PartKind = "Field"
	KindInlineFragment    PartKind = "InlineFragment"
	KindFragmentSpread    PartKind = "FragmentSpread"
	KindDirective         PartKind = "Directive"
	KindVariable          PartKind = "Variable"
	KindInputArgument     PartKind = "InputArgument"
	KindInputObjectField  PartKind = "InputObjectField"
	KindSuppliedValue     PartKind = "SuppliedValue"
)

// SourceLocation points back into the original query text.
type SourceLocation struct {
	Offset int
	Line   int
	Column int
}

func locationOf(pos *language.Position) SourceLocation {
	if pos == nil {
		return SourceLocation{}
	}
	return SourceLocation{Offset: pos.Start, Line: pos.Line, Column: pos.Column}
}

// Part is one node of the validated query document tree. Parts are created
// during document construction and never re-parented; the only mutation after
// construction is the IsIncluded flag on include governors.
type Part interface {
	Kind() PartKind
	Parent() Part
	Children() []Part
	Origin() SourceLocation
	// Path is the human readable location of this part within the document,
	// computed lazily from the parent chain and cached.
	Path() string
	GraphType() *schema.Type
	Description() string

	// Refresh recomputes any derived state this part caches. The default is a
	// no-op; field selection sets invalidate their executable view.
	Refresh()

	pathSegment() string
	base() *partBase
}

// IncludeGovernor is any part whose IsIncluded flag can suppress a field's
// presence in output: fields, inline fragments, fragment spreads and named
// fragments.
type IncludeGovernor interface {
	Part
	IsIncluded() bool
	SetIncluded(bool)
}

// DescendantObserver is implemented by parts that maintain typed indexes over
// their descendants. Attach invokes it on every observing ancestor each time a
// new part is added anywhere below it.
type DescendantObserver interface {
	OnDescendantAdded(child Part, relativeDepth int)
}

// partBase carries the state common to every part. Concrete parts embed it
// and register themselves through init.
type partBase struct {
	self      Part
	kind      PartKind
	parent    Part
	children  []Part
	origin    SourceLocation
	graphType *schema.Type

	path      string
	pathKnown bool
}

func (b *partBase) init(self Part, kind PartKind, origin SourceLocation) {
	b.self = self
	b.kind = kind
	b.origin = origin
}

func (b *partBase) Kind() PartKind          { return b.kind }
func (b *partBase) Parent() Part            { return b.parent }
func (b *partBase) Children() []Part        { return b.children }
func (b *partBase) Origin() SourceLocation  { return b.origin }
func (b *partBase) GraphType() *schema.Type { return b.graphType }
func (b *partBase) Description() string     { return string(b.kind) }
func (b *partBase) Refresh()                {}
func (b *partBase) base() *partBase         { return b }
func (b *partBase) pathSegment() string     { return "" }

// Path builds the part's path from the parent chain on first access and caches
// it. The tree shape above a part never changes after construction, so the
// cached value stays valid even while inclusion flags toggle below.
func (b *partBase) Path() string {
	if b.pathKnown {
		return b.path
	}
	seg := b.self.pathSegment()
	if b.parent == nil {
		b.path = seg
	} else if seg == "" {
		b.path = b.parent.Path()
	} else if pp := b.parent.Path(); pp == "" {
		b.path = seg
	} else {
		b.path = pp + "/" + seg
	}
	b.pathKnown = true
	return b.path
}

// Attach adds child under parent and notifies every observing ancestor. A
// part can be attached exactly once; attaching an owned part is a programming
// error and panics.
func Attach(parent, child Part) {
	cb := child.base()
	if cb.parent != nil {
		panic(fmt.Sprintf("document: part %q is already owned by %q", child.Kind(), cb.parent.Kind()))
	}
	cb.parent = parent

	pb := parent.base()
	pb.children = append(pb.children, child)

	depth := 1
	for anc := parent; anc != nil; anc = anc.Parent() {
		if obs, ok := anc.(DescendantObserver); ok {
			obs.OnDescendantAdded(child, depth)
		}
		depth++
	}
}

// RefreshAllAscendantFields walks from part up to the root calling Refresh on
// every ancestor. Called whenever a directive toggles an inclusion flag so
// every enclosing selection set recomputes on its next read.
func RefreshAllAscendantFields(part Part) {
	for anc := part.Parent(); anc != nil; anc = anc.Parent() {
		anc.Refresh()
	}
}
