package document

import (
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	messages "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/messages"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// DocumentPart is the root of one parsed-and-validated query document. It
// indexes operations and named fragments as they are attached and collects
// every fragment spread for post-construction resolution.
type DocumentPart struct {
	partBase

	operations []*OperationPart
	opsByName  map[string]*OperationPart
	fragments  *NamedFragmentCollection
	spreads    *FragmentSpreadCollection

	// Messages accumulated while constructing and validating the document.
	Messages *messages.Collection
}

func NewDocumentPart() *DocumentPart {
	d := &DocumentPart{
		opsByName: make(map[string]*OperationPart),
		fragments: NewNamedFragmentCollection(),
		spreads:   NewFragmentSpreadCollection(),
		Messages:  &messages.Collection{},
	}
	d.init(d, KindDocument, SourceLocation{})
	return d
}

func (d *DocumentPart) OnDescendantAdded(child Part, _ int) {
	switch p := child.(type) {
	case *OperationPart:
		d.operations = append(d.operations, p)
		if _, dup := d.opsByName[p.Name()]; dup {
			d.Messages.AddCritical("5.2.1.1", "operation %q is declared more than once", p.Name())
			return
		}
		d.opsByName[p.Name()] = p
	case *NamedFragmentPart:
		if !d.fragments.Add(p) {
			d.Messages.AddCritical("5.5.1.1", "fragment %q is declared more than once", p.Name())
		}
	case *FragmentSpreadPart:
		d.spreads.Add(p)
	}
}

func (d *DocumentPart) Operations() []*OperationPart { return d.operations }

// Operation selects the named operation, or the sole operation when name is
// empty and the document declares exactly one.
func (d *DocumentPart) Operation(name string) *OperationPart {
	if name == "" && len(d.operations) == 1 {
		return d.operations[0]
	}
	return d.opsByName[name]
}

func (d *DocumentPart) Fragments() *NamedFragmentCollection { return d.fragments }
func (d *DocumentPart) Spreads() *FragmentSpreadCollection  { return d.spreads }

// OperationPart is one executable operation of the document. It observes its
// descendants to maintain the variable index.
type OperationPart struct {
	partBase

	name          string
	operationType language.Operation
	variables     *VariableCollection
	directives    []*DirectivePart
	selectionSet  *FieldSelectionSetPart
}

func NewOperationPart(name string, opType language.Operation, rootType *schema.Type, origin SourceLocation) *OperationPart {
	o := &OperationPart{
		name:          name,
		operationType: opType,
		variables:     NewVariableCollection(),
	}
	o.init(o, KindOperation, origin)
	o.graphType = rootType
	return o
}

func (o *OperationPart) OnDescendantAdded(child Part, _ int) {
	switch p := child.(type) {
	case *VariablePart:
		if !o.variables.Add(p) {
			doc, _ := o.Parent().(*DocumentPart)
			if doc != nil {
				doc.Messages.AddCritical("5.8.1", "variable $%s is declared more than once", p.Name())
			}
		}
	case *DirectivePart:
		if p.Parent() == o {
			o.directives = append(o.directives, p)
		}
	}
}

func (o *OperationPart) Name() string                     { return o.name }
func (o *OperationPart) OperationType() language.Operation { return o.operationType }
func (o *OperationPart) Variables() *VariableCollection   { return o.variables }
func (o *OperationPart) Directives() []*DirectivePart     { return o.directives }

// SelectionSet returns the operation's field selection set. The builder
// attaches exactly one.
func (o *OperationPart) SelectionSet() *FieldSelectionSetPart { return o.selectionSet }

func (o *OperationPart) pathSegment() string {
	seg := "[" + string(o.operationType) + "]"
	if o.name != "" {
		seg += "/" + o.name
	}
	return seg
}
