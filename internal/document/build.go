package document

import (
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// Build walks a parsed query document once and constructs the validated part
// tree against the schema. Construction never fails hard: structural problems
// accumulate as critical messages on the returned document, leaving the
// caller to decide how to surface them.
func Build(doc *language.QueryDocument, sch *schema.Schema) *DocumentPart {
	b := &builder{schema: sch}
	root := NewDocumentPart()
	b.doc = root

	for _, frag := range doc.Fragments {
		b.buildNamedFragment(root, frag)
	}
	for _, op := range doc.Operations {
		b.buildOperation(root, op)
	}

	// Fragments may be declared after the operations that spread them, so
	// spreads resolve in a second pass over the collected back-references.
	for _, sp := range root.Spreads().All() {
		frag := root.Fragments().Find(sp.FragmentName())
		if frag == nil {
			root.Messages.AddCritical("5.5.2.1", "unknown fragment %q", sp.FragmentName())
			continue
		}
		sp.AssignNamedFragment(frag)
	}
	return root
}

type builder struct {
	schema *schema.Schema
	doc    *DocumentPart
}

func (b *builder) buildOperation(root *DocumentPart, op *language.OperationDefinition) {
	var rootType *schema.Type
	switch op.Operation {
	case language.Query:
		rootType = b.schema.GetQueryType()
	case language.Mutation:
		rootType = b.schema.GetMutationType()
	case language.Subscription:
		rootType = b.schema.GetSubscriptionType()
	}
	part := NewOperationPart(op.Name, op.Operation, rootType, locationOf(op.Position))
	Attach(root, part)

	if rootType == nil {
		root.Messages.AddCriticalAt(op.Position, "5.2.3.1",
			"the schema does not support %s operations", op.Operation)
	}

	for _, vd := range op.VariableDefinitions {
		Attach(part, NewVariablePart(vd.Variable, vd.Type, vd.DefaultValue, locationOf(vd.Position)))
	}
	for _, dir := range op.Directives {
		b.buildDirective(part, dir)
	}
	part.selectionSet = b.buildSelectionSet(part, op.SelectionSet, rootType)
}

func (b *builder) buildNamedFragment(root *DocumentPart, frag *language.FragmentDefinition) {
	condType := b.schema.FindGraphType(frag.TypeCondition)
	if condType == nil {
		root.Messages.AddCriticalAt(frag.Position, "5.5.1.2",
			"fragment %q targets unknown type %q", frag.Name, frag.TypeCondition)
	}
	part := NewNamedFragmentPart(frag.Name, frag.TypeCondition, condType, locationOf(frag.Position))
	Attach(root, part)

	for _, dir := range frag.Directives {
		b.buildDirective(part, dir)
	}
	part.selectionSet = b.buildSelectionSet(part, frag.SelectionSet, condType)
}

func (b *builder) buildSelectionSet(owner Part, selSet language.SelectionSet, parentType *schema.Type) *FieldSelectionSetPart {
	set := NewFieldSelectionSetPart(parentType, SourceLocation{})
	Attach(owner, set)

	for _, sel := range selSet {
		switch s := sel.(type) {
		case *language.Field:
			b.buildField(set, s, parentType)
		case *language.InlineFragment:
			b.buildInlineFragment(set, s, parentType)
		case *language.FragmentSpread:
			sp := NewFragmentSpreadPart(s.Name, locationOf(s.Position))
			Attach(set, sp)
			for _, dir := range s.Directives {
				b.buildDirective(sp, dir)
			}
		}
	}
	return set
}

func (b *builder) buildField(set *FieldSelectionSetPart, f *language.Field, parentType *schema.Type) {
	var fieldDef *schema.Field
	var fieldType *schema.Type
	switch {
	case f.Name == "__typename":
		fieldType = b.schema.FindGraphType("String")
	case parentType != nil:
		fieldDef = parentType.FindField(f.Name)
		if fieldDef == nil {
			b.doc.Messages.AddCriticalAt(f.Position, "5.3.1",
				"cannot query field %q on type %q", f.Name, parentType.Name)
		} else {
			fieldType = b.schema.FindGraphType(fieldDef.Type.GetNamedType())
		}
	}

	part := NewFieldPart(f.Name, f.Alias, fieldDef, fieldType, locationOf(f.Position))
	Attach(set, part)

	for _, arg := range f.Arguments {
		part.arguments = append(part.arguments, b.buildArgument(part, arg))
	}
	for _, dir := range f.Directives {
		b.buildDirective(part, dir)
	}

	if len(f.SelectionSet) > 0 {
		part.selectionSet = b.buildSelectionSet(part, f.SelectionSet, fieldType)
	} else if fieldType != nil && !fieldType.IsLeaf() {
		b.doc.Messages.AddCriticalAt(f.Position, "5.3.3",
			"field %q of type %q must have a selection of subfields", f.Name, fieldType.Name)
	}
}

func (b *builder) buildInlineFragment(set *FieldSelectionSetPart, f *language.InlineFragment, parentType *schema.Type) {
	condType := parentType
	if f.TypeCondition != "" {
		condType = b.schema.FindGraphType(f.TypeCondition)
		if condType == nil {
			b.doc.Messages.AddCriticalAt(f.Position, "5.5.1.2",
				"inline fragment targets unknown type %q", f.TypeCondition)
		}
	}
	part := NewInlineFragmentPart(f.TypeCondition, condType, locationOf(f.Position))
	Attach(set, part)

	for _, dir := range f.Directives {
		b.buildDirective(part, dir)
	}
	part.selectionSet = b.buildSelectionSet(part, f.SelectionSet, condType)
}

func (b *builder) buildDirective(target Part, dir *language.Directive) {
	part := NewDirectivePart(dir.Name, locationOf(dir.Position))
	Attach(target, part)
	for _, arg := range dir.Arguments {
		part.arguments = append(part.arguments, b.buildArgument(part, arg))
	}

	switch t := target.(type) {
	case *FieldPart:
		t.directives = append(t.directives, part)
	case *InlineFragmentPart:
		t.directives = append(t.directives, part)
	case *FragmentSpreadPart:
		t.directives = append(t.directives, part)
	case *NamedFragmentPart:
		t.directives = append(t.directives, part)
	}
}

func (b *builder) buildArgument(owner Part, arg *language.Argument) *InputArgumentPart {
	part := NewInputArgumentPart(arg.Name, locationOf(arg.Position))
	Attach(owner, part)
	part.value = b.buildSuppliedValue(part, arg.Value)
	return part
}

func (b *builder) buildSuppliedValue(owner Part, val *language.Value) *SuppliedValuePart {
	part := NewSuppliedValuePart(val, locationOf(positionOf(val)))
	Attach(owner, part)
	if val != nil && val.Kind == language.ObjectValue {
		for _, child := range val.Children {
			fieldPart := NewInputObjectFieldPart(child.Name, locationOf(positionOf(child.Value)))
			Attach(part, fieldPart)
			fieldPart.value = b.buildSuppliedValue(fieldPart, child.Value)
		}
	}
	return part
}

func positionOf(val *language.Value) *language.Position {
	if val == nil {
		return nil
	}
	return val.Position
}
