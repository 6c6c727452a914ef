package document

import (
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// DirectivePart is one directive applied to a field, fragment, spread or
// operation. Execution of the directive (deciding inclusion policy) lives
// outside the document model; the part only carries name and arguments.
type DirectivePart struct {
	partBase

	name      string
	arguments []*InputArgumentPart
}

func NewDirectivePart(name string, origin SourceLocation) *DirectivePart {
	d := &DirectivePart{name: name}
	d.init(d, KindDirective, origin)
	return d
}

func (d *DirectivePart) Name() string                  { return d.name }
func (d *DirectivePart) Arguments() []*InputArgumentPart { return d.arguments }

func (d *DirectivePart) Argument(name string) *InputArgumentPart {
	for _, a := range d.arguments {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Target returns the part this directive decorates.
func (d *DirectivePart) Target() Part { return d.Parent() }

func (d *DirectivePart) pathSegment() string { return "@" + d.name }

// VariablePart declares one operation variable.
type VariablePart struct {
	partBase

	name         string
	declaredType *language.Type
	defaultValue *language.Value
}

func NewVariablePart(name string, declaredType *language.Type, defaultValue *language.Value, origin SourceLocation) *VariablePart {
	v := &VariablePart{name: name, declaredType: declaredType, defaultValue: defaultValue}
	v.init(v, KindVariable, origin)
	return v
}

func (v *VariablePart) Name() string                  { return v.name }
func (v *VariablePart) DeclaredType() *language.Type  { return v.declaredType }
func (v *VariablePart) DefaultValue() *language.Value { return v.defaultValue }

// TypeExpression converts the declared AST type into a schema type reference.
func (v *VariablePart) TypeExpression() *schema.TypeRef {
	return typeRefFromAST(v.declaredType)
}

func (v *VariablePart) pathSegment() string { return "$" + v.name }

// InputArgumentPart is a named argument supplied to a field or directive.
type InputArgumentPart struct {
	partBase

	name  string
	value *SuppliedValuePart
}

func NewInputArgumentPart(name string, origin SourceLocation) *InputArgumentPart {
	a := &InputArgumentPart{name: name}
	a.init(a, KindInputArgument, origin)
	return a
}

func (a *InputArgumentPart) Name() string              { return a.name }
func (a *InputArgumentPart) Value() *SuppliedValuePart { return a.value }

func (a *InputArgumentPart) pathSegment() string { return a.name }

// InputObjectFieldPart is one field of an object-shaped supplied value.
type InputObjectFieldPart struct {
	partBase

	name  string
	value *SuppliedValuePart
}

func NewInputObjectFieldPart(name string, origin SourceLocation) *InputObjectFieldPart {
	f := &InputObjectFieldPart{name: name}
	f.init(f, KindInputObjectField, origin)
	return f
}

func (f *InputObjectFieldPart) Name() string              { return f.name }
func (f *InputObjectFieldPart) Value() *SuppliedValuePart { return f.value }

func (f *InputObjectFieldPart) pathSegment() string { return f.name }

// SuppliedValuePart wraps one literal, variable reference, list or input
// object supplied in the query text. Object values decompose into
// InputObjectFieldPart children; everything else keeps the raw AST value.
type SuppliedValuePart struct {
	partBase

	raw *language.Value
}

func NewSuppliedValuePart(raw *language.Value, origin SourceLocation) *SuppliedValuePart {
	v := &SuppliedValuePart{raw: raw}
	v.init(v, KindSuppliedValue, origin)
	return v
}

func (v *SuppliedValuePart) RawValue() *language.Value { return v.raw }

// IsVariableReference reports whether the supplied value defers to an
// operation variable.
func (v *SuppliedValuePart) IsVariableReference() bool {
	return v.raw != nil && v.raw.Kind == language.Variable
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return schema.NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return schema.NamedType(t.NamedType)
	}
	return schema.ListType(typeRefFromAST(t.Elem))
}
