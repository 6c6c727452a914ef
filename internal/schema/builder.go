package schema

import (
	"fmt"

	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
)

// Build constructs an executable schema from a parsed SDL document. Type
// extensions are merged into their base definitions. The @batched and
// @virtual field directives are consumed here and stripped from the
// resulting descriptors.
func Build(doc *language.SchemaDocument) (*Schema, error) {
	s := &Schema{
		QueryType: "Query",
		Types:     make(map[string]*Type),
		Directives: map[string]*Directive{
			includeDirective.Name: includeDirective,
			skipDirective.Name:    skipDirective,
		},
	}
	for _, t := range builtinScalars() {
		s.Types[t.Name] = t
	}

	for _, schemaDef := range doc.Schema {
		s.Description = schemaDef.Description
		for _, op := range schemaDef.OperationTypes {
			switch op.Operation {
			case language.Query:
				s.QueryType = op.Type
			case language.Mutation:
				s.MutationType = op.Type
			case language.Subscription:
				s.SubscriptionType = op.Type
			}
		}
	}

	defs := append(language.DefinitionList{}, doc.Definitions...)
	defs = append(defs, doc.Extensions...)
	for _, def := range defs {
		existing := s.Types[def.Name]
		if existing == nil {
			existing = &Type{Name: def.Name, Kind: kindFromDefinition(def.Kind), Description: def.Description}
			s.Types[def.Name] = existing
		}
		if err := mergeDefinition(existing, def); err != nil {
			return nil, err
		}
	}

	for _, dir := range doc.Directives {
		s.Directives[dir.Name] = buildDirective(dir)
	}

	// Derive possible types for interfaces from the object side.
	for _, t := range s.Types {
		if t.Kind != TypeKindObject {
			continue
		}
		for _, ifaceName := range t.Interfaces {
			if iface := s.Types[ifaceName]; iface != nil {
				iface.PossibleTypes = append(iface.PossibleTypes, t.Name)
			}
		}
	}

	// Conventional default: "Subscription" acts as the subscription root when
	// declared but not named by a schema block.
	if s.SubscriptionType == "" && s.Types["Subscription"] != nil {
		s.SubscriptionType = "Subscription"
	}
	if s.MutationType == "" && s.Types["Mutation"] != nil {
		s.MutationType = "Mutation"
	}

	if s.Types[s.QueryType] == nil {
		return nil, fmt.Errorf("schema does not define the root query type %q", s.QueryType)
	}
	return s, nil
}

// BuildFromSDL parses the SDL string and builds the schema from it.
func BuildFromSDL(sdl string) (*Schema, error) {
	doc, err := language.ParseSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// MustBuildFromSDL is BuildFromSDL that panics on error; intended for tests
// and examples with literal SDL.
func MustBuildFromSDL(sdl string) *Schema {
	s, err := BuildFromSDL(sdl)
	if err != nil {
		panic(err)
	}
	return s
}

func kindFromDefinition(k language.DefinitionKind) TypeKind {
	switch k {
	case language.Object:
		return TypeKindObject
	case language.Interface:
		return TypeKindInterface
	case language.Union:
		return TypeKindUnion
	case language.Enum:
		return TypeKindEnum
	case language.InputObject:
		return TypeKindInputObject
	default:
		return TypeKindScalar
	}
}

func mergeDefinition(t *Type, def *language.Definition) error {
	if kindFromDefinition(def.Kind) != t.Kind {
		return fmt.Errorf("type %q redeclared as a different kind", def.Name)
	}
	for _, iface := range def.Interfaces {
		t.Interfaces = append(t.Interfaces, iface)
	}
	for _, member := range def.Types {
		t.PossibleTypes = append(t.PossibleTypes, member)
	}
	for _, fd := range def.Fields {
		if t.FindField(fd.Name) != nil {
			return fmt.Errorf("type %q declares field %q more than once", def.Name, fd.Name)
		}
		t.Fields = append(t.Fields, buildField(fd))
	}
	for _, ev := range def.EnumValues {
		t.EnumValues = append(t.EnumValues, &EnumValue{Name: ev.Name, Description: ev.Description})
	}
	if def.Kind == language.InputObject {
		for _, fd := range def.Fields {
			// gqlparser surfaces input fields as field definitions.
			t.InputFields = append(t.InputFields, &InputValue{
				Name:         fd.Name,
				Description:  fd.Description,
				Type:         typeRefFromAST(fd.Type),
				DefaultValue: astDefaultValue(fd.DefaultValue),
			})
		}
		t.Fields = nil
	}
	return nil
}

func buildField(fd *language.FieldDefinition) *Field {
	f := &Field{
		Name:        fd.Name,
		Description: fd.Description,
		Type:        typeRefFromAST(fd.Type),
	}
	for _, ad := range fd.Arguments {
		f.Arguments = append(f.Arguments, &InputValue{
			Name:         ad.Name,
			Description:  ad.Description,
			Type:         typeRefFromAST(ad.Type),
			DefaultValue: astDefaultValue(ad.DefaultValue),
		})
	}
	for _, dir := range fd.Directives {
		switch dir.Name {
		case "batched":
			f.Batched = true
		case "virtual":
			f.Virtual = true
		case "deprecated":
			f.IsDeprecated = true
			if arg := dir.Arguments.ForName("reason"); arg != nil {
				f.DeprecationReason = arg.Value.Raw
			}
		}
	}
	return f
}

func buildDirective(dd *language.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         dd.Name,
		Description:  dd.Description,
		IsRepeatable: dd.IsRepeatable,
	}
	for _, loc := range dd.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, ad := range dd.Arguments {
		d.Arguments = append(d.Arguments, &InputValue{
			Name:         ad.Name,
			Description:  ad.Description,
			Type:         typeRefFromAST(ad.Type),
			DefaultValue: astDefaultValue(ad.DefaultValue),
		})
	}
	return d
}

func typeRefFromAST(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	return ListType(typeRefFromAST(t.Elem))
}

func astDefaultValue(v *language.Value) any {
	if v == nil {
		return nil
	}
	val, err := v.Value(nil)
	if err != nil {
		return nil
	}
	return val
}
