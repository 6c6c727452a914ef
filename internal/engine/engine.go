package engine

import (
	"context"
	"fmt"

	document "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/document"
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	messages "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/messages"
	resolution "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/resolution"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// Engine executes query documents against a schema by driving per-field
// resolution through a Resolver and assembling the resolution items into a
// response tree.
type Engine struct {
	resolver Resolver
	schema   *schema.Schema
}

func New(resolver Resolver, sch *schema.Schema) *Engine {
	return &Engine{resolver: resolver, schema: sch}
}

func (e *Engine) Schema() *schema.Schema { return e.schema }

// BuildDocument constructs the validated document part tree for a parsed
// query.
func (e *Engine) BuildDocument(qdoc *language.QueryDocument) *document.DocumentPart {
	return document.Build(qdoc, e.schema)
}

// ExecuteRequest builds the document for a parsed query and executes the
// selected operation.
func (e *Engine) ExecuteRequest(ctx context.Context, qdoc *language.QueryDocument, operationName string, variables map[string]any, initialValue any) *Response {
	doc := document.Build(qdoc, e.schema)
	return e.ExecuteDocument(ctx, doc, operationName, variables, initialValue)
}

// ExecuteDocument executes one operation of an already constructed document.
// Subscription fan-out re-enters here with the event payload as initialValue.
func (e *Engine) ExecuteDocument(ctx context.Context, doc *document.DocumentPart, operationName string, variables map[string]any, initialValue any) *Response {
	if doc.Messages.HasCriticals() {
		return responseFromMessages(doc.Messages)
	}
	op := doc.Operation(operationName)
	if op == nil {
		return &Response{Errors: []GraphQLError{{Message: "operation not found"}}}
	}
	if op.GraphType() == nil {
		return &Response{Errors: []GraphQLError{{Message: fmt.Sprintf("the schema does not support %s operations", op.OperationType())}}}
	}

	coerced, err := coerceVariableValues(e.schema, op, variables)
	if err != nil {
		return &Response{Errors: []GraphQLError{{Message: err.Error()}}}
	}

	s := &executionState{
		ctx:       ctx,
		resolver:  e.resolver,
		schema:    e.schema,
		variables: coerced,
	}

	applyInclusionDirectives(s, doc)

	rootItem := resolution.NewFieldDataItem("data", nil, false, op.Path(), initialValue)
	s.resolveLevel(
		[]*document.FieldSelectionSetPart{op.SelectionSet()},
		op.GraphType(),
		[]parentSlot{{item: rootItem, source: initialValue}},
	)
	rootItem.Complete()

	node, _, genErr := rootItem.GenerateResult(&ctxSerializer{ctx: ctx, resolver: e.resolver})
	if genErr != nil {
		s.addError(genErr.Error(), nil)
		return &Response{Errors: s.errors}
	}
	return &Response{Data: node.Flatten(), Errors: s.errors}
}

func responseFromMessages(coll *messages.Collection) *Response {
	var errs []GraphQLError
	for _, m := range coll.Items() {
		if m.Severity != messages.SeverityCritical {
			continue
		}
		ge := GraphQLError{Message: m.Text}
		if m.Code != "" {
			ge.Extensions = map[string]any{"code": m.Code}
		}
		errs = append(errs, ge)
	}
	return &Response{Errors: errs}
}

// executionState holds the per-request state.
type executionState struct {
	ctx       context.Context
	resolver  Resolver
	schema    *schema.Schema
	variables map[string]any
	errors    []GraphQLError
}

func (s *executionState) addError(message string, path []any) {
	s.errors = append(s.errors, GraphQLError{Message: message, Path: path})
}

// parentSlot is one source value awaiting child field resolution, together
// with the resolution item its children attach to.
type parentSlot struct {
	item   *resolution.FieldDataItem
	source any
	path   []any
}

// fieldGroup merges the executable fields sharing one response name across
// the selection sets being resolved together.
type fieldGroup struct {
	responseName string
	fields       []*document.ExecutableField
}

func mergeFieldGroups(s *executionState, sets []*document.FieldSelectionSetPart, objType *schema.Type) []fieldGroup {
	var groups []fieldGroup
	index := make(map[string]int)
	for _, set := range sets {
		if set == nil {
			continue
		}
		for _, ef := range set.ExecutableFields().IncludedOnly() {
			if !satisfiesAll(s.schema, objType, ef.TypeConditions) {
				continue
			}
			rn := ef.Field.ResponseName()
			if i, ok := index[rn]; ok {
				groups[i].fields = append(groups[i].fields, ef)
			} else {
				index[rn] = len(groups)
				groups = append(groups, fieldGroup{responseName: rn, fields: []*document.ExecutableField{ef}})
			}
		}
	}
	return groups
}

func satisfiesAll(sch *schema.Schema, objType *schema.Type, conditions []string) bool {
	for _, cond := range conditions {
		if !sch.Satisfies(objType, cond) {
			return false
		}
	}
	return true
}

func subSelectionSets(g fieldGroup) []*document.FieldSelectionSetPart {
	var sets []*document.FieldSelectionSetPart
	for _, ef := range g.fields {
		if ss := ef.Field.SelectionSet(); ss != nil {
			sets = append(sets, ss)
		}
	}
	return sets
}

// resolveLevel resolves every merged field group of the given selection sets
// for every parent slot at this level.
func (s *executionState) resolveLevel(sets []*document.FieldSelectionSetPart, objType *schema.Type, parents []parentSlot) {
	if objType == nil || len(parents) == 0 {
		return
	}
	for _, g := range mergeFieldGroups(s, sets, objType) {
		s.resolveFieldGroup(g, objType, parents)
	}
}

func (s *executionState) resolveFieldGroup(g fieldGroup, objType *schema.Type, parents []parentSlot) {
	primary := g.fields[0].Field

	if primary.Name() == "__typename" {
		for _, p := range parents {
			child := resolution.NewFieldDataItem(g.responseName, schema.NamedType("String"), true, p.item.Path()+"/"+g.responseName, p.source)
			child.AssignResult(objType.Name)
			child.Complete()
			if err := p.item.AddField(child); err != nil {
				s.addError(err.Error(), p.path)
			}
		}
		return
	}

	fieldDef := primary.FieldDefinition()
	if fieldDef == nil {
		s.addError(fmt.Sprintf("cannot query field %q on type %q", primary.Name(), objType.Name), appendPath(parents[0].path, g.responseName))
		return
	}

	args := coerceArgumentValues(s, fieldDef, primary, appendPath(parents[0].path, g.responseName))
	fieldType := s.schema.FindGraphType(fieldDef.Type.GetNamedType())
	leaf := fieldType != nil && fieldType.IsLeaf()

	children := make([]*resolution.FieldDataItem, len(parents))
	paths := make([][]any, len(parents))
	for i, p := range parents {
		child := resolution.NewFieldDataItem(g.responseName, fieldDef.Type, leaf, p.item.Path()+"/"+g.responseName, p.source)
		children[i] = child
		paths[i] = appendPath(p.path, g.responseName)
		if err := p.item.AddField(child); err != nil {
			s.addError(err.Error(), paths[i])
		}
	}

	if s.ctx.Err() != nil {
		// cancellation stops scheduling; nothing in flight is aborted
		for _, c := range children {
			c.Cancel()
		}
		return
	}

	if fieldDef.Batched {
		sources := make([]any, len(parents))
		for i, p := range parents {
			sources[i] = p.source
		}
		batch, err := s.resolver.ResolveBatch(s.ctx, objType.Name, primary.Name(), sources, args)
		if err != nil {
			for i, c := range children {
				c.Fail()
				s.addError(err.Error(), paths[i])
			}
		} else {
			for i, c := range children {
				data, _, xerr := resolution.ExtractBatchItem(batch, parents[i].source, fieldDef.Type)
				if xerr != nil {
					c.Fail()
					s.addError(xerr.Error(), paths[i])
					continue
				}
				c.AssignResult(data)
			}
		}
	} else {
		for i, c := range children {
			data, err := s.resolver.ResolveField(s.ctx, objType.Name, primary.Name(), parents[i].source, args)
			if err != nil {
				c.Fail()
				s.addError(err.Error(), paths[i])
				continue
			}
			c.AssignResult(data)
		}
	}

	if leaf || fieldType == nil {
		for _, c := range children {
			completeDeep(c)
		}
		return
	}

	// Non-leaf: fan down into each resolved element.
	var elements []parentSlot
	for i, c := range children {
		if c.Status().IsFinalized() {
			continue
		}
		collectElementSlots(c, paths[i], &elements)
	}

	var live []parentSlot
	for _, el := range elements {
		if r, ok := el.item.ResultData(); ok && r != nil {
			el.item.RequireChildResolution()
			el.source = r
			live = append(live, el)
		}
	}

	subSets := subSelectionSets(g)
	if fieldType.IsAbstract() {
		s.resolveAbstractLevel(subSets, fieldType, live)
	} else {
		s.resolveLevel(subSets, fieldType, live)
	}

	for _, c := range children {
		completeDeep(c)
	}
}

// resolveAbstractLevel resolves the concrete type of each element and
// recurses per concrete group.
func (s *executionState) resolveAbstractLevel(sets []*document.FieldSelectionSetPart, abstractType *schema.Type, elements []parentSlot) {
	byType := make(map[string][]parentSlot)
	var order []string
	for _, el := range elements {
		typeName, err := s.resolver.ResolveType(s.ctx, abstractType.Name, el.source)
		if err != nil {
			el.item.Fail()
			s.addError(err.Error(), el.path)
			continue
		}
		concrete := s.schema.FindGraphType(typeName)
		if concrete == nil || concrete.Kind != schema.TypeKindObject {
			el.item.Fail()
			s.addError(fmt.Sprintf("abstract type %s must resolve to an object type, got %q", abstractType.Name, typeName), el.path)
			continue
		}
		if _, ok := byType[typeName]; !ok {
			order = append(order, typeName)
		}
		byType[typeName] = append(byType[typeName], el)
	}
	for _, typeName := range order {
		s.resolveLevel(sets, s.schema.FindGraphType(typeName), byType[typeName])
	}
}

// collectElementSlots walks down through the list fan-out of one item and
// appends a slot per innermost element, tracking list indexes on the path.
func collectElementSlots(item *resolution.FieldDataItem, path []any, out *[]parentSlot) {
	if listItems := item.ListItems(); listItems != nil {
		for idx, li := range listItems {
			collectElementSlots(li, appendPath(path, idx), out)
		}
		return
	}
	*out = append(*out, parentSlot{item: item, path: path})
}

// completeDeep promotes the item and its list fan-out to Complete where the
// allow-table permits; failed or cancelled branches stay as they are.
func completeDeep(item *resolution.FieldDataItem) {
	for _, li := range item.ListItems() {
		completeDeep(li)
	}
	item.Complete()
}

func appendPath(path []any, elem any) []any {
	out := make([]any, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}

// ctxSerializer adapts the Resolver's leaf serialization to the resolution
// package's serializer seam.
type ctxSerializer struct {
	ctx      context.Context
	resolver Resolver
}

func (c *ctxSerializer) SerializeLeaf(typeName string, value any) (any, error) {
	return c.resolver.SerializeLeaf(c.ctx, typeName, value)
}
