package document

import (
	"strings"
	"testing"

	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

const documentTestSDL = `
type Query {
  simple: Simple
  node: Node
}

type Simple {
  simpleQueryMethod: Method
}

type Method {
  property1: String
  property2: Float
}

type Node {
  id: ID
  next: Node
}
`

func buildTestDocument(t *testing.T, query string) *DocumentPart {
	t.Helper()
	qdoc, err := language.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Build(qdoc, schema.MustBuildFromSDL(documentTestSDL))
}

func TestBuildIndexesOperationsAndFragments(t *testing.T) {
	doc := buildTestDocument(t, `
		query GetSimple { simple { ...methodHolder } }
		query Other { simple { simpleQueryMethod { property2 } } }
		fragment methodHolder on Simple { simpleQueryMethod { property1 } }
	`)

	if !doc.Messages.Ok() {
		t.Fatalf("unexpected messages: %+v", doc.Messages.Items())
	}
	if len(doc.Operations()) != 2 {
		t.Fatalf("indexed %d operations, want 2", len(doc.Operations()))
	}
	if doc.Operation("GetSimple") == nil || doc.Operation("Other") == nil {
		t.Fatalf("operations not addressable by name")
	}
	if doc.Operation("") != nil {
		t.Fatalf("empty name should not select among multiple operations")
	}

	frag := doc.Fragments().Find("methodHolder")
	if frag == nil {
		t.Fatalf("fragment not indexed")
	}
	spreads := doc.Spreads().FindByName("methodHolder")
	if len(spreads) != 1 {
		t.Fatalf("indexed %d spreads, want 1", len(spreads))
	}
	if spreads[0].Fragment() != frag {
		t.Fatalf("spread not resolved to its fragment")
	}
	if len(frag.Spreads().All()) != 1 {
		t.Fatalf("fragment missing spread back-reference")
	}
}

func TestBuildDuplicateNamesAreCritical(t *testing.T) {
	doc := buildTestDocument(t, `
		query Dup { simple { simpleQueryMethod { property1 } } }
		query Dup { simple { simpleQueryMethod { property2 } } }
		fragment f on Method { property1 }
		fragment f on Method { property2 }
	`)

	if doc.Messages.Ok() {
		t.Fatalf("duplicate names should produce critical messages")
	}
	// first declaration wins; the duplicate lands in overflow
	if doc.Fragments().IsUnique("f") {
		t.Fatalf("fragment overflow not tracked")
	}
	if len(doc.Fragments().Overflow("f")) != 1 {
		t.Fatalf("overflow count = %d, want 1", len(doc.Fragments().Overflow("f")))
	}
}

func TestUnknownFragmentSpreadIsCritical(t *testing.T) {
	doc := buildTestDocument(t, `{ simple { ...nothing } }`)
	if doc.Messages.Ok() {
		t.Fatalf("unknown fragment should be critical")
	}
	found := false
	for _, m := range doc.Messages.Items() {
		if strings.Contains(m.Text, `"nothing"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("message should name the fragment: %+v", doc.Messages.Items())
	}
}

func fieldByName(t *testing.T, root Part, name string) *FieldPart {
	t.Helper()
	var found *FieldPart
	var walk func(p Part)
	walk = func(p Part) {
		if f, ok := p.(*FieldPart); ok && f.Name() == name && found == nil {
			found = f
			return
		}
		for _, c := range p.Children() {
			walk(c)
		}
	}
	walk(root)
	if found == nil {
		t.Fatalf("no field named %q", name)
	}
	return found
}

func TestPartPathsAreStableAcrossInclusionChanges(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op { simple { simpleQueryMethod { property1 property2 } } }
	`)

	p1 := fieldByName(t, doc, "property1")
	want := "[query]/Op/simple/simpleQueryMethod/property1"
	if got := p1.Path(); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}

	// toggling inclusion anywhere must not move any cached path
	p2 := fieldByName(t, doc, "property2")
	p2.SetIncluded(false)
	simple := fieldByName(t, doc, "simple")
	simple.SetIncluded(false)
	simple.SetIncluded(true)

	if got := p1.Path(); got != want {
		t.Fatalf("path changed to %q after inclusion toggles", got)
	}
	if got := p2.Path(); got != "[query]/Op/simple/simpleQueryMethod/property2" {
		t.Fatalf("excluded field path = %q", got)
	}
}

func TestAttachRefusesReparenting(t *testing.T) {
	doc := buildTestDocument(t, `query Op { simple { simpleQueryMethod { property1 } } }`)
	field := fieldByName(t, doc, "property1")

	defer func() {
		if recover() == nil {
			t.Fatalf("re-attaching an owned part should panic")
		}
	}()
	Attach(doc, field)
}

func TestExecutableFieldSetRebuildsLazily(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op { simple { simpleQueryMethod { property1 property2 } } }
	`)
	method := fieldByName(t, doc, "simpleQueryMethod")
	set := method.SelectionSet()

	if got := len(set.ExecutableFields().Fields()); got != 2 {
		t.Fatalf("flattened %d fields, want 2", got)
	}
	rebuilds := set.ExecutableFields().Rebuilds()

	// repeated reads with no changes hit the cache
	set.ExecutableFields()
	set.ExecutableFields()
	if got := set.ExecutableFields().Rebuilds(); got != rebuilds {
		t.Fatalf("rebuild count rose to %d on cached reads", got)
	}

	// a burst of toggles costs exactly one rebuild at the next read
	p1 := fieldByName(t, doc, "property1")
	p2 := fieldByName(t, doc, "property2")
	p1.SetIncluded(false)
	p2.SetIncluded(false)
	p1.SetIncluded(true)
	if got := set.ExecutableFields().Rebuilds(); got != rebuilds+1 {
		t.Fatalf("rebuild count = %d, want %d", got, rebuilds+1)
	}

	included := set.ExecutableFields().IncludedOnly()
	if len(included) != 1 || included[0].Field.Name() != "property1" {
		t.Fatalf("unexpected included set: %+v", included)
	}

	// setting a flag to its current value is a no-op and keeps the cache
	p2.SetIncluded(false)
	if got := set.ExecutableFields().Rebuilds(); got != rebuilds+1 {
		t.Fatalf("no-op toggle invalidated the cache: rebuilds = %d", got)
	}
}

func TestExecutableInclusionIsToggleOrderInvariant(t *testing.T) {
	build := func() (*DocumentPart, *FieldSelectionSetPart) {
		doc := buildTestDocument(t, `
			query Op { simple { simpleQueryMethod { property1 property2 } } }
		`)
		return doc, fieldByName(t, doc, "simpleQueryMethod").SelectionSet()
	}

	includedNames := func(set *FieldSelectionSetPart) []string {
		var names []string
		for _, ef := range set.ExecutableFields().IncludedOnly() {
			names = append(names, ef.Field.Name())
		}
		return names
	}

	docA, setA := build()
	fieldByName(t, docA, "property1").SetIncluded(false)
	fieldByName(t, docA, "property2").SetIncluded(false)
	fieldByName(t, docA, "property2").SetIncluded(true)

	docB, setB := build()
	fieldByName(t, docB, "property2").SetIncluded(false)
	fieldByName(t, docB, "property1").SetIncluded(false)
	fieldByName(t, docB, "property2").SetIncluded(true)

	a, b := includedNames(setA), includedNames(setB)
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] || a[0] != "property2" {
		t.Fatalf("toggle order changed the outcome: %v vs %v", a, b)
	}
}

func TestGovernorChainComposesByAnd(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op { simple { ...methodHolder } }
		fragment methodHolder on Simple { simpleQueryMethod { property1 } }
	`)

	simple := fieldByName(t, doc, "simple")
	set := simple.SelectionSet()
	fields := set.ExecutableFields().Fields()
	if len(fields) != 1 {
		t.Fatalf("flattened %d fields, want 1", len(fields))
	}
	ef := fields[0]
	// governors: the spread, the named fragment, and the field itself
	if len(ef.Governors) != 3 {
		t.Fatalf("governor chain length = %d, want 3", len(ef.Governors))
	}
	if !ef.Included() {
		t.Fatalf("field should start included")
	}

	spread := doc.Spreads().FindByName("methodHolder")[0]
	spread.SetIncluded(false)
	if set.ExecutableFields().Fields()[0].Included() {
		t.Fatalf("excluded spread should exclude the field")
	}

	spread.SetIncluded(true)
	frag := doc.Fragments().Find("methodHolder")
	frag.SetIncluded(false)
	if set.ExecutableFields().Fields()[0].Included() {
		t.Fatalf("excluded fragment should exclude the field at its spread site")
	}

	frag.SetIncluded(true)
	if !set.ExecutableFields().Fields()[0].Included() {
		t.Fatalf("field should be included again")
	}
}

func TestExecutableFragmentCycleTerminates(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op { node { ...partA } }
		fragment partA on Node { id ...partB }
		fragment partB on Node { next { id } ...partA }
	`)

	node := fieldByName(t, doc, "node")
	fields := node.SelectionSet().ExecutableFields().Fields()

	// partA contributes id; partB contributes next; the cyclic re-entry of
	// partA stops at the visiting guard
	names := map[string]int{}
	for _, ef := range fields {
		names[ef.Field.Name()]++
	}
	if names["id"] != 1 || names["next"] != 1 {
		t.Fatalf("unexpected flattening across fragment cycle: %v", names)
	}
}

func TestExecutableFieldsCarryTypeConditions(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op { simple { ... on Simple { simpleQueryMethod { property1 } } } }
	`)
	simple := fieldByName(t, doc, "simple")
	fields := simple.SelectionSet().ExecutableFields().Fields()
	if len(fields) != 1 {
		t.Fatalf("flattened %d fields, want 1", len(fields))
	}
	conds := fields[0].TypeConditions
	if len(conds) != 1 || conds[0] != "Simple" {
		t.Fatalf("type conditions = %v, want [Simple]", conds)
	}
}

func TestVariableIndexing(t *testing.T) {
	doc := buildTestDocument(t, `
		query Op($a: String, $b: Float) { simple { simpleQueryMethod { property1 } } }
	`)
	op := doc.Operation("Op")
	if op.Variables().Count() != 2 {
		t.Fatalf("indexed %d variables, want 2", op.Variables().Count())
	}
	if op.Variables().Find("a") == nil || op.Variables().Find("b") == nil {
		t.Fatalf("variables not addressable by name")
	}
	if got := op.Variables().Find("a").Path(); got != "[query]/Op/$a" {
		t.Fatalf("variable path = %q", got)
	}
}
