package resolution

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

func TestAssignResultListFanOut(t *testing.T) {
	typeExpr := schema.ListType(schema.NamedType("Int"))
	it := NewFieldDataItem("numbers", typeExpr, true, "[query]/numbers", nil)
	it.AssignResult([]any{10, 20, 30})

	if got := it.Status(); got != StatusResultAssigned {
		t.Fatalf("status = %s, want ResultAssigned", got)
	}
	items := it.ListItems()
	if len(items) != 3 {
		t.Fatalf("fan-out produced %d items, want 3", len(items))
	}
	wantPaths := []string{"[query]/numbers[0]", "[query]/numbers[1]", "[query]/numbers[2]"}
	for i, child := range items {
		if child.Path() != wantPaths[i] {
			t.Errorf("item %d path = %q, want %q", i, child.Path(), wantPaths[i])
		}
		if got, _ := child.ResultData(); got != []any{10, 20, 30}[i] {
			t.Errorf("item %d result = %v", i, got)
		}
		// children inherit the parent's status at assignment time
		if child.Status() != StatusResultAssigned {
			t.Errorf("item %d status = %s, want ResultAssigned", i, child.Status())
		}
		if child.TypeExpression().String() != "Int" {
			t.Errorf("item %d type = %s, want Int", i, child.TypeExpression().String())
		}
	}
}

func TestAssignResultNestedListFanOut(t *testing.T) {
	typeExpr := schema.ListType(schema.ListType(schema.NamedType("Int")))
	it := NewFieldDataItem("matrix", typeExpr, true, "m", nil)
	it.AssignResult([]any{
		[]any{1, 2},
		[]any{3},
	})

	outer := it.ListItems()
	if len(outer) != 2 {
		t.Fatalf("outer fan-out produced %d items, want 2", len(outer))
	}
	if len(outer[0].ListItems()) != 2 || len(outer[1].ListItems()) != 1 {
		t.Fatalf("inner fan-out shape wrong: %d, %d", len(outer[0].ListItems()), len(outer[1].ListItems()))
	}
	if got := outer[0].ListItems()[1].Path(); got != "m[0][1]" {
		t.Fatalf("nested path = %q, want m[0][1]", got)
	}
}

func TestAssignResultFanOutInheritsCanceled(t *testing.T) {
	typeExpr := schema.ListType(schema.NamedType("Int"))
	it := NewFieldDataItem("numbers", typeExpr, true, "n", nil)
	it.Cancel()
	it.AssignResult([]any{1, 2})

	if got := it.Status(); got != StatusCanceled {
		t.Fatalf("parent status = %s, want Canceled", got)
	}
	for i, child := range it.ListItems() {
		if child.Status() != StatusCanceled {
			t.Errorf("item %d status = %s, want Canceled", i, child.Status())
		}
	}
}

func TestAssignResultReplacesChildren(t *testing.T) {
	typeExpr := schema.ListType(schema.NamedType("Int"))
	it := NewFieldDataItem("numbers", typeExpr, true, "n", nil)
	it.AssignResult([]any{1, 2, 3})
	it.AssignResult([]any{4})

	items := it.ListItems()
	if len(items) != 1 {
		t.Fatalf("second assignment left %d items, want 1", len(items))
	}
	if got, _ := items[0].ResultData(); got != 4 {
		t.Fatalf("item result = %v, want 4", got)
	}
}

func TestChildKindsAreMutuallyExclusive(t *testing.T) {
	it := NewFieldDataItem("obj", schema.NamedType("Thing"), false, "o", nil)
	if err := it.AddField(NewFieldDataItem("a", nil, true, "o/a", nil)); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := it.AddListItem(NewFieldDataItem("obj", nil, false, "o[0]", nil)); err == nil {
		t.Fatalf("AddListItem on field-shaped item should fail")
	}

	lst := NewFieldDataItem("lst", schema.ListType(schema.NamedType("Int")), true, "l", nil)
	lst.AssignResult([]any{1})
	if err := lst.AddField(NewFieldDataItem("a", nil, true, "l/a", nil)); err == nil {
		t.Fatalf("AddField on list-shaped item should fail")
	}
}

type passthroughSerializer struct{}

func (passthroughSerializer) SerializeLeaf(typeName string, value any) (any, error) {
	return value, nil
}

func TestGenerateResultOmitsUnprocessedAndCanceled(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)

	done := NewFieldDataItem("done", schema.NamedType("String"), true, "d/done", nil)
	done.AssignResult("ok")
	done.Complete()
	root.AddField(done)

	pending := NewFieldDataItem("pending", schema.NamedType("String"), true, "d/pending", nil)
	pending.AssignResult("never finished")
	root.AddField(pending)

	canceled := NewFieldDataItem("canceled", schema.NamedType("String"), true, "d/canceled", nil)
	canceled.Cancel()
	root.AddField(canceled)

	root.Complete()
	node, include, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}
	if !include {
		t.Fatalf("root should be includable")
	}

	want := map[string]any{"done": "ok"}
	if diff := cmp.Diff(want, node.Flatten()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResultFailedAndInvalidRenderNull(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)

	failed := NewFieldDataItem("failed", schema.NamedType("String"), true, "d/failed", nil)
	failed.Fail()
	root.AddField(failed)

	invalid := NewFieldDataItem("invalid", schema.NamedType("String"), true, "d/invalid", nil)
	invalid.AssignResult("stale")
	invalid.InvalidateResult()
	root.AddField(invalid)

	root.Complete()
	node, _, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}

	want := map[string]any{"failed": nil, "invalid": nil}
	if diff := cmp.Diff(want, node.Flatten()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResultInvalidatedFanOutRendersNull(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)

	lst := NewFieldDataItem("tags", schema.ListType(schema.NamedType("String")), true, "d/tags", nil)
	lst.AssignResult([]any{"a", "b"})
	lst.InvalidateResult()
	root.AddField(lst)

	obj := NewFieldDataItem("owner", schema.NamedType("User"), false, "d/owner", nil)
	name := NewFieldDataItem("name", schema.NamedType("String"), true, "d/owner/name", nil)
	name.AssignResult("stale")
	name.Complete()
	obj.AddField(name)
	obj.InvalidateResult()
	root.AddField(obj)

	root.Complete()
	node, _, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}

	want := map[string]any{"tags": nil, "owner": nil}
	if diff := cmp.Diff(want, node.Flatten()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResultDuplicateFieldName(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)
	for i := 0; i < 2; i++ {
		child := NewFieldDataItem("name", schema.NamedType("String"), true, "d/name", nil)
		child.AssignResult("x")
		child.Complete()
		root.AddField(child)
	}
	root.Complete()

	_, _, err := root.GenerateResult(passthroughSerializer{})
	dupErr, ok := err.(*DuplicateFieldError)
	if !ok {
		t.Fatalf("error = %v, want *DuplicateFieldError", err)
	}
	if dupErr.Name != "name" || dupErr.Path != "d" {
		t.Fatalf("unexpected error detail: %+v", dupErr)
	}
}

func TestGenerateResultDuplicateNameToleratedWhenOneIsOmitted(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)

	kept := NewFieldDataItem("name", schema.NamedType("String"), true, "d/name", nil)
	kept.AssignResult("x")
	kept.Complete()
	root.AddField(kept)

	dropped := NewFieldDataItem("name", schema.NamedType("String"), true, "d/name", nil)
	dropped.Cancel()
	root.AddField(dropped)

	root.Complete()
	node, _, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}
	want := map[string]any{"name": "x"}
	if diff := cmp.Diff(want, node.Flatten()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResultEmptyListStillRenders(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)
	lst := NewFieldDataItem("tags", schema.ListType(schema.NamedType("String")), true, "d/tags", nil)
	lst.AssignResult([]any{})
	lst.Complete()
	root.AddField(lst)
	root.Complete()

	node, _, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}
	want := map[string]any{"tags": []any{}}
	if diff := cmp.Diff(want, node.Flatten()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateResultFieldOrderIsDeclarationOrder(t *testing.T) {
	root := NewFieldDataItem("data", nil, false, "d", nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		child := NewFieldDataItem(name, schema.NamedType("String"), true, "d/"+name, nil)
		child.AssignResult(name)
		child.Complete()
		root.AddField(child)
	}
	root.Complete()

	node, _, err := root.GenerateResult(passthroughSerializer{})
	if err != nil {
		t.Fatalf("GenerateResult: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if diff := cmp.Diff(want, node.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractBatchItem(t *testing.T) {
	batch := map[any]any{
		"a": []any{1, 2},
		"b": 7,
		"c": nil,
	}

	listType := schema.ListType(schema.NamedType("Int"))
	scalarType := schema.NamedType("Int")

	got, ok, err := ExtractBatchItem(batch, "a", listType)
	if err != nil || !ok {
		t.Fatalf("extract a: %v ok=%v", err, ok)
	}
	if diff := cmp.Diff([]any{1, 2}, got); diff != "" {
		t.Fatalf("a mismatch:\n%s", diff)
	}

	// a lone value under a list-typed field wraps into a one-element list
	got, ok, err = ExtractBatchItem(batch, "b", listType)
	if err != nil || !ok {
		t.Fatalf("extract b: %v ok=%v", err, ok)
	}
	if diff := cmp.Diff([]any{7}, got); diff != "" {
		t.Fatalf("b mismatch:\n%s", diff)
	}

	// a list stored for a scalar-typed field collapses to its first element
	got, ok, err = ExtractBatchItem(batch, "a", scalarType)
	if err != nil || !ok {
		t.Fatalf("extract a scalar: %v ok=%v", err, ok)
	}
	if got != 1 {
		t.Fatalf("a scalar = %v, want 1", got)
	}

	// absent key renders null without error
	got, ok, err = ExtractBatchItem(batch, "missing", scalarType)
	if err != nil || ok || got != nil {
		t.Fatalf("missing key: got=%v ok=%v err=%v", got, ok, err)
	}

	if _, _, err := ExtractBatchItem([]any{"not a map"}, "a", scalarType); err == nil {
		t.Fatalf("non-map batch should error")
	}
}
