package resolution

import (
	"fmt"
)

// LeafSerializer converts a raw leaf value into its wire representation.
// Scalar serialization rules live outside this package.
type LeafSerializer interface {
	SerializeLeaf(typeName string, value any) (any, error)
}

// ResultKind discriminates the tagged union of response nodes.
type ResultKind int

const (
	ResultSingle ResultKind = iota
	ResultList
	ResultFieldSet
)

// ResultNode is one node of the serializable response tree: a single value,
// an ordered list, or a named field set.
type ResultNode struct {
	Kind   ResultKind
	Value  any
	Items  []*ResultNode
	Fields []ResultField
}

type ResultField struct {
	Name string
	Node *ResultNode
}

// Flatten converts the node into plain Go values suitable for JSON encoding.
func (n *ResultNode) Flatten() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ResultList:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.Flatten()
		}
		return out
	case ResultFieldSet:
		out := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			out[f.Name] = f.Node.Flatten()
		}
		return out
	default:
		return n.Value
	}
}

// FieldNames returns the field-set keys in declaration order, so callers can
// render deterministic output from the unordered map Flatten produces.
func (n *ResultNode) FieldNames() []string {
	names := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		names[i] = f.Name
	}
	return names
}

// DuplicateFieldError reports two resolved children materializing under the
// same output name for one source object: an ambiguous fragment-to-source
// mapping in the surrounding configuration, not a user input error.
type DuplicateFieldError struct {
	Name string
	Path string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("resolution: duplicate field name %q generated at %s", e.Name, e.Path)
}

// GenerateResult materializes the item (and recursively its children) into a
// response node. The second return is false when the item's slot should be
// omitted entirely from the output.
func (it *FieldDataItem) GenerateResult(ser LeafSerializer) (*ResultNode, bool, error) {
	if !it.status.IncludeInOutput() {
		return nil, false, nil
	}

	// Invalidation wins over anything a previous fan-out populated: once the
	// result is invalidated the slot renders as an explicit null.
	if it.status == StatusInvalid {
		return &ResultNode{Kind: ResultSingle, Value: nil}, true, nil
	}

	switch it.children.kind {
	case childrenFields:
		node := &ResultNode{Kind: ResultFieldSet}
		seen := make(map[string]bool, len(it.children.items))
		for _, child := range it.children.items {
			cn, include, err := child.GenerateResult(ser)
			if err != nil {
				return nil, false, err
			}
			if !include {
				continue
			}
			if seen[child.name] {
				return nil, false, &DuplicateFieldError{Name: child.name, Path: it.path}
			}
			seen[child.name] = true
			node.Fields = append(node.Fields, ResultField{Name: child.name, Node: cn})
		}
		return node, true, nil

	case childrenListItems:
		// an empty list still renders, distinguishing "returned nothing"
		// from "returned an empty collection"
		node := &ResultNode{Kind: ResultList, Items: []*ResultNode{}}
		for _, child := range it.children.items {
			cn, include, err := child.GenerateResult(ser)
			if err != nil {
				return nil, false, err
			}
			if include {
				node.Items = append(node.Items, cn)
			}
		}
		return node, true, nil
	}

	// No children. A null result renders as an explicit null; the status gate
	// above already decided the slot is includable.
	if it.result == nil {
		return &ResultNode{Kind: ResultSingle, Value: nil}, true, nil
	}

	if it.leaf {
		serialized, err := ser.SerializeLeaf(it.typeExpr.GetNamedType(), it.result)
		if err != nil {
			return nil, false, err
		}
		return &ResultNode{Kind: ResultSingle, Value: serialized}, true, nil
	}

	// Non-leaf with neither child collection populated: the resolver returned
	// an object no requested fragment applied to. Omit the slot.
	return nil, false, nil
}
