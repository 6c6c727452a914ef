package engine

import (
	document "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/document"
)

// applyInclusionDirectives executes the @skip and @include directives of the
// document by toggling the IsIncluded flag on their governed parts. The
// document model exposes that flag as the sole channel through which
// directive execution affects selection-set flattening; the enclosing
// selection sets invalidate their executable views as each flag flips.
func applyInclusionDirectives(s *executionState, doc *document.DocumentPart) {
	for _, part := range doc.Children() {
		applyInclusionDirectivesBelow(s, part)
	}
}

func applyInclusionDirectivesBelow(s *executionState, part document.Part) {
	if gov, ok := part.(document.IncludeGovernor); ok {
		gov.SetIncluded(governedInclusion(s, directivesOf(part)))
	}
	for _, child := range part.Children() {
		applyInclusionDirectivesBelow(s, child)
	}
}

func directivesOf(part document.Part) []*document.DirectivePart {
	switch p := part.(type) {
	case *document.FieldPart:
		return p.Directives()
	case *document.InlineFragmentPart:
		return p.Directives()
	case *document.FragmentSpreadPart:
		return p.Directives()
	case *document.NamedFragmentPart:
		return p.Directives()
	}
	return nil
}

// governedInclusion evaluates the skip/include pair for one governor. Both
// directives compose by AND: @skip(if: true) excludes even when
// @include(if: true) is also present.
func governedInclusion(s *executionState, directives []*document.DirectivePart) bool {
	included := true
	for _, dir := range directives {
		switch dir.Name() {
		case "skip":
			if b, ok := directiveIfArgument(s, dir); ok && b {
				included = false
			}
		case "include":
			if b, ok := directiveIfArgument(s, dir); ok && !b {
				included = false
			}
		}
	}
	return included
}

func directiveIfArgument(s *executionState, dir *document.DirectivePart) (bool, bool) {
	arg := dir.Argument("if")
	if arg == nil {
		return false, false
	}
	val := suppliedValueToGo(arg.Value(), s.variables)
	b, ok := val.(bool)
	return b, ok
}
