package document

// ExecutableField is one reachable field of a flattened selection set,
// together with the ordered chain of inclusion governors whose flags must all
// be true for the field to count as included, and the type conditions its
// enclosing fragments impose.
type ExecutableField struct {
	Field          *FieldPart
	Governors      []IncludeGovernor
	TypeConditions []string
}

// Included short-circuits through the governor chain: the first governor with
// IsIncluded false excludes the field. Skip/include and fragment exclusion
// compose by AND across the full containment chain.
func (ef *ExecutableField) Included() bool {
	for _, g := range ef.Governors {
		if !g.IsIncluded() {
			return false
		}
	}
	return true
}

// ExecutableFieldSet is the lazily rebuilt flattening of one selection set.
// It compares its build stamp against the owner's sequence counter on every
// read and rebuilds only when stale.
type ExecutableFieldSet struct {
	owner    *FieldSelectionSetPart
	builtAt  uint64
	built    bool
	fields   []*ExecutableField
	rebuilds int
}

func (e *ExecutableFieldSet) ensure() {
	if e.built && e.builtAt == e.owner.sequence {
		return
	}
	e.fields = e.fields[:0]
	visiting := make(map[string]bool)
	e.flatten(e.owner, nil, nil, visiting)
	e.builtAt = e.owner.sequence
	e.built = true
	e.rebuilds++
}

func (e *ExecutableFieldSet) flatten(set *FieldSelectionSetPart, governors []IncludeGovernor, conditions []string, visiting map[string]bool) {
	if set == nil {
		return
	}
	for _, child := range set.Children() {
		switch p := child.(type) {
		case *FieldPart:
			e.fields = append(e.fields, &ExecutableField{
				Field:          p,
				Governors:      chain(governors, p),
				TypeConditions: conditions,
			})
		case *InlineFragmentPart:
			conds := conditions
			if p.TypeCondition() != "" {
				conds = appendCondition(conditions, p.TypeCondition())
			}
			e.flatten(p.SelectionSet(), chain(governors, p), conds, visiting)
		case *FragmentSpreadPart:
			frag := p.Fragment()
			if frag == nil || visiting[p.FragmentName()] {
				// unresolved spread, or a cycle within this traversal path
				continue
			}
			visiting[p.FragmentName()] = true
			conds := conditions
			if frag.TypeCondition() != "" {
				conds = appendCondition(conditions, frag.TypeCondition())
			}
			e.flatten(frag.SelectionSet(), chain(governors, p, frag), conds, visiting)
			delete(visiting, p.FragmentName())
		}
	}
}

// Fields returns every reachable field regardless of inclusion state.
func (e *ExecutableFieldSet) Fields() []*ExecutableField {
	e.ensure()
	return e.fields
}

// IncludedOnly returns the fields whose full governor chain is currently on.
func (e *ExecutableFieldSet) IncludedOnly() []*ExecutableField {
	e.ensure()
	out := make([]*ExecutableField, 0, len(e.fields))
	for _, ef := range e.fields {
		if ef.Included() {
			out = append(out, ef)
		}
	}
	return out
}

func (e *ExecutableFieldSet) Count() int {
	e.ensure()
	return len(e.fields)
}

func (e *ExecutableFieldSet) Get(i int) *ExecutableField {
	e.ensure()
	return e.fields[i]
}

// Rebuilds reports how many times the flattened view was recomputed; reads
// that found the cache fresh do not count.
func (e *ExecutableFieldSet) Rebuilds() int { return e.rebuilds }

func chain(governors []IncludeGovernor, more ...IncludeGovernor) []IncludeGovernor {
	out := make([]IncludeGovernor, 0, len(governors)+len(more))
	out = append(out, governors...)
	out = append(out, more...)
	return out
}

func appendCondition(conditions []string, cond string) []string {
	out := make([]string, 0, len(conditions)+1)
	out = append(out, conditions...)
	out = append(out, cond)
	return out
}
