package document

// NamedFragmentCollection indexes fragments by name. The first fragment
// declared under a name is the officially chosen one; later declarations are
// retained as overflow so validation can report the duplicates.
type NamedFragmentCollection struct {
	order    []*NamedFragmentPart
	byName   map[string]*NamedFragmentPart
	overflow map[string][]*NamedFragmentPart
}

func NewNamedFragmentCollection() *NamedFragmentCollection {
	return &NamedFragmentCollection{
		byName:   make(map[string]*NamedFragmentPart),
		overflow: make(map[string][]*NamedFragmentPart),
	}
}

// Add indexes the fragment, returning false when its name was already taken.
func (c *NamedFragmentCollection) Add(frag *NamedFragmentPart) bool {
	c.order = append(c.order, frag)
	if _, exists := c.byName[frag.Name()]; exists {
		c.overflow[frag.Name()] = append(c.overflow[frag.Name()], frag)
		return false
	}
	c.byName[frag.Name()] = frag
	return true
}

// Find returns the officially chosen fragment for the name, or nil.
func (c *NamedFragmentCollection) Find(name string) *NamedFragmentPart { return c.byName[name] }

// IsUnique reports whether exactly one fragment claims the name.
func (c *NamedFragmentCollection) IsUnique(name string) bool {
	_, ok := c.byName[name]
	return ok && len(c.overflow[name]) == 0
}

// Overflow returns the fragments beyond the first that share the name.
func (c *NamedFragmentCollection) Overflow(name string) []*NamedFragmentPart {
	return c.overflow[name]
}

func (c *NamedFragmentCollection) All() []*NamedFragmentPart { return c.order }

func (c *NamedFragmentCollection) Count() int { return len(c.order) }

// VariableCollection indexes an operation's declared variables by name in
// declaration order.
type VariableCollection struct {
	order  []*VariablePart
	byName map[string]*VariablePart
}

func NewVariableCollection() *VariableCollection {
	return &VariableCollection{byName: make(map[string]*VariablePart)}
}

// Add indexes the variable, returning false on a duplicate name.
func (c *VariableCollection) Add(v *VariablePart) bool {
	if _, exists := c.byName[v.Name()]; exists {
		return false
	}
	c.byName[v.Name()] = v
	c.order = append(c.order, v)
	return true
}

func (c *VariableCollection) Find(name string) *VariablePart { return c.byName[name] }

func (c *VariableCollection) All() []*VariablePart { return c.order }

func (c *VariableCollection) Count() int { return len(c.order) }

// FragmentSpreadCollection accumulates fragment spreads, indexed by the name
// they reference.
type FragmentSpreadCollection struct {
	spreads []*FragmentSpreadPart
	byName  map[string][]*FragmentSpreadPart
}

func NewFragmentSpreadCollection() *FragmentSpreadCollection {
	return &FragmentSpreadCollection{byName: make(map[string][]*FragmentSpreadPart)}
}

func (c *FragmentSpreadCollection) Add(sp *FragmentSpreadPart) {
	c.spreads = append(c.spreads, sp)
	c.byName[sp.FragmentName()] = append(c.byName[sp.FragmentName()], sp)
}

// FindByName returns every spread referencing the given fragment name.
func (c *FragmentSpreadCollection) FindByName(name string) []*FragmentSpreadPart {
	return c.byName[name]
}

func (c *FragmentSpreadCollection) All() []*FragmentSpreadPart { return c.spreads }

func (c *FragmentSpreadCollection) Count() int { return len(c.spreads) }
