package selection

// Chain is the ordered list of selected categories, deepest-first:
// index 0 is the user's current position and the last element is the
// shallowest selection. Invariant: chain[i].ParentCategoryID equals
// chain[i+1].ID for every consecutive pair.
//
// Chain values are immutable; transitions return a new chain.
type Chain []Category

// NewChain builds a chain from an authoritative ROOT-FIRST ancestor
// path (as produced by TreeLoader.AncestorPath). Selection always
// replaces the whole chain with the full path rather than appending,
// which stays correct even when the dropdown only showed one level.
func NewChain(rootFirst []Category) Chain {
	if len(rootFirst) == 0 {
		return nil
	}
	chain := make(Chain, len(rootFirst))
	for i, c := range rootFirst {
		chain[len(rootFirst)-1-i] = c
	}
	return chain
}

// Current returns the deepest selection, if any.
func (c Chain) Current() (Category, bool) {
	if len(c) == 0 {
		return Category{}, false
	}
	return c[0], true
}

// CurrentID returns the deepest selection's ID, or "" for an empty chain.
func (c Chain) CurrentID() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].ID
}

// Depth returns the number of selected categories.
func (c Chain) Depth() int { return len(c) }

// Parent drops the deepest element. Callers must re-fetch dropdown
// options for the new position; an empty result means the chain is back
// at the area level.
func (c Chain) Parent() Chain {
	if len(c) <= 1 {
		return nil
	}
	out := make(Chain, len(c)-1)
	copy(out, c[1:])
	return out
}

// RootFirst returns the chain in root-first order, the order consumers
// use for breadcrumbs and category paths.
func (c Chain) RootFirst() []Category {
	out := make([]Category, len(c))
	for i, cat := range c {
		out[len(c)-1-i] = cat
	}
	return out
}

// PathIDs returns category IDs in root-first order.
func (c Chain) PathIDs() []string {
	out := make([]string, len(c))
	for i, cat := range c {
		out[len(c)-1-i] = cat.ID
	}
	return out
}

// Names returns category names in root-first order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, cat := range c {
		out[len(c)-1-i] = cat.Name
	}
	return out
}

// clone returns a copy so accessors never leak internal state.
func (c Chain) clone() Chain {
	if c == nil {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
