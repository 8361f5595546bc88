package selection

import (
	"context"
	"sync/atomic"
)

// State identifies where the progressive selector sits in its lifecycle.
type State string

const (
	// StateRestoring means the one-time restore is still reconstructing
	// dropdown options. User input should be held off.
	StateRestoring State = "restoring"
	// StateNoArea means no area is selected and the category dropdown is
	// empty.
	StateNoArea State = "no_area"
	// StateAreaSelected means an area is chosen and the dropdown offers
	// its top-level categories.
	StateAreaSelected State = "area_selected"
	// StateChainBuilding means a non-leaf category is selected and the
	// dropdown offers its children.
	StateChainBuilding State = "chain_building"
	// StateLeaf means a leaf category is selected; the dropdown keeps
	// offering the leaf's siblings so the user can switch laterally.
	StateLeaf State = "leaf"
)

// LeafHandler is invoked when a selection lands on a leaf category.
// path is root-first.
type LeafHandler func(leaf Category, path []Category)

// Selector drives the progressive two-dropdown navigation flow on top
// of a shared Context. Each navigation action stamps a sequence token
// before touching the loader; results arriving under a stale token are
// discarded, so out-of-order loader responses can never clobber a newer
// selection (latest request wins).
type Selector struct {
	fc     *Context
	loader TreeLoader
	seq    atomic.Uint64

	onLeafSelected LeafHandler
}

// NewSelector creates a selector bound to the given context. The leaf
// handler may be nil.
func NewSelector(fc *Context, loader TreeLoader, onLeaf LeafHandler) *Selector {
	return &Selector{fc: fc, loader: loader, onLeafSelected: onLeaf}
}

// State derives the current lifecycle state from the shared context.
func (s *Selector) State() State {
	if s.fc.IsRestoring() {
		return StateRestoring
	}
	st := s.fc.State()
	switch {
	case st.AreaID == nil:
		return StateNoArea
	case st.CategoryID == nil:
		return StateAreaSelected
	case s.fc.IsLeafCategory():
		return StateLeaf
	default:
		return StateChainBuilding
	}
}

// OnAreaChange handles the user picking a new area (or clearing it with
// nil). Category state is cleared immediately; the area's top-level
// categories are then loaded and installed unless a newer action has
// started in the meantime.
func (s *Selector) OnAreaChange(ctx context.Context, areaID *string) {
	token := s.seq.Add(1)
	s.fc.SelectArea(ctx, areaID)
	if areaID == nil {
		return
	}
	options := s.loader.TopLevels(ctx, *areaID)
	if s.stale(token) {
		return
	}
	s.fc.setDropdownOptions(ctx, options)
}

// OnCategorySelect handles a dropdown pick. The empty string is the
// "back" sentinel. Any other value must be the ID of one of the options
// currently offered; unknown IDs are ignored.
//
// The chain is always replaced with the category's full ancestor path,
// never appended to, so a pick from a two-level top dropdown yields a
// complete chain. On a leaf the current options are kept (siblings stay
// offered) and the leaf handler fires; otherwise the dropdown moves on
// to the children.
func (s *Selector) OnCategorySelect(ctx context.Context, value string) {
	if value == "" {
		s.Back(ctx)
		return
	}

	var picked *Category
	for _, opt := range s.fc.DropdownOptions() {
		if opt.ID == value {
			c := opt
			picked = &c
			break
		}
	}
	if picked == nil {
		return
	}

	token := s.seq.Add(1)
	isLeaf := s.loader.IsLeaf(ctx, picked.ID)
	path := s.loader.AncestorPath(ctx, *picked)
	if s.stale(token) {
		return
	}

	chain := NewChain(path)
	var options []Category
	if isLeaf {
		options = s.fc.DropdownOptions()
	} else {
		options = s.loader.Children(ctx, picked.ID)
		if s.stale(token) {
			return
		}
	}

	s.fc.applySelection(ctx, chain, options, isLeaf)
	if isLeaf && s.onLeafSelected != nil {
		s.onLeafSelected(*picked, chain.RootFirst())
	}
}

// Back pops one level off the chain. An emptied chain returns the
// dropdown to the area's top levels; otherwise it offers the children
// of the new current category.
func (s *Selector) Back(ctx context.Context) {
	token := s.seq.Add(1)
	chain := s.fc.SelectionChain().Parent()

	var options []Category
	if chain.Depth() == 0 {
		if st := s.fc.State(); st.AreaID != nil {
			options = s.loader.TopLevels(ctx, *st.AreaID)
		}
	} else {
		options = s.loader.Children(ctx, chain.CurrentID())
	}
	if s.stale(token) {
		return
	}

	s.fc.applySelection(ctx, chain, options, false)
}

// Reset clears all navigation state. The token bump invalidates any
// in-flight loads.
func (s *Selector) Reset(ctx context.Context) {
	s.seq.Add(1)
	s.fc.Reset(ctx)
}

// EnsureOptions loads top-level options for the current area if the
// dropdown is empty. It is a no-op while the restore is still running
// or before it has started, which is what keeps an area-change reload
// from racing the restore and wiping the restored chain.
func (s *Selector) EnsureOptions(ctx context.Context) {
	if !s.fc.IsRestored() || s.fc.IsRestoring() {
		return
	}
	st := s.fc.State()
	if st.AreaID == nil || st.CategoryID != nil {
		return
	}
	if len(s.fc.DropdownOptions()) > 0 {
		return
	}

	token := s.seq.Add(1)
	options := s.loader.TopLevels(ctx, *st.AreaID)
	if s.stale(token) {
		return
	}
	s.fc.setDropdownOptions(ctx, options)
}

func (s *Selector) stale(token uint64) bool {
	return s.seq.Load() != token
}
