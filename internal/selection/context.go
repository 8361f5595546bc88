package selection

import (
	"context"
	"strings"
	"sync"
)

// FilterState is the externally-visible selection snapshot. CategoryPath
// is root-first (the reverse of Chain's storage order). Dates are
// ISO-8601 strings; nil means unbounded.
type FilterState struct {
	AreaID       *string  `json:"area_id"`
	CategoryID   *string  `json:"category_id"`
	CategoryPath []string `json:"category_path"`
	DateFrom     *string  `json:"date_from"`
	DateTo       *string  `json:"date_to"`
	SearchQuery  string   `json:"search_query"`
}

// BreadcrumbType tags an entry of a breadcrumb path.
type BreadcrumbType string

const (
	BreadcrumbRoot     BreadcrumbType = "root"
	BreadcrumbArea     BreadcrumbType = "area"
	BreadcrumbCategory BreadcrumbType = "category"
)

// BreadcrumbItem is one element of a clickable breadcrumb path.
type BreadcrumbItem struct {
	Type BreadcrumbType `json:"type"`
	ID   string         `json:"id"`
	Name string         `json:"name"`
}

// Context is the single source of truth for navigation state. All
// mutations go through its named operations so that persistence
// write-through and derived state (leaf flag, display string) stay
// consistent; no other component holds a parallel mutable copy.
//
// Every settled mutation after the one-time restore is mirrored into
// the FilterStore. Safe for concurrent use.
type Context struct {
	mu     sync.Mutex
	loader TreeLoader
	store  *FilterStore
	sink   DebugSink

	filter     FilterState
	chain      Chain
	options    []Category
	isLeaf     bool
	display    string
	areaName   string
	shortcutID *string

	restored    bool
	restoring   bool
	restoreOnce sync.Once
}

// NewContext creates a filter context. A nil sink installs the no-op
// sink. Hosts must call Restore exactly once before feeding user input;
// until then persistence is suppressed.
func NewContext(loader TreeLoader, store *FilterStore, sink DebugSink) *Context {
	if sink == nil {
		sink = NopSink()
	}
	return &Context{loader: loader, store: store, sink: sink}
}

// ---------------------------------------------------------------------
// Restore
// ---------------------------------------------------------------------

// Restore performs the one-time reconstruction of navigation state from
// durable storage. The persisted chain is installed synchronously; the
// dropdown options for the restored position are then fetched, during
// which IsRestoring reports true. The restored flag flips only after
// the fetch settles, which is what guards the "area changed" reload
// against racing the restore.
func (c *Context) Restore(ctx context.Context) {
	c.restoreOnce.Do(func() { c.restore(ctx) })
}

func (c *Context) restore(ctx context.Context) {
	snap := c.store.Load(ctx)
	if snap == nil || snap.AreaID == nil {
		c.mu.Lock()
		c.restored = true
		c.mu.Unlock()
		return
	}

	chain := Chain(snap.SelectionChain)
	areaID := *snap.AreaID

	// Install the chain synchronously so the first read after Restore
	// begins already sees the restored position.
	c.mu.Lock()
	c.restoring = true
	c.filter.AreaID = snap.AreaID
	c.shortcutID = snap.SelectedShortcutID
	if chain.Depth() > 0 {
		c.chain = chain
		id := chain.CurrentID()
		c.filter.CategoryID = &id
		c.filter.CategoryPath = chain.PathIDs()
	}
	c.mu.Unlock()

	c.sink.OnDebugEvent("restore_begin", map[string]any{
		"area_id": areaID,
		"depth":   chain.Depth(),
	})

	// Reconstruct dropdown options and leaf status for the restored
	// position. Loader calls run without the lock held.
	var (
		options []Category
		isLeaf  bool
	)
	if current, ok := chain.Current(); ok {
		children := c.loader.Children(ctx, current.ID)
		switch {
		case len(children) > 0:
			options = children
		case current.ParentCategoryID != nil:
			// Restored onto a leaf: keep offering its siblings.
			isLeaf = true
			options = c.loader.Children(ctx, *current.ParentCategoryID)
		default:
			// A parentless leaf; fall back to the area's top levels.
			isLeaf = true
			options = c.loader.TopLevels(ctx, areaID)
		}
	} else {
		options = c.loader.TopLevels(ctx, areaID)
	}
	areaName := c.loader.AreaName(ctx, areaID)

	c.mu.Lock()
	c.areaName = areaName
	c.options = options
	c.isLeaf = isLeaf
	c.display = c.displayLocked()
	c.restoring = false
	c.restored = true
	c.mu.Unlock()

	c.sink.OnDebugEvent("restore_done", map[string]any{
		"area_id": areaID,
		"is_leaf": isLeaf,
		"options": len(options),
	})
}

// ---------------------------------------------------------------------
// Navigation operations
// ---------------------------------------------------------------------

// SelectArea sets the area and clears all category-derived state. A nil
// areaID clears the area as well. Date and search filters are untouched.
func (c *Context) SelectArea(ctx context.Context, areaID *string) {
	var areaName string
	if areaID != nil {
		areaName = c.loader.AreaName(ctx, *areaID)
	}

	c.mu.Lock()
	c.filter.AreaID = areaID
	c.filter.CategoryID = nil
	c.filter.CategoryPath = nil
	c.chain = nil
	c.options = nil
	c.isLeaf = false
	c.areaName = areaName
	c.display = c.displayLocked()
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.sink.OnDebugEvent("select_area", map[string]any{"area_id": deref(areaID)})
}

// SelectCategory sets the category position directly from values a
// consumer has already computed (e.g. the tree-browsing view). path is
// root-first. It does not touch the chain or dropdown options; callers
// that own those go through the selector instead.
func (c *Context) SelectCategory(ctx context.Context, categoryID *string, path []string) {
	c.mu.Lock()
	c.filter.CategoryID = categoryID
	c.filter.CategoryPath = append([]string(nil), path...)
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.sink.OnDebugEvent("select_category", map[string]any{
		"category_id": deref(categoryID),
		"path_len":    len(path),
	})
}

// NavigateToPath reconstructs state from a breadcrumb click. The last
// item's type decides how much is reset: root clears everything
// category- and area-related, area keeps only the area, and a category
// item installs the category path it spells out.
func (c *Context) NavigateToPath(ctx context.Context, path []BreadcrumbItem) {
	c.mu.Lock()
	defer func() {
		c.display = c.displayLocked()
		c.persistLocked(ctx)
		c.mu.Unlock()
	}()

	if len(path) == 0 {
		c.clearAreaLocked()
		return
	}

	last := path[len(path)-1]
	switch last.Type {
	case BreadcrumbRoot:
		c.clearAreaLocked()
	case BreadcrumbArea:
		id := last.ID
		c.filter.AreaID = &id
		c.areaName = last.Name
		c.filter.CategoryID = nil
		c.filter.CategoryPath = nil
		c.chain = nil
		c.options = nil
		c.isLeaf = false
	case BreadcrumbCategory:
		var pathIDs []string
		for _, item := range path {
			switch item.Type {
			case BreadcrumbArea:
				id := item.ID
				c.filter.AreaID = &id
				c.areaName = item.Name
			case BreadcrumbCategory:
				pathIDs = append(pathIDs, item.ID)
			}
		}
		id := last.ID
		c.filter.CategoryID = &id
		c.filter.CategoryPath = pathIDs
		// The breadcrumb carries IDs only; the chain is rebuilt by the
		// selector on the next selection.
		c.chain = nil
		c.isLeaf = false
	}
}

// NavigateUp walks one level up: category path → parent category →
// area-only → nothing.
func (c *Context) NavigateUp(ctx context.Context) {
	c.mu.Lock()
	switch {
	case len(c.filter.CategoryPath) > 1:
		newPath := c.filter.CategoryPath[:len(c.filter.CategoryPath)-1]
		id := newPath[len(newPath)-1]
		c.filter.CategoryID = &id
		c.filter.CategoryPath = append([]string(nil), newPath...)
		c.chain = c.chain.Parent()
	case c.filter.CategoryID != nil:
		c.filter.CategoryID = nil
		c.filter.CategoryPath = nil
		c.chain = nil
	case c.filter.AreaID != nil:
		c.filter.AreaID = nil
		c.areaName = ""
	}
	c.isLeaf = false
	c.display = c.displayLocked()
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.sink.OnDebugEvent("navigate_up", nil)
}

// Reset clears all filter state including dates and search, and removes
// the persisted snapshot.
func (c *Context) Reset(ctx context.Context) {
	c.mu.Lock()
	c.filter = FilterState{}
	c.chain = nil
	c.options = nil
	c.isLeaf = false
	c.areaName = ""
	c.display = ""
	c.shortcutID = nil
	c.mu.Unlock()

	c.store.Clear(ctx)
	c.sink.OnDebugEvent("reset", nil)
}

// SetDateRange sets the date filters, independent of category navigation.
func (c *Context) SetDateRange(ctx context.Context, from, to *string) {
	c.mu.Lock()
	c.filter.DateFrom = from
	c.filter.DateTo = to
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// SetSearchQuery sets the free-text filter.
func (c *Context) SetSearchQuery(ctx context.Context, query string) {
	c.mu.Lock()
	c.filter.SearchQuery = query
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// SelectShortcut records the active activity preset, if any.
func (c *Context) SelectShortcut(ctx context.Context, id *string) {
	c.mu.Lock()
	c.shortcutID = id
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// ---------------------------------------------------------------------
// Selector integration (package-private)
// ---------------------------------------------------------------------

// applySelection installs a settled selection: the authoritative chain,
// the dropdown options for the new position, and the leaf flag.
func (c *Context) applySelection(ctx context.Context, chain Chain, options []Category, isLeaf bool) {
	c.mu.Lock()
	c.chain = chain
	if id := chain.CurrentID(); id != "" {
		c.filter.CategoryID = &id
		c.filter.CategoryPath = chain.PathIDs()
	} else {
		c.filter.CategoryID = nil
		c.filter.CategoryPath = nil
	}
	c.options = options
	c.isLeaf = isLeaf
	c.display = c.displayLocked()
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.sink.OnDebugEvent("apply_selection", map[string]any{
		"category_id": chain.CurrentID(),
		"depth":       chain.Depth(),
		"is_leaf":     isLeaf,
		"options":     len(options),
	})
}

// setDropdownOptions replaces the offered options without moving the
// selection; used when (re)loading an area's top levels.
func (c *Context) setDropdownOptions(ctx context.Context, options []Category) {
	c.mu.Lock()
	c.options = options
	c.persistLocked(ctx)
	c.mu.Unlock()
}

// ---------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------

// State returns a copy of the current filter state.
func (c *Context) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.filter
	out.CategoryPath = append([]string(nil), c.filter.CategoryPath...)
	return out
}

// SelectionChain returns a copy of the current chain, deepest-first.
func (c *Context) SelectionChain() Chain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chain.clone()
}

// DropdownOptions returns a copy of the options currently offered by
// the category dropdown.
func (c *Context) DropdownOptions() []Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Category(nil), c.options...)
}

// IsLeafCategory reports whether the current position is a leaf.
func (c *Context) IsLeafCategory() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLeaf
}

// FullPathDisplay returns the " > "-joined breadcrumb string, area
// name first. Empty when nothing is selected.
func (c *Context) FullPathDisplay() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// SelectedShortcutID returns the active preset ID, if any.
func (c *Context) SelectedShortcutID() *string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shortcutID
}

// IsRestored reports whether the one-time restore has completed.
func (c *Context) IsRestored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restored
}

// IsRestoring reports whether a restore is currently reconstructing
// dropdown options. Distinct from ordinary loading.
func (c *Context) IsRestoring() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restoring
}

// HasActiveFilter reports whether any filter dimension is set.
func (c *Context) HasActiveFilter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.AreaID != nil || c.filter.CategoryID != nil ||
		c.filter.DateFrom != nil || c.filter.DateTo != nil || c.filter.SearchQuery != ""
}

// IsFiltered reports whether an area or category is selected.
func (c *Context) IsFiltered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.AreaID != nil || c.filter.CategoryID != nil
}

// ---------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------

// clearAreaLocked resets the area and everything derived from it.
// Caller holds mu.
func (c *Context) clearAreaLocked() {
	c.filter.AreaID = nil
	c.filter.CategoryID = nil
	c.filter.CategoryPath = nil
	c.chain = nil
	c.options = nil
	c.isLeaf = false
	c.areaName = ""
}

// displayLocked rebuilds the breadcrumb display string. Caller holds mu.
func (c *Context) displayLocked() string {
	if c.filter.AreaID == nil {
		return ""
	}
	name := c.areaName
	if name == "" {
		name = "Unknown"
	}
	if c.chain.Depth() == 0 {
		return name + " > All Categories"
	}
	return name + " > " + strings.Join(c.chain.Names(), " > ")
}

// persistLocked mirrors state into the filter store once restore has
// completed. Caller holds mu.
func (c *Context) persistLocked(ctx context.Context) {
	if !c.restored {
		return
	}
	c.store.Save(ctx, Snapshot{
		AreaID:             c.filter.AreaID,
		SelectionChain:     c.chain,
		SelectedShortcutID: c.shortcutID,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
