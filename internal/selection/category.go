// Package selection implements the category navigation state machine:
// the selection chain, the shared filter context with storage-backed
// restore, and the progressive selector that drives the two-dropdown
// navigation contract.
//
// The package is UI- and transport-agnostic. It talks to the category
// store only through the TreeLoader interface and to durable storage
// only through the KV interface, so hosts can plug in a database, an
// HTTP client, or test fakes.
package selection

import "context"

// Category is the tree-node view consumed by the navigation state
// machine. It mirrors the columns of the categories table that
// navigation needs; richer model types are projected down to this.
type Category struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Level            int     `json:"level"`
	ParentCategoryID *string `json:"parent_category_id"`
	AreaID           *string `json:"area_id"`
	SortOrder        int     `json:"sort_order"`
}

// TreeLoader is the read-only view of the category store.
//
// Implementations convert failures into empty results at this boundary
// (logging them) rather than returning errors: the state machine treats
// "load failed" the same as "legitimately no children", trading strict
// correctness for availability. Nothing is ever written through this
// interface, so no data is at risk.
//
// Implementations are stateless with respect to navigation; when calls
// overlap, discarding stale results is the caller's responsibility.
type TreeLoader interface {
	// TopLevels returns the area's level-1 and level-2 categories,
	// ordered by (level, sort_order).
	TopLevels(ctx context.Context, areaID string) []Category

	// Children returns the immediate children of a category, ordered by
	// sort_order. An empty result is the definition of a leaf.
	Children(ctx context.Context, parentID string) []Category

	// IsLeaf reports whether the category has no children. May be
	// implemented as an existence probe rather than a full child fetch.
	IsLeaf(ctx context.Context, categoryID string) bool

	// AncestorPath returns the full path from the root to c inclusive,
	// in root-first order. Traversal is capped; on a cycle or fetch
	// failure the truncated path is returned as-is.
	AncestorPath(ctx context.Context, c Category) []Category

	// AreaName returns the display name of an area, or "" if unknown.
	AreaName(ctx context.Context, areaID string) string
}
