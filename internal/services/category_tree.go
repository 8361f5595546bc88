package services

import (
	"context"

	"gorm.io/gorm"

	"arbor/internal/logger"
	"arbor/internal/models"
	"arbor/internal/selection"
)

// categoryTreeLoader adapts the category store to selection.TreeLoader.
// This is the boundary where database errors become empty results: a
// failed fetch leaves the navigation UI with an empty dropdown instead
// of an error state. Failures are logged here and nowhere else.
type categoryTreeLoader struct {
	db *gorm.DB
}

// NewCategoryTreeLoader creates the read-only tree view the navigation
// state machine consumes.
func NewCategoryTreeLoader(db *gorm.DB) selection.TreeLoader {
	return &categoryTreeLoader{db: db}
}

func (l *categoryTreeLoader) TopLevels(ctx context.Context, areaID string) []selection.Category {
	var categories []models.Category
	if err := l.db.WithContext(ctx).
		Where("area_id = ? AND level <= 2", areaID).
		Order("level, sort_order, name").
		Find(&categories).Error; err != nil {
		logger.Get().Warnw("top-level category load failed", "area_id", areaID, "error", err)
		return nil
	}
	return toNodes(categories)
}

func (l *categoryTreeLoader) Children(ctx context.Context, parentID string) []selection.Category {
	var categories []models.Category
	if err := l.db.WithContext(ctx).
		Where("parent_category_id = ?", parentID).
		Order("sort_order, name").
		Find(&categories).Error; err != nil {
		logger.Get().Warnw("child category load failed", "parent_id", parentID, "error", err)
		return nil
	}
	return toNodes(categories)
}

func (l *categoryTreeLoader) IsLeaf(ctx context.Context, categoryID string) bool {
	var ids []string
	if err := l.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_category_id = ?", categoryID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		logger.Get().Warnw("leaf probe failed", "category_id", categoryID, "error", err)
		// Treat as leaf so the selection can still settle.
		return true
	}
	return len(ids) == 0
}

func (l *categoryTreeLoader) AncestorPath(ctx context.Context, c selection.Category) []selection.Category {
	path := []selection.Category{c}
	current := c
	for hops := 0; current.ParentCategoryID != nil; hops++ {
		if hops == maxTreeDepth {
			logger.Get().Warnw("ancestor walk hit depth cap, truncating path",
				"category_id", c.ID, "depth", len(path))
			return path
		}
		var parent models.Category
		if err := l.db.WithContext(ctx).
			Where("id = ?", *current.ParentCategoryID).
			First(&parent).Error; err != nil {
			logger.Get().Warnw("ancestor fetch failed, truncating path",
				"category_id", c.ID, "parent_id", *current.ParentCategoryID, "error", err)
			return path
		}
		node := toNode(parent)
		path = append([]selection.Category{node}, path...)
		current = node
	}

	// A level-2 node without a parent link still sits under its area's
	// level-1 root; prefix it so the path reads complete.
	if current.Level == 2 && current.AreaID != nil {
		var roots []models.Category
		if err := l.db.WithContext(ctx).
			Where("area_id = ? AND parent_category_id IS NULL AND level = 1", *current.AreaID).
			Order("sort_order, name").
			Limit(1).
			Find(&roots).Error; err != nil {
			logger.Get().Warnw("level-1 root lookup failed",
				"category_id", c.ID, "area_id", *current.AreaID, "error", err)
		} else if len(roots) > 0 {
			path = append([]selection.Category{toNode(roots[0])}, path...)
		}
	}
	return path
}

func (l *categoryTreeLoader) AreaName(ctx context.Context, areaID string) string {
	var names []string
	if err := l.db.WithContext(ctx).Model(&models.Area{}).
		Where("id = ?", areaID).
		Limit(1).
		Pluck("name", &names).Error; err != nil {
		logger.Get().Warnw("area name load failed", "area_id", areaID, "error", err)
		return ""
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func toNode(c models.Category) selection.Category {
	return selection.Category{
		ID:               c.ID,
		Name:             c.Name,
		Level:            c.Level,
		ParentCategoryID: c.ParentCategoryID,
		AreaID:           c.AreaID,
		SortOrder:        c.SortOrder,
	}
}

func toNodes(cats []models.Category) []selection.Category {
	out := make([]selection.Category, len(cats))
	for i, c := range cats {
		out[i] = toNode(c)
	}
	return out
}
