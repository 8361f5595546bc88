package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "arbor/internal/errors"
	"arbor/internal/logger"
	"arbor/internal/models"
)

// maxTreeDepth caps upward and downward traversals so a corrupted
// parent link can never loop forever.
const maxTreeDepth = 20

// categoryService handles category-tree business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. Level-1 categories reference an
// area directly; deeper categories inherit their area from the parent
// and sit one level below it.
func (s *categoryService) CreateCategory(areaID, parentID *string, name, slug, description string, sortOrder int) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	level := 1
	if parentID != nil {
		var parent models.Category
		if err := s.db.Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		level = parent.Level + 1
		areaID = parent.AreaID
	} else {
		if areaID == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "top-level categories require an area")
		}
		var count int64
		if err := s.db.Model(&models.Area{}).Where("id = ?", *areaID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAreaNotFound
		}
	}

	category := &models.Category{
		AreaID:           areaID,
		ParentCategoryID: parentID,
		Name:             name,
		Slug:             slug,
		Description:      description,
		Level:            level,
		SortOrder:        sortOrder,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetTopLevelCategories retrieves an area's level-1 and level-2
// categories, the set the category dropdown shows right after an area
// is picked. Ordered by (level, sort_order) so level-1 entries come
// first.
func (s *categoryService) GetTopLevelCategories(areaID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.
		Where("area_id = ? AND level <= 2", areaID).
		Order("level, sort_order, name").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetChildren retrieves the immediate children of a category.
func (s *categoryService) GetChildren(parentID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.
		Where("parent_category_id = ?", parentID).
		Order("sort_order, name").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// IsLeaf reports whether a category has no children. Implemented as an
// existence probe rather than a count.
func (s *categoryService) IsLeaf(categoryID string) (bool, error) {
	var ids []string
	if err := s.db.Model(&models.Category{}).
		Where("parent_category_id = ?", categoryID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(ids) == 0, nil
}

// GetAncestorPath returns the path from the root category down to
// categoryID inclusive. Traversal is capped at maxTreeDepth hops; a
// longer (necessarily cyclic) chain yields the truncated path rather
// than an error.
func (s *categoryService) GetAncestorPath(categoryID string) ([]models.Category, error) {
	current, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	path := []models.Category{*current}
	for hops := 0; current.ParentCategoryID != nil; hops++ {
		if hops == maxTreeDepth {
			logger.Get().Warnw("ancestor walk hit depth cap, truncating path",
				"category_id", categoryID, "depth", len(path))
			break
		}
		var parent models.Category
		if err := s.db.Where("id = ?", *current.ParentCategoryID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		path = append([]models.Category{parent}, path...)
		current = &parent
	}
	return path, nil
}

// GetDescendantIDs returns the IDs of categoryID and every category
// below it, breadth-first. Used to widen category filters to whole
// subtrees.
func (s *categoryService) GetDescendantIDs(categoryID string) ([]string, error) {
	all := []string{categoryID}
	frontier := []string{categoryID}
	for depth := 0; len(frontier) > 0 && depth < maxTreeDepth; depth++ {
		var next []string
		if err := s.db.Model(&models.Category{}).
			Where("parent_category_id IN ?", frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// UpdateCategory updates an existing category. Reparenting validates
// against self-parenting and cycles and recomputes the level.
func (s *categoryService) UpdateCategory(categoryID, name, description string, sortOrder *int, parentID *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if parentID != nil && *parentID != "" {
		if *parentID == categoryID {
			return nil, apperrors.ErrSelfParentCategory
		}
		descendants, err := s.GetDescendantIDs(categoryID)
		if err != nil {
			return nil, err
		}
		for _, id := range descendants {
			if id == *parentID {
				return nil, apperrors.ErrCategoryCycle
			}
		}
		var parent models.Category
		if err := s.db.Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["parent_category_id"] = *parentID
		updates["level"] = parent.Level + 1
		updates["area_id"] = parent.AreaID
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory soft-deletes a category. Categories with children
// cannot be deleted; existing events keep their category reference for
// historical records.
func (s *categoryService) DeleteCategory(categoryID string) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_category_id = ?", categoryID).
		Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
