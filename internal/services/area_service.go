package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
)

// areaService handles area-related business logic.
type areaService struct {
	db *gorm.DB
}

// NewAreaService creates a new AreaServicer.
func NewAreaService(db *gorm.DB) AreaServicer {
	return &areaService{db: db}
}

// CreateArea creates a new top-level area.
func (s *areaService) CreateArea(name, description, icon, color string, sortOrder int) (*models.Area, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "area name is required")
	}

	var count int64
	if err := s.db.Model(&models.Area{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "area with this name already exists")
	}

	area := &models.Area{
		Name:        name,
		Description: description,
		Icon:        icon,
		Color:       color,
		SortOrder:   sortOrder,
	}
	if err := s.db.Create(area).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return area, nil
}

// GetAreas retrieves all areas ordered for display.
func (s *areaService) GetAreas() ([]models.Area, error) {
	var areas []models.Area
	if err := s.db.Order("sort_order, name").Find(&areas).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return areas, nil
}

// GetAreaByID retrieves an area by ID.
func (s *areaService) GetAreaByID(areaID string) (*models.Area, error) {
	var area models.Area
	if err := s.db.Where("id = ?", areaID).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAreaNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &area, nil
}

// UpdateArea updates an existing area. Empty strings leave the field
// unchanged; a nil sortOrder leaves ordering unchanged.
func (s *areaService) UpdateArea(areaID, name, description, icon, color string, sortOrder *int) (*models.Area, error) {
	area, err := s.GetAreaByID(areaID)
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
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(area).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return area, nil
}

// DeleteArea soft-deletes an area. Areas that still own categories
// cannot be deleted.
func (s *areaService) DeleteArea(areaID string) error {
	area, err := s.GetAreaByID(areaID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("area_id = ?", areaID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrAreaInUse
	}

	if err := s.db.Delete(area).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
