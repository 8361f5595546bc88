package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
)

// presetService handles activity-preset shortcuts.
type presetService struct {
	db *gorm.DB
}

// NewPresetService creates a new PresetServicer.
func NewPresetService(db *gorm.DB) PresetServicer {
	return &presetService{db: db}
}

// CreatePreset saves a navigation shortcut. At least one of areaID or
// categoryID must be set; a category preset carries its area implicitly.
func (s *presetService) CreatePreset(name string, areaID, categoryID *string) (*models.ActivityPreset, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "preset name is required")
	}
	if areaID == nil && categoryID == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "preset must target an area or category")
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ?", *categoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if areaID == nil {
			areaID = category.AreaID
		}
	} else {
		var count int64
		if err := s.db.Model(&models.Area{}).Where("id = ?", *areaID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAreaNotFound
		}
	}

	preset := &models.ActivityPreset{
		Name:       name,
		AreaID:     areaID,
		CategoryID: categoryID,
	}
	if err := s.db.Create(preset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return preset, nil
}

// GetPresets retrieves all presets, most used first.
func (s *presetService) GetPresets() ([]models.ActivityPreset, error) {
	var presets []models.ActivityPreset
	if err := s.db.
		Order("usage_count DESC, last_used DESC, name").
		Find(&presets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return presets, nil
}

// UsePreset records a use of the preset and returns it so the caller
// can jump navigation to its target.
func (s *presetService) UsePreset(presetID string) (*models.ActivityPreset, error) {
	var preset models.ActivityPreset
	if err := s.db.Where("id = ?", presetID).First(&preset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPresetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"usage_count": gorm.Expr("usage_count + 1"),
		"last_used":   now,
	}
	if err := s.db.Model(&preset).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	preset.UsageCount++
	preset.LastUsed = &now
	return &preset, nil
}

// DeletePreset soft-deletes a preset.
func (s *presetService) DeletePreset(presetID string) error {
	var preset models.ActivityPreset
	if err := s.db.Where("id = ?", presetID).First(&preset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPresetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&preset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
