package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
	"arbor/internal/rules"
)

// attributeService handles attribute-definition business logic.
type attributeService struct {
	db *gorm.DB
}

// NewAttributeService creates a new AttributeServicer.
func NewAttributeService(db *gorm.DB) AttributeServicer {
	return &attributeService{db: db}
}

// CreateAttribute attaches a new attribute definition to a category.
// validationRules is stored verbatim; it is interpreted lazily through
// the rules package so a bad blob degrades to free text instead of
// failing the write.
func (s *attributeService) CreateAttribute(categoryID, name, slug string, dataType models.DataType, unit string, isRequired bool, defaultValue *string, validationRules string, sortOrder int) (*models.AttributeDefinition, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "attribute name is required")
	}
	switch dataType {
	case models.DataTypeNumber, models.DataTypeText, models.DataTypeDatetime,
		models.DataTypeBoolean, models.DataTypeLink, models.DataTypeImage:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown data type")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	if slug == "" {
		slug = rules.NormalizeSlug(strings.ReplaceAll(name, " ", "_"))
	}

	def := &models.AttributeDefinition{
		CategoryID:      categoryID,
		Name:            name,
		Slug:            slug,
		DataType:        dataType,
		Unit:            unit,
		IsRequired:      isRequired,
		DefaultValue:    defaultValue,
		ValidationRules: validationRules,
		SortOrder:       sortOrder,
	}
	if err := s.db.Create(def).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return def, nil
}

// GetAttributeByID retrieves an attribute definition by ID.
func (s *attributeService) GetAttributeByID(attributeID string) (*models.AttributeDefinition, error) {
	var def models.AttributeDefinition
	if err := s.db.Where("id = ?", attributeID).First(&def).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAttributeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &def, nil
}

// GetCategoryAttributes retrieves the definitions attached directly to
// one category, in display order.
func (s *attributeService) GetCategoryAttributes(categoryID string) ([]models.AttributeDefinition, error) {
	var defs []models.AttributeDefinition
	if err := s.db.
		Where("category_id = ?", categoryID).
		Order("sort_order, name").
		Find(&defs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return defs, nil
}

// GetChainAttributes retrieves the definitions for every category on a
// selection path, root-first: ancestors' attributes come before the
// leaf's, each group in its own display order. categoryIDs is
// root-first. Duplicate slugs are kept; resolution picks the first.
func (s *attributeService) GetChainAttributes(categoryIDs []string) ([]models.AttributeDefinition, error) {
	if len(categoryIDs) == 0 {
		return []models.AttributeDefinition{}, nil
	}

	var defs []models.AttributeDefinition
	if err := s.db.
		Where("category_id IN ?", categoryIDs).
		Order("sort_order, name").
		Find(&defs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Regroup in path order; IN gives no useful ordering across categories.
	byCategory := make(map[string][]models.AttributeDefinition, len(categoryIDs))
	for _, d := range defs {
		byCategory[d.CategoryID] = append(byCategory[d.CategoryID], d)
	}
	ordered := make([]models.AttributeDefinition, 0, len(defs))
	for _, id := range categoryIDs {
		ordered = append(ordered, byCategory[id]...)
	}
	return ordered, nil
}

// ResolveOptions computes the effective option set for one attribute on
// a selection path. slug tolerates case and separator drift; when the
// attribute's rules depend on a sibling, the sibling's current value is
// taken from siblingValues (also keyed tolerantly). Duplicate slugs on
// the path resolve to the first definition in path order.
func (s *attributeService) ResolveOptions(categoryIDs []string, slug string, siblingValues map[string]string) (*ResolvedOptions, error) {
	defs, err := s.GetChainAttributes(categoryIDs)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, len(defs))
	for i, d := range defs {
		slugs[i] = d.Slug
	}
	idx, ok := rules.FindBySlug(slugs, slug)
	if !ok {
		return nil, apperrors.ErrAttributeNotFound
	}
	def := defs[idx]

	opts := rules.Parse([]byte(def.ValidationRules))

	var depValue *string
	if opts.DependsOn != nil {
		if v, ok := lookupSiblingValue(siblingValues, opts.DependsOn.AttributeSlug); ok {
			depValue = &v
		}
	}

	return &ResolvedOptions{
		AttributeID: def.ID,
		Slug:        def.Slug,
		Kind:        opts.Kind,
		Options:     opts.OptionsFor(depValue),
		AllowOther:  opts.AllowOther,
	}, nil
}

// lookupSiblingValue finds a value by slug: exact key first, then
// normalized comparison.
func lookupSiblingValue(values map[string]string, slug string) (string, bool) {
	if v, ok := values[slug]; ok {
		return v, true
	}
	want := rules.NormalizeSlug(slug)
	for k, v := range values {
		if rules.NormalizeSlug(k) == want {
			return v, true
		}
	}
	return "", false
}

// GetLookupValues retrieves a named lookup list, optionally scoped to a
// parent key for dependent dropdowns.
func (s *attributeService) GetLookupValues(lookupName string, parentKey *string) ([]models.LookupValue, error) {
	q := s.db.Where("lookup_name = ?", lookupName)
	if parentKey != nil {
		q = q.Where("parent_key = ?", *parentKey)
	}
	var values []models.LookupValue
	if err := q.Order("sort_order, value").Find(&values).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return values, nil
}

// UpdateAttribute updates an existing attribute definition.
func (s *attributeService) UpdateAttribute(attributeID, name, unit string, isRequired *bool, defaultValue *string, validationRules *string, sortOrder *int) (*models.AttributeDefinition, error) {
	def, err := s.GetAttributeByID(attributeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if unit != "" {
		updates["unit"] = unit
	}
	if isRequired != nil {
		updates["is_required"] = *isRequired
	}
	if defaultValue != nil {
		updates["default_value"] = *defaultValue
	}
	if validationRules != nil {
		updates["validation_rules"] = *validationRules
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(def).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return def, nil
}

// DeleteAttribute soft-deletes an attribute definition. Existing event
// values keep their reference for historical records.
func (s *attributeService) DeleteAttribute(attributeID string) error {
	def, err := s.GetAttributeByID(attributeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(def).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
