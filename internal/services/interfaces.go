package services

import (
	"time"

	"arbor/internal/models"
	"arbor/internal/pagination"
	"arbor/internal/rules"
)

// AreaServicer defines the contract for area-related business logic.
type AreaServicer interface {
	CreateArea(name, description, icon, color string, sortOrder int) (*models.Area, error)
	GetAreas() ([]models.Area, error)
	GetAreaByID(areaID string) (*models.Area, error)
	UpdateArea(areaID, name, description, icon, color string, sortOrder *int) (*models.Area, error)
	DeleteArea(areaID string) error
}

// CategoryServicer defines the contract for category-tree business logic.
type CategoryServicer interface {
	CreateCategory(areaID, parentID *string, name, slug, description string, sortOrder int) (*models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	GetTopLevelCategories(areaID string) ([]models.Category, error)
	GetChildren(parentID string) ([]models.Category, error)
	IsLeaf(categoryID string) (bool, error)
	GetAncestorPath(categoryID string) ([]models.Category, error)
	GetDescendantIDs(categoryID string) ([]string, error)
	UpdateCategory(categoryID, name, description string, sortOrder *int, parentID *string) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// ResolvedOptions is the effective option set for one attribute after
// dependency resolution.
type ResolvedOptions struct {
	AttributeID string     `json:"attribute_id"`
	Slug        string     `json:"slug"`
	Kind        rules.Kind `json:"kind"`
	Options     []string   `json:"options"`
	AllowOther  bool       `json:"allow_other"`
}

// AttributeServicer defines the contract for attribute-definition logic,
// including validation-rule interpretation and dependent option
// resolution.
type AttributeServicer interface {
	CreateAttribute(categoryID, name, slug string, dataType models.DataType, unit string, isRequired bool, defaultValue *string, validationRules string, sortOrder int) (*models.AttributeDefinition, error)
	GetAttributeByID(attributeID string) (*models.AttributeDefinition, error)
	GetCategoryAttributes(categoryID string) ([]models.AttributeDefinition, error)
	GetChainAttributes(categoryIDs []string) ([]models.AttributeDefinition, error)
	ResolveOptions(categoryIDs []string, slug string, siblingValues map[string]string) (*ResolvedOptions, error)
	GetLookupValues(lookupName string, parentKey *string) ([]models.LookupValue, error)
	UpdateAttribute(attributeID, name, unit string, isRequired *bool, defaultValue *string, validationRules *string, sortOrder *int) (*models.AttributeDefinition, error)
	DeleteAttribute(attributeID string) error
}

// AttributeInput is one attribute value supplied when logging an event.
// Value is loosely typed and validated against the definition's data
// type before storage.
type AttributeInput struct {
	Slug  string `json:"slug" binding:"required"`
	Value any    `json:"value"`
}

// EventFilter holds optional filter parameters for listing events.
type EventFilter struct {
	AreaID     *string
	CategoryID *string
	DateFrom   *string
	DateTo     *string
	Search     string
}

// EventServicer defines the contract for event-logging business logic.
type EventServicer interface {
	CreateEvent(categoryID, eventDate string, sessionStart *time.Time, comment *string, attrs []AttributeInput) (*models.Event, error)
	GetEventByID(eventID string) (*models.Event, error)
	GetEvents(page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error)
	UpdateEventComment(eventID string, comment *string) (*models.Event, error)
	DeleteEvent(eventID string) error
}

// PresetServicer defines the contract for activity-preset shortcuts.
type PresetServicer interface {
	CreatePreset(name string, areaID, categoryID *string) (*models.ActivityPreset, error)
	GetPresets() ([]models.ActivityPreset, error)
	UsePreset(presetID string) (*models.ActivityPreset, error)
	DeletePreset(presetID string) error
}
