package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestArea creates an area with a unique name.
func CreateTestArea(t *testing.T, db *gorm.DB) *models.Area {
	t.Helper()

	area := &models.Area{
		Name:  fmt.Sprintf("Test Area %d", nextID()),
		Color: "#4A90D9",
	}
	if err := db.Create(area).Error; err != nil {
		t.Fatalf("failed to create test area: %v", err)
	}
	return area
}

// CreateTestCategory creates a level-1 category under the given area.
func CreateTestCategory(t *testing.T, db *gorm.DB, areaID string) *models.Category {
	t.Helper()

	category := &models.Category{
		AreaID: &areaID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Level:  1,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates a category one level below parent,
// inheriting its area.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, parent *models.Category) *models.Category {
	t.Helper()

	category := &models.Category{
		AreaID:           parent.AreaID,
		ParentCategoryID: &parent.ID,
		Name:             fmt.Sprintf("Test Child %d", nextID()),
		Level:            parent.Level + 1,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test child category: %v", err)
	}
	return category
}

// CreateTestAttribute creates a text attribute on the given category.
func CreateTestAttribute(t *testing.T, db *gorm.DB, categoryID string) *models.AttributeDefinition {
	t.Helper()
	return CreateTestAttributeWithRules(t, db, categoryID, models.DataTypeText, "")
}

// CreateTestAttributeWithRules creates an attribute with the given data
// type and raw validation-rules blob.
func CreateTestAttributeWithRules(t *testing.T, db *gorm.DB, categoryID string, dataType models.DataType, validationRules string) *models.AttributeDefinition {
	t.Helper()

	n := nextID()
	def := &models.AttributeDefinition{
		CategoryID:      categoryID,
		Name:            fmt.Sprintf("Test Attribute %d", n),
		Slug:            fmt.Sprintf("test_attribute_%d", n),
		DataType:        dataType,
		ValidationRules: validationRules,
	}
	if err := db.Create(def).Error; err != nil {
		t.Fatalf("failed to create test attribute: %v", err)
	}
	return def
}

// CreateTestEvent creates an event against the given category.
func CreateTestEvent(t *testing.T, db *gorm.DB, categoryID string, eventDate string) *models.Event {
	t.Helper()

	event := &models.Event{
		CategoryID: categoryID,
		EventDate:  eventDate,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestLookupValue creates a row in a named lookup list.
func CreateTestLookupValue(t *testing.T, db *gorm.DB, lookupName, value string, parentKey *string) *models.LookupValue {
	t.Helper()

	lv := &models.LookupValue{
		LookupName: lookupName,
		ParentKey:  parentKey,
		Value:      value,
	}
	if err := db.Create(lv).Error; err != nil {
		t.Fatalf("failed to create test lookup value: %v", err)
	}
	return lv
}

// CreateTestPreset creates an activity preset pointing at the given
// area and category.
func CreateTestPreset(t *testing.T, db *gorm.DB, areaID, categoryID *string) *models.ActivityPreset {
	t.Helper()

	preset := &models.ActivityPreset{
		Name:       fmt.Sprintf("Test Preset %d", nextID()),
		AreaID:     areaID,
		CategoryID: categoryID,
	}
	if err := db.Create(preset).Error; err != nil {
		t.Fatalf("failed to create test preset: %v", err)
	}
	return preset
}
