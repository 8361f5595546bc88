package models

import "time"

// Event is a time-stamped log entry against a leaf category.
type Event struct {
	Base
	CategoryID   string     `gorm:"type:uuid;not null;index" json:"category_id"`
	EventDate    string     `gorm:"not null;index" json:"event_date"` // YYYY-MM-DD, stored as text so it round-trips verbatim
	SessionStart *time.Time `json:"session_start,omitempty"`
	Comment      *string    `json:"comment,omitempty"`

	Category   *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Attributes []EventAttribute `gorm:"foreignKey:EventID" json:"attributes,omitempty"`
}

// EventAttribute is one EAV row: a typed value for a single attribute
// definition on a single event. Exactly one value column is populated,
// matching the definition's data type.
type EventAttribute struct {
	Base
	EventID               string     `gorm:"type:uuid;not null;index" json:"event_id"`
	AttributeDefinitionID string     `gorm:"type:uuid;not null;index" json:"attribute_definition_id"`
	ValueText             *string    `json:"value_text,omitempty"`
	ValueNumber           *float64   `json:"value_number,omitempty"`
	ValueBoolean          *bool      `json:"value_boolean,omitempty"`
	ValueDatetime         *time.Time `json:"value_datetime,omitempty"`

	Definition *AttributeDefinition `gorm:"foreignKey:AttributeDefinitionID" json:"definition,omitempty"`
}
