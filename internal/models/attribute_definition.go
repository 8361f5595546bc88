package models

// DataType enumerates the value types an attribute can hold.
type DataType string

const (
	DataTypeNumber   DataType = "number"
	DataTypeText     DataType = "text"
	DataTypeDatetime DataType = "datetime"
	DataTypeBoolean  DataType = "boolean"
	DataTypeLink     DataType = "link"
	DataTypeImage    DataType = "image"
)

// AttributeDefinition is a typed field attached to exactly one category.
// ValidationRules holds the raw rule blob; it is only ever interpreted
// through the rules package, never inspected directly.
type AttributeDefinition struct {
	Base
	CategoryID      string   `gorm:"type:uuid;not null;index" json:"category_id"`
	Name            string   `gorm:"not null" json:"name"`
	Slug            string   `gorm:"not null;index" json:"slug"`
	Description     string   `json:"description"`
	DataType        DataType `gorm:"not null" json:"data_type"`
	Unit            string   `json:"unit"`
	IsRequired      bool     `gorm:"not null;default:false" json:"is_required"`
	DefaultValue    *string  `json:"default_value,omitempty"`
	ValidationRules string   `json:"validation_rules"`
	SortOrder       int      `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
