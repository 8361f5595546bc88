package models

// Area is a root-level grouping that owns zero or more level-1 categories.
type Area struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	SortOrder   int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	Categories []Category `gorm:"foreignKey:AreaID" json:"categories,omitempty"`
}
