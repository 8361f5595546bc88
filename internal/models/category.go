package models

// Category is a node in the strict category tree. Level 1 nodes hang
// directly under an Area (ParentCategoryID is nil); deeper nodes
// reference their parent category. Events may only be logged against
// leaf categories.
type Category struct {
	Base
	AreaID           *string `gorm:"type:uuid;index" json:"area_id,omitempty"`
	ParentCategoryID *string `gorm:"type:uuid;index" json:"parent_category_id,omitempty"`
	Name             string  `gorm:"not null" json:"name"`
	Slug             string  `gorm:"index" json:"slug"`
	Description      string  `json:"description"`
	Level            int     `gorm:"not null;default:1" json:"level"`
	SortOrder        int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	Area       *Area                 `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	Parent     *Category             `gorm:"foreignKey:ParentCategoryID" json:"parent,omitempty"`
	Children   []Category            `gorm:"foreignKey:ParentCategoryID" json:"children,omitempty"`
	Attributes []AttributeDefinition `gorm:"foreignKey:CategoryID" json:"attributes,omitempty"`
}
