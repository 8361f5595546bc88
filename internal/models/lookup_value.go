package models

// LookupValue is a row in a named lookup list, optionally scoped under a
// parent key for dependent dropdowns.
type LookupValue struct {
	Base
	LookupName string  `gorm:"not null;index" json:"lookup_name"`
	ParentKey  *string `gorm:"index" json:"parent_key,omitempty"`
	Value      string  `gorm:"not null" json:"value"`
	SortOrder  int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}
