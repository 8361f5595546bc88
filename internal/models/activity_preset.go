package models

import "time"

// ActivityPreset is a saved navigation shortcut: jump straight to an
// area/category pair. Presets are ordered by how often they are used.
type ActivityPreset struct {
	Base
	Name       string     `gorm:"not null" json:"name"`
	AreaID     *string    `gorm:"type:uuid" json:"area_id,omitempty"`
	CategoryID *string    `gorm:"type:uuid" json:"category_id,omitempty"`
	UsageCount int        `gorm:"not null;default:0" json:"usage_count"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
}
