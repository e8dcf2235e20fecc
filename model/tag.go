package model

import (
	"time"
)

// TagCategory scopes a tag name. The same name may exist once per category.
type TagCategory string

const (
	TagCategorySources TagCategory = "sources"
	TagCategoryExams   TagCategory = "exams"
)

// Valid reports whether c is a known tag category.
func (c TagCategory) Valid() bool {
	return c == TagCategorySources || c == TagCategoryExams
}

// Tag is a reusable, usage-counted label. (name, category) is unique;
// re-adding an existing pair increments UsageCount and reactivates it.
type Tag struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Name       string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_tags_name_category" json:"name"`
	Category   TagCategory `gorm:"type:varchar(20);not null;uniqueIndex:idx_tags_name_category" json:"category"`
	UsageCount int         `gorm:"not null;default:1" json:"usage_count"`
	IsPreset   bool        `gorm:"default:false" json:"is_preset"`
	IsActive   bool        `gorm:"default:true;index" json:"is_active"`
	CreatedBy  *string     `gorm:"type:varchar(36)" json:"created_by,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

// TagResponse is used for API responses
type TagResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Category   TagCategory `json:"category"`
	UsageCount int         `json:"usage_count"`
	IsPreset   bool        `json:"is_preset"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ToResponse converts Tag model to TagResponse
func (t *Tag) ToResponse() TagResponse {
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		Category:   t.Category,
		UsageCount: t.UsageCount,
		IsPreset:   t.IsPreset,
		IsActive:   t.IsActive,
		CreatedAt:  t.CreatedAt,
	}
}
