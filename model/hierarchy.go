package model

import (
	"time"
)

// HierarchyVariant identifies which of the three coexisting hierarchy schemas
// owns a node. The same id value never means the same node across variants.
type HierarchyVariant string

const (
	VariantQuestionBank   HierarchyVariant = "question-bank"
	VariantPreviousPapers HierarchyVariant = "previous-papers"
	VariantLegacy         HierarchyVariant = "legacy"
)

// Hierarchy levels. A node at level L (L != 1) must have a parent at level L-1.
const (
	LevelYear    = 1
	LevelSubject = 2
	LevelPart    = 3
	LevelSection = 4
	LevelChapter = 5

	MaxHierarchyDepth = 5
)

// LevelName returns the display name for a hierarchy level.
func LevelName(level int) string {
	switch level {
	case LevelYear:
		return "Year"
	case LevelSubject:
		return "Subject"
	case LevelPart:
		return "Part"
	case LevelSection:
		return "Section"
	case LevelChapter:
		return "Chapter"
	default:
		return "Unknown"
	}
}

// HierarchyNode is the variant-neutral view of a classification node.
// Services operate on this shape so they never branch on the storage variant.
type HierarchyNode struct {
	ID            string
	Name          string
	Level         int
	ParentID      *string
	Order         int
	QuestionCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HierarchyItem is the legacy hierarchy table. Questions are always filed
// against a legacy node id, even when their human id was derived from one of
// the newer variants.
type HierarchyItem struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Level         int       `gorm:"not null;index" json:"level"`
	ParentID      *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	Order         int       `gorm:"column:sort_order;not null;default:1" json:"order"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
}

func (HierarchyItem) TableName() string {
	return "hierarchy_items"
}

// ToNode converts the legacy row to the variant-neutral view.
func (h *HierarchyItem) ToNode() HierarchyNode {
	return HierarchyNode{
		ID:            h.ID,
		Name:          h.Name,
		Level:         h.Level,
		ParentID:      h.ParentID,
		Order:         h.Order,
		QuestionCount: h.QuestionCount,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// QuestionBankItem is the question-bank variant of the hierarchy. Structurally
// identical to HierarchyItem but stored in its own table.
type QuestionBankItem struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Level         int       `gorm:"not null;index" json:"level"`
	ParentID      *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	Order         int       `gorm:"column:sort_order;not null;default:1" json:"order"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
}

func (QuestionBankItem) TableName() string {
	return "qb_hierarchy_items"
}

func (h *QuestionBankItem) ToNode() HierarchyNode {
	return HierarchyNode{
		ID:            h.ID,
		Name:          h.Name,
		Level:         h.Level,
		ParentID:      h.ParentID,
		Order:         h.Order,
		QuestionCount: h.QuestionCount,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// PreviousPaperItem is the previous-papers variant of the hierarchy.
type PreviousPaperItem struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Level         int       `gorm:"not null;index" json:"level"`
	ParentID      *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	Order         int       `gorm:"column:sort_order;not null;default:1" json:"order"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
}

func (PreviousPaperItem) TableName() string {
	return "pp_hierarchy_items"
}

func (h *PreviousPaperItem) ToNode() HierarchyNode {
	return HierarchyNode{
		ID:            h.ID,
		Name:          h.Name,
		Level:         h.Level,
		ParentID:      h.ParentID,
		Order:         h.Order,
		QuestionCount: h.QuestionCount,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// HierarchyNodeResponse is used for API responses
type HierarchyNodeResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Level         int              `json:"level"`
	LevelName     string           `json:"level_name"`
	ParentID      *string          `json:"parent_id"`
	Order         int              `json:"order"`
	QuestionCount int              `json:"question_count"`
	Variant       HierarchyVariant `json:"variant,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToResponse converts a HierarchyNode to its API shape.
func (n HierarchyNode) ToResponse(variant HierarchyVariant) HierarchyNodeResponse {
	return HierarchyNodeResponse{
		ID:            n.ID,
		Name:          n.Name,
		Level:         n.Level,
		LevelName:     LevelName(n.Level),
		ParentID:      n.ParentID,
		Order:         n.Order,
		QuestionCount: n.QuestionCount,
		Variant:       variant,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}
