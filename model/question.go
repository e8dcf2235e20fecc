package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionType represents the structural kind of a question
type QuestionType string

const (
	QuestionTypeSingleChoice       QuestionType = "single_choice"
	QuestionTypeMultipleChoice     QuestionType = "multiple_choice"
	QuestionTypeTrueFalse          QuestionType = "true_false"
	QuestionTypeAssertionReasoning QuestionType = "assertion_reasoning"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice,
		QuestionTypeTrueFalse, QuestionTypeAssertionReasoning:
		return true
	}
	return false
}

// Difficulty represents the difficulty rating of a question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question represents an exam item filed under a legacy hierarchy node.
// Deletion is always a soft delete via IsActive; rows are never removed.
type Question struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HumanID is the public structured identifier ({QB|PP}-ddddd-ddddddd).
	// Immutable after creation, unique across all hierarchy variants.
	HumanID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"human_id"`

	Text       string       `gorm:"type:text;not null" json:"text"`
	Type       QuestionType `gorm:"type:varchar(30);not null" json:"type"`
	Difficulty Difficulty   `gorm:"type:varchar(10);default:'medium'" json:"difficulty"`
	Points     int          `gorm:"default:1" json:"points"`
	TimeLimit  *int         `json:"time_limit,omitempty"` // seconds

	// Assertion/Reasoning are used only when Type is assertion_reasoning.
	Assertion string `gorm:"type:text" json:"assertion,omitempty"`
	Reasoning string `gorm:"type:text" json:"reasoning,omitempty"`

	// Ordered tag lists, serialized as JSON arrays.
	Tags       datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	SourceTags datatypes.JSON `gorm:"type:jsonb" json:"source_tags,omitempty"`
	ExamTags   datatypes.JSON `gorm:"type:jsonb" json:"exam_tags,omitempty"`

	// HierarchyItemID always references a legacy-variant node. Stored as an
	// opaque string rather than a foreign key: the human id may have been
	// derived from a different variant, the storage relationship is pinned
	// to legacy regardless.
	HierarchyItemID string `gorm:"type:varchar(36);index;not null" json:"hierarchy_item_id"`

	IsActive  bool    `gorm:"default:true;index" json:"is_active"`
	CreatedBy *string `gorm:"type:varchar(36)" json:"created_by,omitempty"`

	// Relationships
	Options []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionOption represents one answer option of a question
type QuestionOption struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	QuestionID  string    `gorm:"type:varchar(36);not null;index" json:"question_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsCorrect   bool      `gorm:"default:false" json:"is_correct"`
	Order       int       `gorm:"column:sort_order;not null" json:"order"`
	Explanation string    `gorm:"type:text" json:"explanation,omitempty"`
	References  string    `gorm:"type:text" json:"references,omitempty"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// ============= Response Types =============

// QuestionOptionResponse is used for API responses
type QuestionOptionResponse struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Order       int    `json:"order"`
	Explanation string `json:"explanation,omitempty"`
	References  string `json:"references,omitempty"`
}

// QuestionResponse is used for API responses
type QuestionResponse struct {
	ID              string                   `json:"id"`
	HumanID         string                   `json:"human_id"`
	Text            string                   `json:"text"`
	Type            QuestionType             `json:"type"`
	Difficulty      Difficulty               `json:"difficulty"`
	Points          int                      `json:"points"`
	TimeLimit       *int                     `json:"time_limit,omitempty"`
	Assertion       string                   `json:"assertion,omitempty"`
	Reasoning       string                   `json:"reasoning,omitempty"`
	Tags            []string                 `json:"tags"`
	SourceTags      []string                 `json:"source_tags"`
	ExamTags        []string                 `json:"exam_tags"`
	HierarchyItemID string                   `json:"hierarchy_item_id"`
	IsActive        bool                     `json:"is_active"`
	CreatedBy       *string                  `json:"created_by,omitempty"`
	Options         []QuestionOptionResponse `json:"options"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ToResponse converts Question model to QuestionResponse
func (q *Question) ToResponse() *QuestionResponse {
	response := &QuestionResponse{
		ID:              q.ID,
		HumanID:         q.HumanID,
		Text:            q.Text,
		Type:            q.Type,
		Difficulty:      q.Difficulty,
		Points:          q.Points,
		TimeLimit:       q.TimeLimit,
		Assertion:       q.Assertion,
		Reasoning:       q.Reasoning,
		Tags:            decodeStringList(q.Tags),
		SourceTags:      decodeStringList(q.SourceTags),
		ExamTags:        decodeStringList(q.ExamTags),
		HierarchyItemID: q.HierarchyItemID,
		IsActive:        q.IsActive,
		CreatedBy:       q.CreatedBy,
		Options:         make([]QuestionOptionResponse, 0, len(q.Options)),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}

	for _, opt := range q.Options {
		response.Options = append(response.Options, QuestionOptionResponse{
			ID:          opt.ID,
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			Order:       opt.Order,
			Explanation: opt.Explanation,
			References:  opt.References,
		})
	}

	return response
}

// QuestionSummary is a lightweight version for listing
type QuestionSummary struct {
	ID              string       `json:"id"`
	HumanID         string       `json:"human_id"`
	Text            string       `json:"text"`
	Type            QuestionType `json:"type"`
	Difficulty      Difficulty   `json:"difficulty"`
	Points          int          `json:"points"`
	HierarchyItemID string       `json:"hierarchy_item_id"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ToSummary converts Question to QuestionSummary
func (q *Question) ToSummary() QuestionSummary {
	return QuestionSummary{
		ID:              q.ID,
		HumanID:         q.HumanID,
		Text:            q.Text,
		Type:            q.Type,
		Difficulty:      q.Difficulty,
		Points:          q.Points,
		HierarchyItemID: q.HierarchyItemID,
		IsActive:        q.IsActive,
		CreatedAt:       q.CreatedAt,
	}
}
