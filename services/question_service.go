package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/sahilchouksey/qbank-api/model"
	"gorm.io/gorm"
)

// humanIDInsertAttempts bounds the regenerate-and-retry loop on a human id
// collision. The atomic allocator makes collisions rare; the unique index on
// human_id is the backstop.
const humanIDInsertAttempts = 3

// QuestionService handles the question lifecycle: creation with identity
// derivation, lookup, scalar updates with wholesale option replacement, and
// soft deletion.
type QuestionService struct {
	db        *gorm.DB
	hierarchy *HierarchyService
	generator *HumanIDGenerator
	tags      *TagService
}

// NewQuestionService creates a new question service.
func NewQuestionService(db *gorm.DB, hierarchy *HierarchyService, generator *HumanIDGenerator, tags *TagService) *QuestionService {
	return &QuestionService{
		db:        db,
		hierarchy: hierarchy,
		generator: generator,
		tags:      tags,
	}
}

// CreateQuestionInput carries a question-creation request.
type CreateQuestionInput struct {
	Text            string
	Type            model.QuestionType
	Difficulty      model.Difficulty
	Points          int
	TimeLimit       *int
	Assertion       string
	Reasoning       string
	Tags            []string
	SourceTags      []string
	ExamTags        []string
	HierarchyItemID string
	Options         []OptionInput
	CreatedBy       *string
}

// Create files a new question: the target node is classified against the
// hierarchy variants, the option structure is validated, the human id is
// derived, and the question plus its options are inserted atomically. Tag
// upserts and the hierarchy recount run after the insert; the recount is
// best-effort.
func (s *QuestionService) Create(input CreateQuestionInput) (*model.Question, error) {
	resolved, err := s.hierarchy.Resolver().Resolve(input.HierarchyItemID)
	if err != nil {
		return nil, err
	}

	if err := ValidateQuestionStructure(input.Type, input.Options, input.Assertion, input.Reasoning); err != nil {
		return nil, err
	}

	if input.Difficulty == "" {
		input.Difficulty = model.DifficultyMedium
	}
	if input.Points <= 0 {
		input.Points = 1
	}

	question := model.Question{
		ID:              uuid.New().String(),
		Text:            input.Text,
		Type:            input.Type,
		Difficulty:      input.Difficulty,
		Points:          input.Points,
		TimeLimit:       input.TimeLimit,
		Assertion:       input.Assertion,
		Reasoning:       input.Reasoning,
		Tags:            model.EncodeStringList(input.Tags),
		SourceTags:      model.EncodeStringList(input.SourceTags),
		ExamTags:        model.EncodeStringList(input.ExamTags),
		HierarchyItemID: input.HierarchyItemID,
		IsActive:        true,
		CreatedBy:       input.CreatedBy,
	}

	for i, opt := range input.Options {
		question.Options = append(question.Options, model.QuestionOption{
			ID:          uuid.New().String(),
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			Order:       i + 1,
			Explanation: opt.Explanation,
			References:  opt.References,
		})
	}

	// Insert under a fresh human id; on a unique-index collision regenerate
	// and retry a bounded number of times instead of failing the creation.
	var insertErr error
	for attempt := 0; attempt < humanIDInsertAttempts; attempt++ {
		humanID, degraded := s.generator.Generate(resolved)
		if degraded {
			log.Printf("question create: degraded human id %s for node %s", humanID, input.HierarchyItemID)
		}
		question.HumanID = humanID

		insertErr = s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&question).Error
		})
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, gorm.ErrDuplicatedKey) {
			return nil, insertErr
		}
		log.Printf("question create: human id %s already taken, regenerating", question.HumanID)
	}
	if insertErr != nil {
		return nil, insertErr
	}

	s.tags.ProcessQuestionTags(input.SourceTags, input.ExamTags, input.CreatedBy)
	s.hierarchy.RecountQuestionsBestEffort(input.HierarchyItemID)

	return &question, nil
}

// GetByID fetches a question with its options by opaque id.
func (s *QuestionService) GetByID(id string) (*model.Question, error) {
	var question model.Question
	if err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("question", id)
		}
		return nil, err
	}
	return &question, nil
}

// GetByHumanID fetches a question with its options by public identifier.
func (s *QuestionService) GetByHumanID(humanID string) (*model.Question, error) {
	var question model.Question
	if err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&question, "human_id = ?", humanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("question", humanID)
		}
		return nil, err
	}
	return &question, nil
}

// ListQuestionsFilter narrows a question listing.
type ListQuestionsFilter struct {
	HierarchyItemID string
	Type            model.QuestionType
	Difficulty      model.Difficulty
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

// List returns a page of questions plus the total matching count.
func (s *QuestionService) List(filter ListQuestionsFilter) ([]model.Question, int64, error) {
	query := s.db.Model(&model.Question{})

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.HierarchyItemID != "" {
		query = query.Where("hierarchy_item_id = ?", filter.HierarchyItemID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		query = query.Where("(text ILIKE ? OR human_id ILIKE ?)", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var questions []model.Question
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// UpdateQuestionInput patches scalar fields; nil pointers leave the field
// untouched. Options, when supplied, replace the existing set wholesale.
type UpdateQuestionInput struct {
	Text       *string
	Type       *model.QuestionType
	Difficulty *model.Difficulty
	Points     *int
	TimeLimit  *int
	Assertion  *string
	Reasoning  *string
	Tags       []string
	SourceTags []string
	ExamTags   []string
	Options    []OptionInput
}

// Update patches a question. Whenever the type or the option set changes the
// combined result is re-validated before anything is written; the option
// replacement is a delete-then-recreate inside the same transaction as the
// scalar patch.
func (s *QuestionService) Update(id string, input UpdateQuestionInput) (*model.Question, error) {
	question, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	newType := question.Type
	if input.Type != nil {
		newType = *input.Type
	}
	newAssertion := question.Assertion
	if input.Assertion != nil {
		newAssertion = *input.Assertion
	}
	newReasoning := question.Reasoning
	if input.Reasoning != nil {
		newReasoning = *input.Reasoning
	}

	// Revalidate when the type or options are supplied; reuse the stored
	// options when only the type changes.
	if input.Type != nil || input.Options != nil {
		checkOptions := input.Options
		if checkOptions == nil {
			checkOptions = make([]OptionInput, 0, len(question.Options))
			for _, opt := range question.Options {
				checkOptions = append(checkOptions, OptionInput{
					Text:        opt.Text,
					IsCorrect:   opt.IsCorrect,
					Explanation: opt.Explanation,
					References:  opt.References,
				})
			}
		}
		if err := ValidateQuestionStructure(newType, checkOptions, newAssertion, newReasoning); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if input.Text != nil {
			updates["text"] = *input.Text
		}
		if input.Type != nil {
			updates["type"] = *input.Type
		}
		if input.Difficulty != nil {
			updates["difficulty"] = *input.Difficulty
		}
		if input.Points != nil {
			updates["points"] = *input.Points
		}
		if input.TimeLimit != nil {
			updates["time_limit"] = *input.TimeLimit
		}
		if input.Assertion != nil {
			updates["assertion"] = *input.Assertion
		}
		if input.Reasoning != nil {
			updates["reasoning"] = *input.Reasoning
		}
		if input.Tags != nil {
			updates["tags"] = model.EncodeStringList(input.Tags)
		}
		if input.SourceTags != nil {
			updates["source_tags"] = model.EncodeStringList(input.SourceTags)
		}
		if input.ExamTags != nil {
			updates["exam_tags"] = model.EncodeStringList(input.ExamTags)
		}

		if len(updates) > 0 {
			if err := tx.Model(&model.Question{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.Options != nil {
			if err := tx.Where("question_id = ?", id).Delete(&model.QuestionOption{}).Error; err != nil {
				return err
			}
			for i, opt := range input.Options {
				option := model.QuestionOption{
					ID:          uuid.New().String(),
					QuestionID:  id,
					Text:        opt.Text,
					IsCorrect:   opt.IsCorrect,
					Order:       i + 1,
					Explanation: opt.Explanation,
					References:  opt.References,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.SourceTags != nil || input.ExamTags != nil {
		s.tags.ProcessQuestionTags(input.SourceTags, input.ExamTags, question.CreatedBy)
	}

	return s.GetByID(id)
}

// SoftDelete flips IsActive off and refreshes the owning node's question
// count. The row is never physically removed.
func (s *QuestionService) SoftDelete(id string) error {
	question, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !question.IsActive {
		return nil
	}

	if err := s.db.Model(&model.Question{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		return err
	}

	s.hierarchy.RecountQuestionsBestEffort(question.HierarchyItemID)
	return nil
}
