package question

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/qbank-api/model"
	"github.com/sahilchouksey/qbank-api/services"
	"github.com/sahilchouksey/qbank-api/utils/middleware"
	"github.com/sahilchouksey/qbank-api/utils/response"
	"github.com/sahilchouksey/qbank-api/utils/validation"
	"gorm.io/gorm"
)

// QuestionHandler handles question-related requests
type QuestionHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(db *gorm.DB, service *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   service,
	}
}

// OptionRequest represents one answer option in a request body
type OptionRequest struct {
	Text        string `json:"text" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation" validate:"omitempty,max=2000"`
	References  string `json:"references" validate:"omitempty,max=2000"`
}

// CreateQuestionRequest represents the request body for creating a question
type CreateQuestionRequest struct {
	Text            string          `json:"text" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=single_choice multiple_choice true_false assertion_reasoning"`
	Difficulty      string          `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Points          int             `json:"points" validate:"omitempty,min=1,max=100"`
	TimeLimit       *int            `json:"time_limit" validate:"omitempty,min=1"`
	Assertion       string          `json:"assertion"`
	Reasoning       string          `json:"reasoning"`
	Tags            []string        `json:"tags"`
	SourceTags      []string        `json:"source_tags"`
	ExamTags        []string        `json:"exam_tags"`
	HierarchyItemID string          `json:"hierarchy_item_id" validate:"required"`
	Options         []OptionRequest `json:"options" validate:"dive"`
}

// UpdateQuestionRequest represents the request body for updating a question.
// Omitted fields are left untouched; a supplied options list replaces the
// existing set wholesale.
type UpdateQuestionRequest struct {
	Text       *string         `json:"text" validate:"omitempty,min=1"`
	Type       *string         `json:"type" validate:"omitempty,oneof=single_choice multiple_choice true_false assertion_reasoning"`
	Difficulty *string         `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Points     *int            `json:"points" validate:"omitempty,min=1,max=100"`
	TimeLimit  *int            `json:"time_limit" validate:"omitempty,min=1"`
	Assertion  *string         `json:"assertion"`
	Reasoning  *string         `json:"reasoning"`
	Tags       []string        `json:"tags"`
	SourceTags []string        `json:"source_tags"`
	ExamTags   []string        `json:"exam_tags"`
	Options    []OptionRequest `json:"options" validate:"omitempty,dive"`
}

func toOptionInputs(options []OptionRequest) []services.OptionInput {
	if options == nil {
		return nil
	}
	inputs := make([]services.OptionInput, 0, len(options))
	for _, opt := range options {
		inputs = append(inputs, services.OptionInput{
			Text:        opt.Text,
			IsCorrect:   opt.IsCorrect,
			Explanation: opt.Explanation,
			References:  opt.References,
		})
	}
	return inputs
}

// CreateQuestion handles POST /api/v1/questions
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var req CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	question, err := h.service.Create(services.CreateQuestionInput{
		Text:            req.Text,
		Type:            model.QuestionType(req.Type),
		Difficulty:      model.Difficulty(req.Difficulty),
		Points:          req.Points,
		TimeLimit:       req.TimeLimit,
		Assertion:       req.Assertion,
		Reasoning:       req.Reasoning,
		Tags:            req.Tags,
		SourceTags:      req.SourceTags,
		ExamTags:        req.ExamTags,
		HierarchyItemID: req.HierarchyItemID,
		Options:         toOptionInputs(req.Options),
		CreatedBy:       middleware.UserID(c),
	})
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to create question")
	}

	return response.Created(c, question.ToResponse())
}

// GetQuestion handles GET /api/v1/questions/:id
// The id may be the opaque id or the public human id (QB-... / PP-...).
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	var question *model.Question
	var err error
	if len(id) > 3 && (id[:3] == "QB-" || id[:3] == "PP-") {
		question, err = h.service.GetByHumanID(id)
	} else {
		question, err = h.service.GetByID(id)
	}
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Question not found")
		}
		return response.InternalServerError(c, "Failed to fetch question")
	}

	return response.Success(c, question.ToResponse())
}

// ListQuestions handles GET /api/v1/questions
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	filter := services.ListQuestionsFilter{
		HierarchyItemID: c.Query("hierarchy_item_id"),
		Type:            model.QuestionType(c.Query("type")),
		Difficulty:      model.Difficulty(c.Query("difficulty")),
		Search:          c.Query("search"),
		IncludeInactive: c.Query("include_inactive") == "true",
		Page:            page,
		Limit:           limit,
	}

	questions, total, err := h.service.List(filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch questions")
	}

	summaries := make([]model.QuestionSummary, 0, len(questions))
	for i := range questions {
		summaries = append(summaries, questions[i].ToSummary())
	}

	return response.Paginated(c, summaries, response.CalculatePagination(page, limit, total))
}

// UpdateQuestion handles PUT /api/v1/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	input := services.UpdateQuestionInput{
		Text:       req.Text,
		Points:     req.Points,
		TimeLimit:  req.TimeLimit,
		Assertion:  req.Assertion,
		Reasoning:  req.Reasoning,
		Tags:       req.Tags,
		SourceTags: req.SourceTags,
		ExamTags:   req.ExamTags,
		Options:    toOptionInputs(req.Options),
	}
	if req.Type != nil {
		qType := model.QuestionType(*req.Type)
		input.Type = &qType
	}
	if req.Difficulty != nil {
		difficulty := model.Difficulty(*req.Difficulty)
		input.Difficulty = &difficulty
	}

	question, err := h.service.Update(id, input)
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Question not found")
		}
		return response.InternalServerError(c, "Failed to update question")
	}

	return response.Success(c, question.ToResponse())
}

// DeleteQuestion handles DELETE /api/v1/questions/:id
// Questions are soft-deleted: the row stays, is_active flips off, and the
// owning hierarchy node's count is refreshed.
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.SoftDelete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Question not found")
		}
		return response.InternalServerError(c, "Failed to delete question")
	}

	return response.NoContent(c)
}
