package tag

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

// TagHandler handles tag-related requests
type TagHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(db *gorm.DB, service *services.TagService) *TagHandler {
	return &TagHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   service,
	}
}

// UpsertTagRequest represents the request body for registering a tag use
type UpsertTagRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,oneof=sources exams"`
}

// UpsertTag handles POST /api/v1/tags
// Idempotent: re-adding an existing (name, category) bumps its usage count
// and reactivates it instead of duplicating.
func (h *TagHandler) UpsertTag(c *fiber.Ctx) error {
	var req UpsertTagRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	tag, err := h.service.Upsert(req.Name, model.TagCategory(req.Category), middleware.UserID(c), false)
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		return response.InternalServerError(c, "Failed to upsert tag")
	}

	return response.Success(c, tag.ToResponse())
}

// ListTags handles GET /api/v1/tags?category=sources&limit=20
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	category := model.TagCategory(c.Query("category", string(model.TagCategorySources)))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	tags, err := h.service.ListByCategory(category, limit)
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		return response.InternalServerError(c, "Failed to fetch tags")
	}

	result := make([]model.TagResponse, 0, len(tags))
	for i := range tags {
		result = append(result, tags[i].ToResponse())
	}
	return response.Success(c, result)
}

// SuggestTags handles GET /api/v1/tags/suggestions?category=exams&limit=20
// Serves the frequency-ranked suggestion pool, cached when Redis is up.
func (h *TagHandler) SuggestTags(c *fiber.Ctx) error {
	category := model.TagCategory(c.Query("category", string(model.TagCategorySources)))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	suggestions, err := h.service.Suggestions(c.Context(), category, limit)
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		return response.InternalServerError(c, "Failed to fetch tag suggestions")
	}

	return response.Success(c, suggestions)
}

// DeactivateTag handles POST /api/v1/tags/:id/deactivate
func (h *TagHandler) DeactivateTag(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Deactivate(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Tag not found")
		}
		return response.InternalServerError(c, "Failed to deactivate tag")
	}

	return response.NoContent(c)
}

// DeleteTag handles DELETE /api/v1/tags/:id
// Hard delete, independent of usage count.
func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Tag not found")
		}
		return response.InternalServerError(c, "Failed to delete tag")
	}

	return response.NoContent(c)
}
