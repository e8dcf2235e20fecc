package hierarchy

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/qbank-api/model"
	"github.com/sahilchouksey/qbank-api/services"
	"github.com/sahilchouksey/qbank-api/utils/response"
	"github.com/sahilchouksey/qbank-api/utils/validation"
	"gorm.io/gorm"
)

// HierarchyHandler handles hierarchy-related requests
type HierarchyHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.HierarchyService
	encoder   *services.LevelCodeEncoder
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(db *gorm.DB, service *services.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   service,
		encoder:   services.NewLevelCodeEncoder(service.Store()),
	}
}

// variantFromQuery reads the ?variant= parameter, defaulting to legacy.
func variantFromQuery(c *fiber.Ctx) (model.HierarchyVariant, error) {
	raw := c.Query("variant", string(model.VariantLegacy))
	variant := model.HierarchyVariant(raw)
	switch variant {
	case model.VariantLegacy, model.VariantQuestionBank, model.VariantPreviousPapers:
		return variant, nil
	}
	return "", errors.New("unknown variant")
}

// CreateNodeRequest represents the request body for creating a hierarchy node
type CreateNodeRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Level    int     `json:"level" validate:"required,min=1,max=5"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid4"`
}

// UpdateNodeRequest represents the request body for renaming a node
type UpdateNodeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ReorderRequest represents the request body for a reorder batch
type ReorderRequest struct {
	Items []services.ReorderItem `json:"items" validate:"required,min=1,dive"`
}

// ListNodes handles GET /api/v1/hierarchy
// Returns roots, or the children of ?parent_id=, within ?variant= (default legacy).
func (h *HierarchyHandler) ListNodes(c *fiber.Ctx) error {
	variant, err := variantFromQuery(c)
	if err != nil {
		return response.BadRequest(c, "Unknown hierarchy variant")
	}

	var parentID *string
	if raw := c.Query("parent_id"); raw != "" {
		parentID = &raw
	}

	nodes, err := h.service.ListChildren(variant, parentID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch hierarchy items")
	}

	result := make([]model.HierarchyNodeResponse, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.ToResponse(variant))
	}
	return response.Success(c, result)
}

// ResolveNode handles GET /api/v1/hierarchy/:id/resolve
// Classifies the node against the three variants and returns the variant,
// the root-ward path and the derived level code.
func (h *HierarchyHandler) ResolveNode(c *fiber.Ctx) error {
	id := c.Params("id")

	resolved, err := h.service.Resolver().Resolve(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to resolve hierarchy item")
	}

	path := h.service.BuildPath(resolved)
	pathResponse := make([]model.HierarchyNodeResponse, 0, len(path))
	for _, node := range path {
		pathResponse = append(pathResponse, node.ToResponse(resolved.Variant))
	}

	return response.Success(c, fiber.Map{
		"node":       resolved.Node.ToResponse(resolved.Variant),
		"variant":    resolved.Variant,
		"path":       pathResponse,
		"level_code": h.encoder.Encode(resolved),
	})
}

// CreateNode handles POST /api/v1/hierarchy
func (h *HierarchyHandler) CreateNode(c *fiber.Ctx) error {
	variant, err := variantFromQuery(c)
	if err != nil {
		return response.BadRequest(c, "Unknown hierarchy variant")
	}

	var req CreateNodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	node, err := h.service.CreateNode(variant, services.CreateNodeInput{
		Name:     req.Name,
		Level:    req.Level,
		ParentID: req.ParentID,
	})
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Parent hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to create hierarchy item")
	}

	return response.Created(c, node.ToResponse(variant))
}

// UpdateNode handles PUT /api/v1/hierarchy/:id
func (h *HierarchyHandler) UpdateNode(c *fiber.Ctx) error {
	variant, err := variantFromQuery(c)
	if err != nil {
		return response.BadRequest(c, "Unknown hierarchy variant")
	}
	id := c.Params("id")

	var req UpdateNodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	node, err := h.service.Rename(variant, id, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to update hierarchy item")
	}

	return response.Success(c, node.ToResponse(variant))
}

// ReorderNodes handles PUT /api/v1/hierarchy/reorder
// The batch is all-or-nothing: one bad item rolls back every order change.
func (h *HierarchyHandler) ReorderNodes(c *fiber.Ctx) error {
	variant, err := variantFromQuery(c)
	if err != nil {
		return response.BadRequest(c, "Unknown hierarchy variant")
	}

	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	nodes, err := h.service.Reorder(variant, req.Items)
	if err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.BadRequest(c, "Reorder batch references a missing hierarchy item")
		}
		return response.InternalServerError(c, "Failed to reorder hierarchy items")
	}

	result := make([]model.HierarchyNodeResponse, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.ToResponse(variant))
	}
	return response.Success(c, result)
}

// DeleteNode handles DELETE /api/v1/hierarchy/:id
func (h *HierarchyHandler) DeleteNode(c *fiber.Ctx) error {
	variant, err := variantFromQuery(c)
	if err != nil {
		return response.BadRequest(c, "Unknown hierarchy variant")
	}
	id := c.Params("id")

	if err := h.service.Delete(variant, id); err != nil {
		if reason, ok := services.IsBadRequest(err); ok {
			return response.BadRequest(c, reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to delete hierarchy item")
	}

	return response.NoContent(c)
}

// RecountNode handles POST /api/v1/hierarchy/:id/recount
// Explicitly recomputes the denormalized question count for one legacy node.
func (h *HierarchyHandler) RecountNode(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.RecountQuestions(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Hierarchy item not found")
		}
		return response.InternalServerError(c, "Failed to recount questions")
	}

	node, err := h.service.Store().GetByID(model.VariantLegacy, id)
	if err != nil || node == nil {
		return response.InternalServerError(c, "Failed to fetch hierarchy item")
	}
	return response.Success(c, node.ToResponse(model.VariantLegacy))
}
