package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sahilchouksey/qbank-api/model"
	"gorm.io/gorm"
)

// HierarchyService owns hierarchy CRUD, the reorder transaction and the
// denormalized question-count reconciliation.
type HierarchyService struct {
	db       *gorm.DB
	store    NodeStore
	resolver *HierarchyResolver
}

// NewHierarchyService creates a new hierarchy service.
func NewHierarchyService(db *gorm.DB) *HierarchyService {
	store := NewGormNodeStore(db)
	return &HierarchyService{
		db:       db,
		store:    store,
		resolver: NewHierarchyResolver(store),
	}
}

// Store exposes the underlying node store for the identity engine.
func (s *HierarchyService) Store() NodeStore {
	return s.store
}

// Resolver exposes the variant resolver.
func (s *HierarchyService) Resolver() *HierarchyResolver {
	return s.resolver
}

// CreateNodeInput carries the fields needed to insert a hierarchy node.
type CreateNodeInput struct {
	Name     string
	Level    int
	ParentID *string
}

// CreateNode inserts a node into the given variant after checking the level
// invariants: roots are level 1 and have no parent, any other node needs a
// parent exactly one level above. The sibling order is max(order)+1.
func (s *HierarchyService) CreateNode(variant model.HierarchyVariant, input CreateNodeInput) (*model.HierarchyNode, error) {
	if input.Level < 1 || input.Level > model.MaxHierarchyDepth {
		return nil, BadRequest(fmt.Sprintf("Level must be between 1 and %d", model.MaxHierarchyDepth))
	}

	if input.Level == 1 {
		if input.ParentID != nil {
			return nil, BadRequest("Top-level items cannot have a parent")
		}
	} else {
		if input.ParentID == nil {
			return nil, BadRequest(fmt.Sprintf("%s items require a parent %s", model.LevelName(input.Level), model.LevelName(input.Level-1)))
		}
		parent, err := s.store.GetByID(variant, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, NotFoundError("parent hierarchy node", *input.ParentID)
		}
		if parent.Level != input.Level-1 {
			return nil, BadRequest(fmt.Sprintf("%s items must be created under a %s", model.LevelName(input.Level), model.LevelName(input.Level-1)))
		}
	}

	maxOrder, err := s.store.MaxOrder(variant, input.Level, input.ParentID)
	if err != nil {
		return nil, err
	}

	node := model.HierarchyNode{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Level:    input.Level,
		ParentID: input.ParentID,
		Order:    maxOrder + 1,
	}

	if err := s.insertNode(variant, node); err != nil {
		return nil, err
	}

	return &node, nil
}

func (s *HierarchyService) insertNode(variant model.HierarchyVariant, node model.HierarchyNode) error {
	switch variant {
	case model.VariantQuestionBank:
		return s.db.Create(&model.QuestionBankItem{
			ID: node.ID, Name: node.Name, Level: node.Level,
			ParentID: node.ParentID, Order: node.Order,
		}).Error
	case model.VariantPreviousPapers:
		return s.db.Create(&model.PreviousPaperItem{
			ID: node.ID, Name: node.Name, Level: node.Level,
			ParentID: node.ParentID, Order: node.Order,
		}).Error
	default:
		return s.db.Create(&model.HierarchyItem{
			ID: node.ID, Name: node.Name, Level: node.Level,
			ParentID: node.ParentID, Order: node.Order,
		}).Error
	}
}

// ListChildren returns the direct children of parentID (or the roots when
// parentID is nil) within one variant, in sibling order.
func (s *HierarchyService) ListChildren(variant model.HierarchyVariant, parentID *string) ([]model.HierarchyNode, error) {
	query := s.db.Model(variantModel(variant))
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	nodes := make([]model.HierarchyNode, 0)

	switch variant {
	case model.VariantQuestionBank:
		var items []model.QuestionBankItem
		if err := query.Order("sort_order ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		for i := range items {
			nodes = append(nodes, items[i].ToNode())
		}
	case model.VariantPreviousPapers:
		var items []model.PreviousPaperItem
		if err := query.Order("sort_order ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		for i := range items {
			nodes = append(nodes, items[i].ToNode())
		}
	default:
		var items []model.HierarchyItem
		if err := query.Order("sort_order ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		for i := range items {
			nodes = append(nodes, items[i].ToNode())
		}
	}

	return nodes, nil
}

// Rename updates a node's display name.
func (s *HierarchyService) Rename(variant model.HierarchyVariant, id, name string) (*model.HierarchyNode, error) {
	result := s.db.Model(variantModel(variant)).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NotFoundError("hierarchy node", id)
	}
	return s.store.GetByID(variant, id)
}

// ReorderItem is one entry of a reorder batch.
type ReorderItem struct {
	ID    string `json:"id" validate:"required"`
	Order int    `json:"order" validate:"min=1"`
}

// Reorder applies a batch of sibling order updates as a single transaction.
// If any item references a missing node the whole batch is rolled back and
// none of its effects are visible.
func (s *HierarchyService) Reorder(variant model.HierarchyVariant, items []ReorderItem) ([]model.HierarchyNode, error) {
	if len(items) == 0 {
		return nil, BadRequest("Reorder batch cannot be empty")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			result := tx.Model(variantModel(variant)).Where("id = ?", item.ID).Update("sort_order", item.Order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return NotFoundError("hierarchy node", item.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := make([]model.HierarchyNode, 0, len(items))
	for _, item := range items {
		node, err := s.store.GetByID(variant, item.ID)
		if err != nil {
			return nil, err
		}
		if node != nil {
			updated = append(updated, *node)
		}
	}
	return updated, nil
}

// Delete removes a node. Only childless nodes may be deleted.
func (s *HierarchyService) Delete(variant model.HierarchyVariant, id string) error {
	node, err := s.store.GetByID(variant, id)
	if err != nil {
		return err
	}
	if node == nil {
		return NotFoundError("hierarchy node", id)
	}

	var children int64
	if err := s.db.Model(variantModel(variant)).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return BadRequest("Cannot delete an item that still has children")
	}

	return s.db.Where("id = ?", id).Delete(variantModel(variant)).Error
}

// BuildPath walks root-ward from the node and returns the chain root-first.
// The walk is a bounded loop so a malformed cycle terminates instead of
// recursing forever; a missing parent truncates the path.
func (s *HierarchyService) BuildPath(resolved *ResolvedNode) []model.HierarchyNode {
	path := []model.HierarchyNode{resolved.Node}

	current := resolved.Node
	for hop := 0; hop < model.MaxHierarchyDepth && current.ParentID != nil; hop++ {
		parent, err := s.store.GetParent(resolved.Variant, current.ID)
		if err != nil {
			log.Printf("hierarchy path: parent lookup failed for %s: %v", current.ID, err)
			break
		}
		if parent == nil {
			break
		}
		path = append([]model.HierarchyNode{*parent}, path...)
		current = *parent
	}

	return path
}

// RecountQuestions recomputes the denormalized active-question count for one
// legacy node from the questions table. Idempotent; safe to re-run any time.
func (s *HierarchyService) RecountQuestions(nodeID string) error {
	var count int64
	if err := s.db.Model(&model.Question{}).
		Where("hierarchy_item_id = ? AND is_active = ?", nodeID, true).
		Count(&count).Error; err != nil {
		return err
	}

	result := s.db.Model(&model.HierarchyItem{}).Where("id = ?", nodeID).Update("question_count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError("hierarchy node", nodeID)
	}
	return nil
}

// RecountQuestionsBestEffort runs RecountQuestions and only logs failures.
// The count is advisory; a failed refresh must never fail the write that
// triggered it. The cron reconciliation job repairs any drift.
func (s *HierarchyService) RecountQuestionsBestEffort(nodeID string) {
	if err := s.RecountQuestions(nodeID); err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("hierarchy recount: failed for node %s: %v", nodeID, err)
	}
}

// RecountAll recomputes question counts for every legacy node. Used by the
// scheduled reconciliation job.
func (s *HierarchyService) RecountAll() (int, error) {
	var ids []string
	if err := s.db.Model(&model.HierarchyItem{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := s.RecountQuestions(id); err != nil {
			log.Printf("hierarchy recount: node %s: %v", id, err)
			continue
		}
		updated++
	}
	return updated, nil
}
