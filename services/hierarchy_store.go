package services

import (
	"errors"

	"github.com/sahilchouksey/qbank-api/model"
	"gorm.io/gorm"
)

// NodeStore is the narrow query contract the identity engine issues against
// the hierarchy tables. A miss is reported as (nil, nil); an error means the
// probe itself failed (e.g. the variant table does not exist yet).
type NodeStore interface {
	// GetByID returns the node owned by variant with the given id, or nil on miss.
	GetByID(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error)
	// GetParent returns the parent of the node within the same variant, or nil
	// when the node has no parent or the parent row is missing.
	GetParent(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error)
	// MaxOrder returns the highest sibling order under parentID at the given
	// level, 0 when there are no siblings.
	MaxOrder(variant model.HierarchyVariant, level int, parentID *string) (int, error)
}

// GormNodeStore implements NodeStore over the three variant tables.
type GormNodeStore struct {
	db *gorm.DB
}

// NewGormNodeStore creates a NodeStore backed by GORM.
func NewGormNodeStore(db *gorm.DB) *GormNodeStore {
	return &GormNodeStore{db: db}
}

func (s *GormNodeStore) GetByID(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error) {
	switch variant {
	case model.VariantQuestionBank:
		var item model.QuestionBankItem
		if err := s.db.First(&item, "id = ?", id).Error; err != nil {
			return nil, missOrError(err)
		}
		node := item.ToNode()
		return &node, nil
	case model.VariantPreviousPapers:
		var item model.PreviousPaperItem
		if err := s.db.First(&item, "id = ?", id).Error; err != nil {
			return nil, missOrError(err)
		}
		node := item.ToNode()
		return &node, nil
	case model.VariantLegacy:
		var item model.HierarchyItem
		if err := s.db.First(&item, "id = ?", id).Error; err != nil {
			return nil, missOrError(err)
		}
		node := item.ToNode()
		return &node, nil
	default:
		return nil, errors.New("unknown hierarchy variant")
	}
}

func (s *GormNodeStore) GetParent(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error) {
	node, err := s.GetByID(variant, id)
	if err != nil || node == nil {
		return nil, err
	}
	if node.ParentID == nil {
		return nil, nil
	}
	return s.GetByID(variant, *node.ParentID)
}

func (s *GormNodeStore) MaxOrder(variant model.HierarchyVariant, level int, parentID *string) (int, error) {
	query := s.db.Model(variantModel(variant)).Where("level = ?", level)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var max *int
	if err := query.Select("MAX(sort_order)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// missOrError maps gorm's record-not-found to a plain miss.
func missOrError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func variantModel(variant model.HierarchyVariant) interface{} {
	switch variant {
	case model.VariantQuestionBank:
		return &model.QuestionBankItem{}
	case model.VariantPreviousPapers:
		return &model.PreviousPaperItem{}
	default:
		return &model.HierarchyItem{}
	}
}
