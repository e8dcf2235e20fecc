package services

import (
	"log"

	"github.com/sahilchouksey/qbank-api/model"
)

// ResolvedNode is a typed handle to a hierarchy node together with the variant
// that owns it. Downstream code carries this instead of re-deciding the
// variant from the raw id.
type ResolvedNode struct {
	Node    model.HierarchyNode
	Variant model.HierarchyVariant
}

// resolveOrder is the fixed probe priority. The hierarchy migrated across
// three table layouts that may coexist, so a node id is only unambiguous
// within one variant and resolution has to be tried, not inferred.
var resolveOrder = []model.HierarchyVariant{
	model.VariantQuestionBank,
	model.VariantPreviousPapers,
	model.VariantLegacy,
}

// HierarchyResolver classifies an opaque node id against the three hierarchy
// variants. Pure read, no side effects.
type HierarchyResolver struct {
	store NodeStore
}

// NewHierarchyResolver creates a resolver over the given node store.
func NewHierarchyResolver(store NodeStore) *HierarchyResolver {
	return &HierarchyResolver{store: store}
}

// Resolve probes each variant in priority order and returns the first hit.
// A store-level probe failure (a variant table that does not exist yet) is
// swallowed and the next variant is tried; ErrNotFound is returned only when
// every variant misses.
func (r *HierarchyResolver) Resolve(nodeID string) (*ResolvedNode, error) {
	for _, variant := range resolveOrder {
		node, err := r.store.GetByID(variant, nodeID)
		if err != nil {
			log.Printf("hierarchy resolve: probe against %s failed for %s: %v", variant, nodeID, err)
			continue
		}
		if node != nil {
			return &ResolvedNode{Node: *node, Variant: variant}, nil
		}
	}
	return nil, NotFoundError("hierarchy node", nodeID)
}
