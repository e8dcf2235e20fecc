package services

import (
	"errors"
	"sync"

	"github.com/sahilchouksey/qbank-api/model"
)

// fakeNodeStore is an in-memory NodeStore with per-variant node maps and
// injectable probe failures.
type fakeNodeStore struct {
	nodes  map[model.HierarchyVariant]map[string]model.HierarchyNode
	failed map[model.HierarchyVariant]error
}

func newFakeNodeStore() *fakeNodeStore {
	return &fakeNodeStore{
		nodes:  make(map[model.HierarchyVariant]map[string]model.HierarchyNode),
		failed: make(map[model.HierarchyVariant]error),
	}
}

func (s *fakeNodeStore) add(variant model.HierarchyVariant, node model.HierarchyNode) {
	if s.nodes[variant] == nil {
		s.nodes[variant] = make(map[string]model.HierarchyNode)
	}
	s.nodes[variant][node.ID] = node
}

func (s *fakeNodeStore) failVariant(variant model.HierarchyVariant) {
	s.failed[variant] = errors.New("relation does not exist")
}

func (s *fakeNodeStore) GetByID(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error) {
	if err := s.failed[variant]; err != nil {
		return nil, err
	}
	node, ok := s.nodes[variant][id]
	if !ok {
		return nil, nil
	}
	return &node, nil
}

func (s *fakeNodeStore) GetParent(variant model.HierarchyVariant, id string) (*model.HierarchyNode, error) {
	node, err := s.GetByID(variant, id)
	if err != nil || node == nil {
		return nil, err
	}
	if node.ParentID == nil {
		return nil, nil
	}
	return s.GetByID(variant, *node.ParentID)
}

func (s *fakeNodeStore) MaxOrder(variant model.HierarchyVariant, level int, parentID *string) (int, error) {
	if err := s.failed[variant]; err != nil {
		return 0, err
	}
	max := 0
	for _, node := range s.nodes[variant] {
		if node.Level != level {
			continue
		}
		if (parentID == nil) != (node.ParentID == nil) {
			continue
		}
		if parentID != nil && node.ParentID != nil && *parentID != *node.ParentID {
			continue
		}
		if node.Order > max {
			max = node.Order
		}
	}
	return max, nil
}

// addChain inserts a root-to-leaf chain with the given orders (index i is
// level i+1) and returns the leaf node id.
func (s *fakeNodeStore) addChain(variant model.HierarchyVariant, ids []string, orders []int) string {
	var parentID *string
	for i := range ids {
		node := model.HierarchyNode{
			ID:       ids[i],
			Name:     "node-" + ids[i],
			Level:    i + 1,
			ParentID: parentID,
			Order:    orders[i],
		}
		s.add(variant, node)
		id := ids[i]
		parentID = &id
	}
	return ids[len(ids)-1]
}

// fakeCounter is an in-memory atomic SequenceCounter.
type fakeCounter struct {
	mu    sync.Mutex
	value int64
	err   error
}

func (c *fakeCounter) Next(name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.value++
	return c.value, nil
}

// fixedAllocator returns a canned sequence or error.
type fixedAllocator struct {
	sequence string
	err      error
}

func (a *fixedAllocator) Next() (string, error) {
	return a.sequence, a.err
}
