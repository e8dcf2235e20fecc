package services

import (
	"errors"
	"testing"

	"github.com/sahilchouksey/qbank-api/model"
)

func TestResolvePriorityOrder(t *testing.T) {
	store := newFakeNodeStore()
	// The same id value exists in all three variants; question-bank wins.
	for _, variant := range []model.HierarchyVariant{
		model.VariantLegacy, model.VariantPreviousPapers, model.VariantQuestionBank,
	} {
		store.add(variant, model.HierarchyNode{ID: "n1", Name: string(variant), Level: 1})
	}

	resolver := NewHierarchyResolver(store)
	resolved, err := resolver.Resolve("n1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Variant != model.VariantQuestionBank {
		t.Errorf("Resolve() variant = %s, want %s", resolved.Variant, model.VariantQuestionBank)
	}
	if resolved.Node.Name != string(model.VariantQuestionBank) {
		t.Errorf("Resolve() returned node from %s", resolved.Node.Name)
	}
}

func TestResolveFallsThroughFailedVariants(t *testing.T) {
	store := newFakeNodeStore()
	// Node only exists in legacy; both newer variant probes blow up the way
	// a missing table would. The failures must be swallowed, not surfaced.
	store.add(model.VariantLegacy, model.HierarchyNode{ID: "old1", Name: "Botany", Level: 2})
	store.failVariant(model.VariantQuestionBank)
	store.failVariant(model.VariantPreviousPapers)

	resolver := NewHierarchyResolver(store)
	resolved, err := resolver.Resolve("old1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Variant != model.VariantLegacy {
		t.Errorf("Resolve() variant = %s, want %s", resolved.Variant, model.VariantLegacy)
	}
}

func TestResolveNotFound(t *testing.T) {
	resolver := NewHierarchyResolver(newFakeNodeStore())

	_, err := resolver.Resolve("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveAllVariantsFailing(t *testing.T) {
	store := newFakeNodeStore()
	store.failVariant(model.VariantQuestionBank)
	store.failVariant(model.VariantPreviousPapers)
	store.failVariant(model.VariantLegacy)

	resolver := NewHierarchyResolver(store)
	_, err := resolver.Resolve("n1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
}
