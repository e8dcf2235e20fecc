package services

import (
	"testing"

	"github.com/sahilchouksey/qbank-api/model"
)

func TestLevelCodeEncoderFullChain(t *testing.T) {
	store := newFakeNodeStore()
	// Year order 1, Subject order 3, Part order 0, Section order 9,
	// Chapter order 12.
	leaf := store.addChain(model.VariantQuestionBank,
		[]string{"y1", "s1", "p1", "sec1", "ch1"},
		[]int{1, 3, 0, 9, 12},
	)

	encoder := NewLevelCodeEncoder(store)
	node, _ := store.GetByID(model.VariantQuestionBank, leaf)
	got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantQuestionBank})

	// order 1 -> 1; order 3 -> 3; order 0 -> level 3 -> 3; order 9 -> 9;
	// order 12 -> tens digit 1.
	if got != "13391" {
		t.Errorf("Encode() = %q, want %q", got, "13391")
	}
}

func TestLevelCodeEncoderDigitRules(t *testing.T) {
	tests := []struct {
		name   string
		orders []int
		want   string
	}{
		{"all single digit", []int{1, 2, 3, 4, 5}, "12345"},
		{"zero order falls back to level", []int{0, 0, 0, 0, 0}, "12345"},
		{"large orders keep tens digit", []int{25, 3, 99, 4, 103}, "23940"},
		{"order ten", []int{10, 1, 1, 1, 1}, "11111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeNodeStore()
			leaf := store.addChain(model.VariantLegacy,
				[]string{"a", "b", "c", "d", "e"}, tt.orders)

			encoder := NewLevelCodeEncoder(store)
			node, _ := store.GetByID(model.VariantLegacy, leaf)
			got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantLegacy})
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevelCodeEncoderTruncatedChain(t *testing.T) {
	store := newFakeNodeStore()
	// Chapter node whose parent chain is broken: parent id points nowhere.
	missing := "gone"
	store.add(model.VariantLegacy, model.HierarchyNode{
		ID:       "ch1",
		Level:    5,
		ParentID: &missing,
		Order:    7,
	})

	encoder := NewLevelCodeEncoder(store)
	node, _ := store.GetByID(model.VariantLegacy, "ch1")
	got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantLegacy})

	// Untouched slots stay zero; the encoder must not fail.
	if got != "00007" {
		t.Errorf("Encode() = %q, want %q", got, "00007")
	}
}

func TestLevelCodeEncoderPartialChain(t *testing.T) {
	store := newFakeNodeStore()
	// Only Section and Chapter exist.
	sectionID := "sec1"
	store.add(model.VariantPreviousPapers, model.HierarchyNode{
		ID: sectionID, Level: 4, Order: 2,
	})
	store.add(model.VariantPreviousPapers, model.HierarchyNode{
		ID: "ch1", Level: 5, ParentID: &sectionID, Order: 3,
	})

	encoder := NewLevelCodeEncoder(store)
	node, _ := store.GetByID(model.VariantPreviousPapers, "ch1")
	got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantPreviousPapers})

	if got != "00023" {
		t.Errorf("Encode() = %q, want %q", got, "00023")
	}
}

func TestLevelCodeEncoderLevelOutOfRange(t *testing.T) {
	store := newFakeNodeStore()
	store.add(model.VariantLegacy, model.HierarchyNode{
		ID: "weird", Level: 9, Order: 4,
	})

	encoder := NewLevelCodeEncoder(store)
	node, _ := store.GetByID(model.VariantLegacy, "weird")
	got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantLegacy})

	// Levels outside 1-5 are ignored, not written anywhere.
	if got != "00000" {
		t.Errorf("Encode() = %q, want %q", got, "00000")
	}
}

func TestLevelCodeEncoderCycleTerminates(t *testing.T) {
	store := newFakeNodeStore()
	// a and b point at each other. The bounded walk must still terminate.
	aID, bID := "a", "b"
	store.add(model.VariantLegacy, model.HierarchyNode{ID: aID, Level: 2, ParentID: &bID, Order: 1})
	store.add(model.VariantLegacy, model.HierarchyNode{ID: bID, Level: 3, ParentID: &aID, Order: 2})

	encoder := NewLevelCodeEncoder(store)
	node, _ := store.GetByID(model.VariantLegacy, "b")
	got := encoder.Encode(&ResolvedNode{Node: *node, Variant: model.VariantLegacy})
	if len(got) != 5 {
		t.Fatalf("Encode() returned %q, want a 5-digit code", got)
	}
}

func TestLevelCodeEncoderNilResolved(t *testing.T) {
	encoder := NewLevelCodeEncoder(newFakeNodeStore())
	if got := encoder.Encode(nil); got != FallbackLevelCode {
		t.Errorf("Encode(nil) = %q, want %q", got, FallbackLevelCode)
	}
}
