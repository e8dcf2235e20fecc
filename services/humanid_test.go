package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/sahilchouksey/qbank-api/model"
)

var humanIDPattern = regexp.MustCompile(`^(QB|PP)-\d{5}-\d{7}$`)

func TestGenerateComposition(t *testing.T) {
	store := newFakeNodeStore()
	leaf := store.addChain(model.VariantQuestionBank,
		[]string{"y1", "s1", "p1", "sec1", "ch1"},
		[]int{1, 3, 0, 9, 12},
	)

	generator := NewHumanIDGenerator(
		NewLevelCodeEncoder(store),
		&fixedAllocator{sequence: "0000451"},
	)

	node, _ := store.GetByID(model.VariantQuestionBank, leaf)
	id, degraded := generator.Generate(&ResolvedNode{Node: *node, Variant: model.VariantQuestionBank})
	if degraded {
		t.Fatal("Generate() reported degraded for a healthy chain")
	}
	if id != "QB-13391-0000451" {
		t.Errorf("Generate() = %q, want %q", id, "QB-13391-0000451")
	}
}

func TestGeneratePrefix(t *testing.T) {
	tests := []struct {
		name    string
		variant model.HierarchyVariant
		node    string
		want    string
	}{
		{"question bank variant", model.VariantQuestionBank, "Zoology", "QB"},
		{"previous papers variant", model.VariantPreviousPapers, "Zoology", "PP"},
		{"legacy plain name", model.VariantLegacy, "Zoology", "QB"},
		{"legacy previous hint", model.VariantLegacy, "Previous Year Papers", "PP"},
		{"legacy neet hint", model.VariantLegacy, "NEET 2023", "PP"},
		{"legacy aiims hint", model.VariantLegacy, "AIIMS Question Set", "PP"},
		{"legacy case insensitive", model.VariantLegacy, "neet crash course", "PP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := &ResolvedNode{
				Node:    model.HierarchyNode{ID: "n1", Name: tt.node, Level: 1},
				Variant: tt.variant,
			}
			if got := PrefixFor(resolved); got != tt.want {
				t.Errorf("PrefixFor(%s, %q) = %q, want %q", tt.variant, tt.node, got, tt.want)
			}
		})
	}
}

func TestGenerateDegradedOnAllocatorFailure(t *testing.T) {
	store := newFakeNodeStore()
	store.add(model.VariantLegacy, model.HierarchyNode{ID: "n1", Name: "Botany", Level: 1, Order: 1})

	generator := NewHumanIDGenerator(
		NewLevelCodeEncoder(store),
		&fixedAllocator{err: errors.New("connection refused")},
	)

	node, _ := store.GetByID(model.VariantLegacy, "n1")
	id, degraded := generator.Generate(&ResolvedNode{Node: *node, Variant: model.VariantLegacy})
	if !degraded {
		t.Fatal("Generate() did not report degradation on allocator failure")
	}
	if matched, _ := regexp.MatchString(`^QB-00000-\d{4}$`, id); !matched {
		t.Errorf("degraded id %q does not match the fallback shape", id)
	}
}

func TestGenerateNilResolved(t *testing.T) {
	generator := NewHumanIDGenerator(
		NewLevelCodeEncoder(newFakeNodeStore()),
		&fixedAllocator{sequence: "0000001"},
	)
	id, degraded := generator.Generate(nil)
	if !degraded {
		t.Fatal("Generate(nil) did not report degradation")
	}
	if id == "" {
		t.Fatal("Generate(nil) returned an empty id")
	}
}

func TestGenerateMatchesPublicFormat(t *testing.T) {
	store := newFakeNodeStore()
	leaf := store.addChain(model.VariantPreviousPapers,
		[]string{"y1", "s1"}, []int{2, 4})

	generator := NewHumanIDGenerator(
		NewLevelCodeEncoder(store),
		&fixedAllocator{sequence: "0000002"},
	)

	node, _ := store.GetByID(model.VariantPreviousPapers, leaf)
	id, degraded := generator.Generate(&ResolvedNode{Node: *node, Variant: model.VariantPreviousPapers})
	if degraded {
		t.Fatal("unexpected degradation")
	}
	if !humanIDPattern.MatchString(id) {
		t.Errorf("id %q does not match the public format", id)
	}
}
