package services

import (
	"errors"
	"regexp"
	"sync"
	"testing"
)

var sequencePattern = regexp.MustCompile(`^\d{7}$`)

func TestCounterAllocatorPadding(t *testing.T) {
	allocator := NewCounterAllocator(&fakeCounter{})

	got, err := allocator.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "0000001" {
		t.Errorf("Next() = %q, want %q", got, "0000001")
	}
}

func TestCounterAllocatorWrapsAtSevenDigits(t *testing.T) {
	allocator := NewCounterAllocator(&fakeCounter{value: 10000450})

	got, err := allocator.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "0000451" {
		t.Errorf("Next() = %q, want %q", got, "0000451")
	}
}

// TestCounterAllocatorConcurrentUniqueness is the regression test for the
// duplicate human ids produced by the old count-then-use scheme: N
// concurrent allocations must yield pairwise distinct sequences.
func TestCounterAllocatorConcurrentUniqueness(t *testing.T) {
	allocator := NewCounterAllocator(&fakeCounter{})

	const n = 200
	results := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := allocator.Next()
			if err != nil {
				t.Errorf("Next() error = %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for seq := range results {
		if seen[seq] {
			t.Fatalf("sequence %q allocated twice", seq)
		}
		seen[seq] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct sequences, want %d", len(seen), n)
	}
}

func TestCounterAllocatorFallbackOnError(t *testing.T) {
	allocator := NewCounterAllocator(&fakeCounter{err: errors.New("no such table")})

	got, err := allocator.Next()
	if err != nil {
		t.Fatalf("Next() must not propagate counter failure, got %v", err)
	}
	if !sequencePattern.MatchString(got) {
		t.Errorf("fallback sequence %q is not 7 digits", got)
	}
}

func TestFallbackSequenceShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		if got := fallbackSequence(); !sequencePattern.MatchString(got) {
			t.Fatalf("fallbackSequence() = %q, want 7 digits", got)
		}
	}
}
