package services

import (
	"log"
)

// FallbackLevelCode is returned when the encoder cannot assemble a chain at all.
const FallbackLevelCode = "00000"

// LevelCodeEncoder packs a node's position across the five hierarchy levels
// into a fixed-width 5-digit code. The code is derived by walking the parent
// chain, so it needs no materialized path column; incomplete trees degrade to
// zero digits instead of failing.
type LevelCodeEncoder struct {
	store NodeStore
}

// NewLevelCodeEncoder creates an encoder over the given node store.
func NewLevelCodeEncoder(store NodeStore) *LevelCodeEncoder {
	return &LevelCodeEncoder{store: store}
}

// Encode walks from the resolved node to the root within the node's own
// variant and writes one digit per level into a 5-slot array. Missing parents
// truncate the chain silently; slots that were never reached stay zero.
func (e *LevelCodeEncoder) Encode(resolved *ResolvedNode) string {
	if resolved == nil {
		return FallbackLevelCode
	}

	digits := [5]byte{'0', '0', '0', '0', '0'}

	path := []levelOrder{{level: resolved.Node.Level, order: resolved.Node.Order}}

	// Once the variant is known the rest of the chain lives in that variant,
	// so parents are fetched with single-variant lookups. The walk is bounded
	// at the domain depth so a malformed cycle cannot loop.
	current := resolved.Node
	for hop := 0; hop < 5 && current.ParentID != nil; hop++ {
		parent, err := e.store.GetParent(resolved.Variant, current.ID)
		if err != nil {
			log.Printf("level code: parent lookup failed for %s (%s): %v", current.ID, resolved.Variant, err)
			break
		}
		if parent == nil {
			break
		}
		path = append([]levelOrder{{level: parent.Level, order: parent.Order}}, path...)
		current = *parent
	}

	for _, entry := range path {
		if entry.level < 1 || entry.level > 5 {
			continue
		}
		digits[entry.level-1] = levelDigit(entry.level, entry.order)
	}

	return string(digits[:])
}

type levelOrder struct {
	level int
	order int
}

// levelDigit computes the single digit for one node in the chain: a zero
// order falls back to the level itself, single-digit orders are used as-is,
// and larger orders contribute their tens digit.
func levelDigit(level, order int) byte {
	var d int
	switch {
	case order == 0:
		d = level % 10
	case order <= 9:
		d = order % 10
	default:
		d = (order / 10) % 10
	}
	return byte('0' + d)
}
