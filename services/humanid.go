package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/qbank-api/model"
)

// Human id prefixes per hierarchy variant.
const (
	PrefixQuestionBank   = "QB"
	PrefixPreviousPapers = "PP"
)

// legacyPPHints are name substrings that mark a legacy node as belonging to
// the previous-papers lineage. Matched case-insensitively.
var legacyPPHints = []string{"previous", "neet", "aiims"}

// HumanIDGenerator composes the public question identifier
// "{QB|PP}-{levelCode}-{sequence}".
type HumanIDGenerator struct {
	encoder   *LevelCodeEncoder
	allocator SequenceAllocator
}

// NewHumanIDGenerator creates a generator from its two inputs.
func NewHumanIDGenerator(encoder *LevelCodeEncoder, allocator SequenceAllocator) *HumanIDGenerator {
	return &HumanIDGenerator{encoder: encoder, allocator: allocator}
}

// Generate builds the human id for a question filed under the resolved node.
// Question creation must never fail on id generation alone, so any internal
// failure produces a degraded id instead of an error; degraded is returned
// true so the caller can log it or choose to retry, since the degraded form
// is not guaranteed unique.
func (g *HumanIDGenerator) Generate(resolved *ResolvedNode) (id string, degraded bool) {
	if resolved == nil {
		return DegradedHumanID(), true
	}

	prefix := PrefixFor(resolved)
	levelCode := g.encoder.Encode(resolved)

	sequence, err := g.allocator.Next()
	if err != nil {
		return DegradedHumanID(), true
	}

	return fmt.Sprintf("%s-%s-%s", prefix, levelCode, sequence), false
}

// PrefixFor picks the 2-letter prefix for a resolved node. The two modern
// variants map directly; legacy nodes are classified by a name heuristic
// because the legacy table predates the question-bank/previous-papers split.
func PrefixFor(resolved *ResolvedNode) string {
	switch resolved.Variant {
	case model.VariantQuestionBank:
		return PrefixQuestionBank
	case model.VariantPreviousPapers:
		return PrefixPreviousPapers
	}

	name := strings.ToLower(resolved.Node.Name)
	for _, hint := range legacyPPHints {
		if strings.Contains(name, hint) {
			return PrefixPreviousPapers
		}
	}
	return PrefixQuestionBank
}

// DegradedHumanID is the last-resort identifier used when composition fails
// entirely. Not guaranteed unique.
func DegradedHumanID() string {
	return fmt.Sprintf("QB-%s-%04d", FallbackLevelCode, time.Now().Unix()%10000)
}
