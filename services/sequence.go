package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// SequenceAllocator produces the 7-digit, zero-padded sequence part of a
// question's human id.
type SequenceAllocator interface {
	Next() (string, error)
}

// SequenceCounter is the store-side contract for atomic sequence allocation:
// a single increment-and-return against a dedicated counter row.
type SequenceCounter interface {
	Next(name string) (int64, error)
}

// QuestionSequenceName is the counter row used for question human ids.
const QuestionSequenceName = "questions"

// CounterAllocator allocates sequence numbers from an atomically incremented
// counter, so two concurrent creations can never observe the same value.
// On counter failure it degrades to a timestamp+random fallback rather than
// failing the caller.
type CounterAllocator struct {
	counter SequenceCounter
}

// NewCounterAllocator creates the production sequence allocator.
func NewCounterAllocator(counter SequenceCounter) *CounterAllocator {
	return &CounterAllocator{counter: counter}
}

func (a *CounterAllocator) Next() (string, error) {
	value, err := a.counter.Next(QuestionSequenceName)
	if err != nil {
		log.Printf("sequence: counter increment failed, using fallback: %v", err)
		return fallbackSequence(), nil
	}
	return fmt.Sprintf("%07d", value%10000000), nil
}

// CountAllocator is the original count-then-use scheme: it derives the next
// sequence from the number of currently active questions. It is NOT safe
// under concurrent creation (two callers can read the same count and derive
// the same number) and is kept only as the degraded path when no counter row
// exists, e.g. against a database predating the counter migration.
type CountAllocator struct {
	db *gorm.DB
}

// NewCountAllocator creates the legacy count-based allocator.
func NewCountAllocator(db *gorm.DB) *CountAllocator {
	return &CountAllocator{db: db}
}

func (a *CountAllocator) Next() (string, error) {
	var count int64
	if err := a.db.Table("questions").Where("is_active = ?", true).Count(&count).Error; err != nil {
		log.Printf("sequence: active question count failed, using fallback: %v", err)
		return fallbackSequence(), nil
	}
	return fmt.Sprintf("%07d", (count+1)%10000000), nil
}

// fallbackSequence derives a 7-digit value from the clock plus jitter. Not
// guaranteed unique; callers surface the degradation so the id can be retried.
func fallbackSequence() string {
	value := (time.Now().UnixMilli() + rand.Int63n(1000)) % 10000000
	return fmt.Sprintf("%07d", value)
}
