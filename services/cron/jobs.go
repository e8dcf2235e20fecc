package cron

import (
	"log"
	"time"

	"github.com/sahilchouksey/qbank-api/model"
)

// ReconcileQuestionCounts recomputes the denormalized active-question count
// for every legacy hierarchy node. Idempotent, safe to run at any time.
func (m *CronManager) ReconcileQuestionCounts() {
	start := time.Now()

	updated, err := m.hierarchy.RecountAll()
	if err != nil {
		log.Printf("reconcile_question_counts: failed: %v", err)
		return
	}

	log.Printf("reconcile_question_counts: refreshed %d nodes in %s", updated, time.Since(start))
}

// PruneInactiveTags hard-deletes tags that were deactivated more than 30
// days ago and are not presets. Preset tags are never pruned.
func (m *CronManager) PruneInactiveTags() {
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.Where("is_active = ? AND is_preset = ? AND updated_at < ?", false, false, cutoff).
		Delete(&model.Tag{})
	if result.Error != nil {
		log.Printf("prune_inactive_tags: failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("prune_inactive_tags: removed %d tags", result.RowsAffected)
	}
}
