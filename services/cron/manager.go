package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/qbank-api/services"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	hierarchy *services.HierarchyService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, hierarchy *services.HierarchyService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		db:        db,
		hierarchy: hierarchy,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 30 minutes: reconcile denormalized question counts. The write
	// path only refreshes counts best-effort, this job repairs any drift.
	_, err := m.cron.AddFunc("0 */30 * * * *", func() {
		m.logJobStart("reconcile_question_counts")
		m.ReconcileQuestionCounts()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: prune tags that were deactivated and never reused.
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("prune_inactive_tags")
		m.PruneInactiveTags()
	})
	return err
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("Cron job started: %s", name)
}
