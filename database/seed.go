package database

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/sahilchouksey/qbank-api/model"
	"github.com/sahilchouksey/qbank-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedPresetTags(); err != nil {
		return fmt.Errorf("failed to seed preset tags: %w", err)
	}

	if err := s.SeedHierarchy(); err != nil {
		return fmt.Errorf("failed to seed hierarchy: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	// Get admin credentials from environment variables
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	// Hash password
	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		ID:           uuid.New().String(),
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         "admin",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedPresetTags creates the preset tag pool used by the suggestion UI
func (s *Seeder) SeedPresetTags() error {
	var count int64
	if err := s.db.Model(&model.Tag{}).Where("is_preset = ?", true).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Preset tags already exist, skipping...")
		return nil
	}

	presets := []struct {
		name     string
		category model.TagCategory
	}{
		{"NCERT", model.TagCategorySources},
		{"Previous Year Papers", model.TagCategorySources},
		{"Reference Books", model.TagCategorySources},
		{"Mock Tests", model.TagCategorySources},
		{"NEET", model.TagCategoryExams},
		{"AIIMS", model.TagCategoryExams},
		{"JEE Main", model.TagCategoryExams},
		{"JEE Advanced", model.TagCategoryExams},
	}

	for _, preset := range presets {
		tag := model.Tag{
			ID:         uuid.New().String(),
			Name:       preset.name,
			Category:   preset.category,
			UsageCount: 1,
			IsPreset:   true,
			IsActive:   true,
		}
		if err := s.db.Create(&tag).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Created %d preset tags\n", len(presets))
	return nil
}

// SeedHierarchy creates a small demo classification tree in each of the
// three hierarchy variants
func (s *Seeder) SeedHierarchy() error {
	var count int64
	if err := s.db.Model(&model.QuestionBankItem{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Hierarchy already exists, skipping...")
		return nil
	}

	// Question-bank variant: Year -> Subject -> Part -> Section -> Chapter
	chain := []string{"Class 12", "Biology", "Botany", "Plant Physiology", "Photosynthesis"}
	var parentID *string
	for i, name := range chain {
		item := model.QuestionBankItem{
			ID:       uuid.New().String(),
			Name:     name,
			Level:    i + 1,
			ParentID: parentID,
			Order:    1,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return err
		}
		id := item.ID
		parentID = &id
	}

	// Previous-papers variant root
	ppRoot := model.PreviousPaperItem{
		ID:    uuid.New().String(),
		Name:  "NEET Previous Papers",
		Level: 1,
		Order: 1,
	}
	if err := s.db.Create(&ppRoot).Error; err != nil {
		return err
	}

	// Legacy variant root, the namespace questions are pinned to
	legacyRoot := model.HierarchyItem{
		ID:    uuid.New().String(),
		Name:  "Class 11",
		Level: 1,
		Order: 1,
	}
	if err := s.db.Create(&legacyRoot).Error; err != nil {
		return err
	}

	log.Println("✅ Created demo hierarchy")
	return nil
}
