package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilchouksey/qbank-api/model"
	"github.com/sahilchouksey/qbank-api/utils/cache"
	"gorm.io/gorm"
)

// suggestionCacheTTL bounds how stale the ranked suggestion pool may get.
const suggestionCacheTTL = 5 * time.Minute

// TagService is the idempotent, usage-counted tag registry. Tags back a
// frequency-ranked suggestion pool, so upserts track popularity instead of
// creating duplicates.
type TagService struct {
	db    *gorm.DB
	cache *cache.RedisCache // optional; suggestions fall back to the DB
}

// NewTagService creates a new tag service. The cache may be nil.
func NewTagService(db *gorm.DB, redisCache *cache.RedisCache) *TagService {
	return &TagService{db: db, cache: redisCache}
}

// Upsert registers one use of a tag. The name is trimmed and looked up
// together with the category: an existing row gets its usage count bumped
// with a SQL-side increment (no read-modify-write window) and is forced
// active again; a missing row is created with usage count 1.
func (s *TagService) Upsert(name string, category model.TagCategory, createdBy *string, isPreset bool) (*model.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, BadRequest("Tag name cannot be blank")
	}
	if !category.Valid() {
		return nil, BadRequest("Unknown tag category")
	}

	var tag model.Tag
	err := s.db.First(&tag, "name = ? AND category = ?", trimmed, category).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"is_active":   true,
		}
		if err := s.db.Model(&model.Tag{}).Where("id = ?", tag.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.First(&tag, "id = ?", tag.ID).Error; err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		tag = model.Tag{
			ID:         uuid.New().String(),
			Name:       trimmed,
			Category:   category,
			UsageCount: 1,
			IsPreset:   isPreset,
			IsActive:   true,
			CreatedBy:  createdBy,
		}
		if err := s.db.Create(&tag).Error; err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	s.invalidateSuggestions(category)
	return &tag, nil
}

// ProcessQuestionTags upserts every non-blank tag from both category lists,
// returning the results in list order. Blank entries are skipped silently;
// individual upsert failures are logged and skipped so one bad tag never
// fails the surrounding question write.
func (s *TagService) ProcessQuestionTags(sourceTags, examTags []string, createdBy *string) (sources, exams []model.Tag) {
	sources = s.processCategory(sourceTags, model.TagCategorySources, createdBy)
	exams = s.processCategory(examTags, model.TagCategoryExams, createdBy)
	return sources, exams
}

func (s *TagService) processCategory(names []string, category model.TagCategory, createdBy *string) []model.Tag {
	result := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := s.Upsert(name, category, createdBy, false)
		if err != nil {
			log.Printf("tag upsert: %q (%s): %v", name, category, err)
			continue
		}
		result = append(result, *tag)
	}
	return result
}

// ListByCategory returns active tags of one category ranked by usage.
func (s *TagService) ListByCategory(category model.TagCategory, limit int) ([]model.Tag, error) {
	if !category.Valid() {
		return nil, BadRequest("Unknown tag category")
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var tags []model.Tag
	if err := s.db.Where("category = ? AND is_active = ?", category, true).
		Order("usage_count DESC, name ASC").
		Limit(limit).
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Suggestions returns the frequency-ranked suggestion pool for a category,
// served from the cache when warm.
func (s *TagService) Suggestions(ctx context.Context, category model.TagCategory, limit int) ([]model.TagResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	key := suggestionKey(category, limit)

	if s.cache != nil {
		var cached []model.TagResponse
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	tags, err := s.ListByCategory(category, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.TagResponse, 0, len(tags))
	for i := range tags {
		responses = append(responses, tags[i].ToResponse())
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, responses, suggestionCacheTTL); err != nil {
			log.Printf("tag suggestions: cache write failed: %v", err)
		}
	}

	return responses, nil
}

// Deactivate hides a tag from suggestions without losing its usage history.
// A later upsert of the same (name, category) reactivates it.
func (s *TagService) Deactivate(id string) error {
	result := s.db.Model(&model.Tag{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError("tag", id)
	}
	s.invalidateAllSuggestions()
	return nil
}

// Delete removes a tag permanently, independent of its usage count.
func (s *TagService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&model.Tag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError("tag", id)
	}
	s.invalidateAllSuggestions()
	return nil
}

func suggestionKey(category model.TagCategory, limit int) string {
	return fmt.Sprintf("tags:suggest:%s:%d", category, limit)
}

func (s *TagService) invalidateSuggestions(category model.TagCategory) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.DeletePattern(ctx, fmt.Sprintf("tags:suggest:%s:*", category)); err != nil {
		log.Printf("tag suggestions: cache invalidation failed: %v", err)
	}
}

func (s *TagService) invalidateAllSuggestions() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.DeletePattern(ctx, "tags:suggest:*"); err != nil {
		log.Printf("tag suggestions: cache invalidation failed: %v", err)
	}
}
