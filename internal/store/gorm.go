package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sermon-studio/backend/internal/model"
)

// GormStore is the production GenerationStore backed by gorm.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the configured database and runs migrations.
// driver is "sqlite" or "postgres"; dsn is driver-specific.
func Open(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&model.Generation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate generations table: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing connection (used by tests).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Ping checks database connectivity for readiness probes.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) ListByOwner(ctx context.Context, owner string) ([]model.Generation, error) {
	var results []model.Generation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GormStore) Insert(ctx context.Context, g *model.Generation) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GormStore) Update(ctx context.Context, owner string, id string, upd model.GenerationUpdate) error {
	changes := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		changes["title"] = *upd.Title
	}
	if upd.Theme != nil {
		changes["theme"] = *upd.Theme
	}
	if upd.Occasion != nil {
		changes["occasion"] = *upd.Occasion
	}
	if upd.Tone != nil {
		changes["tone"] = *upd.Tone
	}
	if upd.BibleVerse != nil {
		changes["bible_verse"] = *upd.BibleVerse
	}
	if upd.Content != nil {
		// content and output are written together, always equal
		changes["content"] = *upd.Content
		changes["output"] = *upd.Content
	}

	res := s.db.WithContext(ctx).
		Model(&model.Generation{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, owner string, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&model.Generation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
