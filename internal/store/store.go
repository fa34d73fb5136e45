package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presence-monitor-backend/internal/model"
)

// Store defines the persistence operations for zone snapshots.
type Store interface {
	// ReplaceSnapshot atomically overwrites the snapshot for a zone.
	ReplaceSnapshot(ctx context.Context, zone string, summary ZoneSummary, now time.Time) error
	// GetSnapshot returns the stored summary for a zone and when it was
	// written. Returns gorm.ErrRecordNotFound if no snapshot exists yet.
	GetSnapshot(ctx context.Context, zone string) (ZoneSummary, time.Time, error)
	// SeedOfflineSnapshot writes the offline placeholder for a zone, but
	// only if the zone has no snapshot at all. An existing snapshot is
	// never clobbered.
	SeedOfflineSnapshot(ctx context.Context, zone string, now time.Time) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReplaceSnapshot serializes the summary and upserts it keyed by zone in a
// single transaction, so readers never observe a torn row.
func (s *gormStore) ReplaceSnapshot(ctx context.Context, zone string, summary ZoneSummary, now time.Time) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary for zone %q: %w", zone, err)
	}

	row := model.ZoneSnapshot{
		Zone:      zone,
		Data:      string(data),
		UpdatedAt: now,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "zone"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to replace snapshot for zone %q: %w", zone, err)
		}
		return nil
	})
}

func (s *gormStore) GetSnapshot(ctx context.Context, zone string) (ZoneSummary, time.Time, error) {
	var row model.ZoneSnapshot
	if err := s.db.WithContext(ctx).First(&row, "zone = ?", zone).Error; err != nil {
		return ZoneSummary{}, time.Time{}, err
	}

	var summary ZoneSummary
	if err := json.Unmarshal([]byte(row.Data), &summary); err != nil {
		return ZoneSummary{}, time.Time{}, fmt.Errorf("corrupt snapshot for zone %q: %w", zone, err)
	}
	return summary, row.UpdatedAt, nil
}

func (s *gormStore) SeedOfflineSnapshot(ctx context.Context, zone string, now time.Time) error {
	data, err := json.Marshal(OfflineSummary())
	if err != nil {
		return fmt.Errorf("failed to serialize offline placeholder: %w", err)
	}

	row := model.ZoneSnapshot{
		Zone:      zone,
		Data:      string(data),
		UpdatedAt: now,
	}

	// DoNothing keeps any previously stored summary authoritative.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zone"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to seed snapshot for zone %q: %w", zone, err)
	}
	return nil
}
