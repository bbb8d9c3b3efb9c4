package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateSlot is one persisted snapshot document.
type StateSlot struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Data      string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (StateSlot) TableName() string { return "state_slots" }

type PostgresSlot struct {
	db  *gorm.DB
	key string
	now func() time.Time
}

func NewPostgresSlot(db *gorm.DB, key string) *PostgresSlot {
	return &PostgresSlot{db: db, key: key, now: time.Now}
}

func (p *PostgresSlot) Migrate() error {
	if err := p.db.AutoMigrate(&StateSlot{}); err != nil {
		return fmt.Errorf("state_slots migration failed: %w", err)
	}
	return nil
}

func (p *PostgresSlot) Load(ctx context.Context) ([]byte, error) {
	var row StateSlot
	err := p.db.WithContext(ctx).Where("key = ?", p.key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read state slot %q: %w", p.key, err)
	}
	return []byte(row.Data), nil
}

// Save upserts the document under the slot key.
func (p *PostgresSlot) Save(ctx context.Context, data []byte) error {
	row := StateSlot{Key: p.key, Data: string(data), UpdatedAt: p.now()}
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("could not write state slot %q: %w", p.key, err)
	}
	return nil
}
