// Package dump is the append-only audit sink. Records live in a store
// separate from the primary database; failures here are compensated by the
// controller, never silently swallowed.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mazta/hr-master/internal/hr/actor"
)

// Record is one audit snapshot of a mutation.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *int64    `json:"user_id"`
	Path      string    `gorm:"size:255" json:"path"`
	Method    string    `gorm:"size:12" json:"method"`
	Payload   []byte    `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (Record) TableName() string { return "hr_dump" }

// NewRecord builds a record attributed to the context actor, with the
// payload marshalled to JSON.
func NewRecord(ctx context.Context, path, method string, payload any) (*Record, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dump payload: %w", err)
	}
	return &Record{
		ID:      uuid.New(),
		UserID:  actor.Ref(ctx),
		Path:    path,
		Method:  method,
		Payload: body,
	}, nil
}

// Writer is the sink interface the controller depends on. Remove exists for
// compensation only and is best-effort.
type Writer interface {
	Write(ctx context.Context, rec *Record) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Store writes records to a gorm database.
type Store struct {
	db *gorm.DB
}

// Connect opens the dump database and migrates the record table.
func Connect(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to dump database: %w", err)
	}
	return New(db)
}

// New wraps an already-open database (tests use in-memory sqlite).
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate dump database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Write(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "id = ?", id).Error
}

// Count reports the number of stored records, used by tests and checks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error
	return n, err
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
