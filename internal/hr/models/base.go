// Package models defines the HR master-data entities, configured to work
// using GORM as the ORM. All entities embed BaseModel, which carries the
// audit columns and the soft-delete state: a null deleted_at means the row
// is alive, a set deleted_at means it is soft-deleted.
package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mazta/hr-master/internal/hr/actor"
	"github.com/mazta/hr-master/internal/hr/serializer"
)

// BaseModel holds the shared audit and lifecycle columns. The audit columns
// are system-maintained and never accepted from request bodies.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedBy *int64         `json:"-"`
	UpdatedBy *int64         `json:"-"`
	DeletedBy *int64         `json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Base exposes the embedded audit columns to generic code.
func (b *BaseModel) Base() *BaseModel { return b }

// Alive reports the liveness invariant: deleted_at IS NULL.
func (b *BaseModel) Alive() bool { return !b.DeletedAt.Valid }

// BeforeCreate stamps created_by/updated_by from the context actor unless a
// caller (bulk insert) already stamped them.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.CreatedBy == nil {
		if id := actor.Ref(tx.Statement.Context); id != nil {
			b.CreatedBy = id
			b.UpdatedBy = id
		}
	}
	return nil
}

// BeforeUpdate refreshes updated_by from the context actor.
func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id := actor.Ref(tx.Statement.Context); id != nil {
		b.UpdatedBy = id
	}
	return nil
}

func (b *BaseModel) auditAttrs() map[string]any {
	m := map[string]any{
		"id":         b.ID,
		"created_by": b.CreatedBy,
		"updated_by": b.UpdatedBy,
		"deleted_by": b.DeletedBy,
		"created_at": b.CreatedAt,
		"updated_at": b.UpdatedAt,
		"is_active":  b.Alive(),
	}
	if b.DeletedAt.Valid {
		m["deleted_at"] = b.DeletedAt.Time
	} else {
		m["deleted_at"] = nil
	}
	return m
}

// Entity is what the generic store, controller and handlers work against.
type Entity interface {
	serializer.Node
	Base() *BaseModel
	// EntityName is the display name used in not-found messages.
	EntityName() string
	Validate() error
	// RelationPreloads lists the non-tree gorm associations to load before
	// serializing ("Company", "Units", ...).
	RelationPreloads() []string
}

// All returns one instance of every entity, in migration order.
func All() []any {
	return []any{
		&Company{},
		&Unit{},
		&Level{},
		&EmploymentType{},
		&Shift{},
		&Branch{},
		&Employee{},
	}
}

func nodeList[T serializer.Node](in []T) []serializer.Node {
	out := make([]serializer.Node, 0, len(in))
	for _, n := range in {
		out = append(out, n)
	}
	return out
}
