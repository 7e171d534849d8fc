package db

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mazta/hr-master/internal/hr/actor"
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/filters"
	"github.com/mazta/hr-master/internal/hr/models"
)

// Scope selects which soft-delete partition a read sees. The default entry
// point is alive rows; callers opt into seeing dead ones.
type Scope int

const (
	ScopeAlive Scope = iota
	ScopeDead
	ScopeAll
)

// Store is the typed persistence layer for one entity.
type Store[T models.Entity] struct {
	db    *gorm.DB
	newFn func() T
}

// NewStore builds a store; newFn produces empty instances for lookups.
func NewStore[T models.Entity](d *DB, newFn func() T) *Store[T] {
	return &Store[T]{db: d.gorm, newFn: newFn}
}

// scoped applies the soft-delete partition. Gorm's default scope already
// hides deleted rows, so alive needs nothing.
func (s *Store[T]) scoped(tx *gorm.DB, scope Scope) *gorm.DB {
	switch scope {
	case ScopeDead:
		return tx.Unscoped().Where("deleted_at IS NOT NULL")
	case ScopeAll:
		return tx.Unscoped()
	default:
		return tx
	}
}

// Get fetches one row by id within the given scope, preloading the named
// associations.
func (s *Store[T]) Get(ctx context.Context, id uint, scope Scope, preloads ...string) (T, error) {
	out := s.newFn()
	tx := s.scoped(s.db.WithContext(ctx), scope)
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	if err := tx.First(out, "id = ?", id).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, e.ErrNotFound
		}
		return zero, err
	}
	return out, nil
}

// Create inserts a new row. Audit stamping happens in the model hooks from
// the context actor.
func (s *Store[T]) Create(ctx context.Context, entity T) error {
	return s.db.WithContext(ctx).Create(entity).Error
}

// Save persists the current state of an existing row regardless of its
// soft-delete state. Associations are left untouched.
func (s *Store[T]) Save(ctx context.Context, entity T) error {
	return s.db.WithContext(ctx).Unscoped().Omit(clause.Associations).Save(entity).Error
}

// Delete soft-deletes by default: deleted_at/deleted_by are stamped together
// and the row is re-saved, so deleting an already-dead row re-stamps them.
// hard removes the row permanently.
func (s *Store[T]) Delete(ctx context.Context, entity T, hard bool) error {
	if hard {
		return s.db.WithContext(ctx).Unscoped().Delete(entity).Error
	}

	now := time.Now().UTC()
	who := actor.Ref(ctx)
	base := entity.Base()
	base.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	base.DeletedBy = who
	base.UpdatedBy = who
	base.UpdatedAt = now

	return s.db.WithContext(ctx).Unscoped().Model(entity).Updates(map[string]any{
		"deleted_at": now,
		"deleted_by": who,
		"updated_by": who,
		"updated_at": now,
	}).Error
}

// Restore clears the soft-delete columns together and attributes the change
// to the context actor.
func (s *Store[T]) Restore(ctx context.Context, entity T) error {
	now := time.Now().UTC()
	who := actor.Ref(ctx)
	base := entity.Base()
	base.DeletedAt = gorm.DeletedAt{}
	base.DeletedBy = nil
	base.UpdatedBy = who
	base.UpdatedAt = now

	return s.db.WithContext(ctx).Unscoped().Model(entity).Updates(map[string]any{
		"deleted_at": nil,
		"deleted_by": nil,
		"updated_by": who,
		"updated_at": now,
	}).Error
}

// ListOptions narrows and pages a List call.
type ListOptions struct {
	Scope    Scope
	Filters  *filters.Set
	Params   url.Values
	Search   string
	Ordering string
	Offset   int
	Limit    int
	Preloads []string
}

var orderable = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"deleted_at": {},
}

// List returns one page of rows plus the total count across all pages.
func (s *Store[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	tx := s.scoped(s.db.WithContext(ctx).Model(s.newFn()), opts.Scope)

	if opts.Filters != nil {
		var err error
		if tx, err = opts.Filters.Apply(tx, opts.Params); err != nil {
			return nil, 0, err
		}
		tx = opts.Filters.Search(tx, opts.Search)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.Order(orderClause(opts.Ordering))
	if opts.Limit > 0 {
		tx = tx.Offset(opts.Offset).Limit(opts.Limit)
	}
	for _, p := range opts.Preloads {
		tx = tx.Preload(p)
	}

	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// orderClause validates a caller-supplied ordering, falling back to the
// default newest-first.
func orderClause(ordering string) string {
	column := strings.TrimPrefix(ordering, "-")
	if _, ok := orderable[column]; !ok {
		return "created_at DESC"
	}
	if strings.HasPrefix(ordering, "-") {
		return column + " DESC"
	}
	return column + " ASC"
}

// Transaction runs fn against a transactional copy of the store; any error
// rolls the whole batch back.
func (s *Store[T]) Transaction(ctx context.Context, fn func(tx *Store[T]) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store[T]{db: tx, newFn: s.newFn})
	})
}

// TreePreloads builds the Parent/Children preload chains for a bounded
// number of tree hops.
func TreePreloads(depth int) []string {
	if depth <= 0 {
		return nil
	}
	out := make([]string, 0, 2*depth)
	for i := 1; i <= depth; i++ {
		out = append(out, chain("Parent", i), chain("Children", i))
	}
	return out
}

func chain(name string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = name
	}
	return strings.Join(parts, ".")
}
