package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mazta/hr-master/internal/hr/actor"
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/filters"
	"github.com/mazta/hr-master/internal/hr/models"
	"github.com/mazta/hr-master/internal/hr/schema"
)

func newCompany() *models.Company { return &models.Company{} }

// setupStore initializes an in-memory SQLite database for testing.
func setupStore(t *testing.T) *Store[*models.Company] {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	d, err := New(gdb)
	require.NoError(t, err, "failed to migrate test database")

	return NewStore(d, newCompany)
}

func seedCompany(t *testing.T, s *Store[*models.Company], ctx context.Context, name, code string) *models.Company {
	c := &models.Company{Name: name, Code: code}
	require.NoError(t, s.Create(ctx, c), "Create should succeed")
	return c
}

func TestCreateStampsActor(t *testing.T) {
	s := setupStore(t)
	ctx := actor.WithActor(context.Background(), 7)

	c := seedCompany(t, s, ctx, "Acme", "ACME")

	got, err := s.Get(ctx, c.ID, ScopeAlive)
	require.NoError(t, err)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, int64(7), *got.CreatedBy)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, int64(7), *got.UpdatedBy)
	assert.Nil(t, got.DeletedBy)
}

func TestCreateWithoutActor(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	c := seedCompany(t, s, ctx, "Acme", "ACME")

	got, err := s.Get(ctx, c.ID, ScopeAlive)
	require.NoError(t, err)
	assert.Nil(t, got.CreatedBy, "anonymous writes leave the audit columns null")
}

func TestGetNotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.Get(context.Background(), 9999, ScopeAlive)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestSoftDeletePartitionsScopes(t *testing.T) {
	s := setupStore(t)
	ctx := actor.WithActor(context.Background(), 1)

	alive := seedCompany(t, s, ctx, "Alive", "ALIVE")
	dead := seedCompany(t, s, ctx, "Dead", "DEAD")
	require.NoError(t, s.Delete(ctx, dead, false))

	// The default scope hides the dead row.
	_, err := s.Get(ctx, dead.ID, ScopeAlive)
	assert.ErrorIs(t, err, e.ErrNotFound)

	got, err := s.Get(ctx, dead.ID, ScopeDead)
	require.NoError(t, err)
	assert.Equal(t, "Dead", got.Name)

	_, err = s.Get(ctx, alive.ID, ScopeDead)
	assert.ErrorIs(t, err, e.ErrNotFound, "dead scope must hide alive rows")

	for _, id := range []uint{alive.ID, dead.ID} {
		_, err := s.Get(ctx, id, ScopeAll)
		assert.NoError(t, err, "all scope sees both partitions")
	}
}

func TestSoftDeleteStampsTombstone(t *testing.T) {
	s := setupStore(t)
	ctx := actor.WithActor(context.Background(), 42)

	c := seedCompany(t, s, ctx, "Acme", "ACME")
	require.NoError(t, s.Delete(ctx, c, false))

	got, err := s.Get(ctx, c.ID, ScopeDead)
	require.NoError(t, err)
	assert.True(t, got.DeletedAt.Valid, "deleted_at must be set")
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, int64(42), *got.DeletedBy, "deleted_by stamps with deleted_at")
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, int64(42), *got.UpdatedBy)
}

func TestDeleteDeadRowRestamps(t *testing.T) {
	s := setupStore(t)

	c := seedCompany(t, s, actor.WithActor(context.Background(), 1), "Acme", "ACME")
	require.NoError(t, s.Delete(actor.WithActor(context.Background(), 1), c, false))

	// Deleting an already-dead row re-stamps the tombstone.
	require.NoError(t, s.Delete(actor.WithActor(context.Background(), 2), c, false))

	got, err := s.Get(context.Background(), c.ID, ScopeDead)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, int64(2), *got.DeletedBy)
}

func TestHardDeleteRemovesRow(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	c := seedCompany(t, s, ctx, "Acme", "ACME")
	require.NoError(t, s.Delete(ctx, c, true))

	_, err := s.Get(ctx, c.ID, ScopeAll)
	assert.ErrorIs(t, err, e.ErrNotFound, "hard delete leaves nothing in any scope")
}

func TestRestoreClearsTombstone(t *testing.T) {
	s := setupStore(t)
	ctx := actor.WithActor(context.Background(), 5)

	c := seedCompany(t, s, ctx, "Acme", "ACME")
	require.NoError(t, s.Delete(ctx, c, false))

	restorer := actor.WithActor(context.Background(), 9)
	require.NoError(t, s.Restore(restorer, c))

	got, err := s.Get(ctx, c.ID, ScopeAlive)
	require.NoError(t, err, "restored rows come back into the default scope")
	assert.False(t, got.DeletedAt.Valid)
	assert.Nil(t, got.DeletedBy, "deleted_by clears together with deleted_at")
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, int64(9), *got.UpdatedBy)
}

func TestListPagesAndCounts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	codes := []string{"A", "B", "C", "D", "E"}
	for _, code := range codes {
		seedCompany(t, s, ctx, "Company "+code, code)
	}

	items, count, err := s.List(ctx, ListOptions{Scope: ScopeAlive, Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count, "count spans all pages")
	assert.Len(t, items, 2)

	items, _, err = s.List(ctx, ListOptions{Scope: ScopeAlive, Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 1, "last page is short")
}

func TestListAppliesFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	seedCompany(t, s, ctx, "Acme Holdings", "ACME")
	seedCompany(t, s, ctx, "Globex", "GLX")

	set := filters.Build(schema.Company)
	items, count, err := s.List(ctx, ListOptions{
		Scope:   ScopeAlive,
		Filters: set,
		Params:  map[string][]string{"name": {"acme"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, items, 1)
	assert.Equal(t, "ACME", items[0].Code)
}

func TestListScopesDeadRows(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	seedCompany(t, s, ctx, "Alive", "ALIVE")
	dead := seedCompany(t, s, ctx, "Dead", "DEAD")
	require.NoError(t, s.Delete(ctx, dead, false))

	_, count, err := s.List(ctx, ListOptions{Scope: ScopeAlive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, count, err = s.List(ctx, ListOptions{Scope: ScopeDead})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, count, err = s.List(ctx, ListOptions{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", orderClause(""))
	assert.Equal(t, "created_at DESC", orderClause("name"), "unknown columns fall back to the default")
	assert.Equal(t, "updated_at ASC", orderClause("updated_at"))
	assert.Equal(t, "deleted_at DESC", orderClause("-deleted_at"))
}

func TestTransactionRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Store[*models.Company]) error {
		if err := tx.Create(ctx, &models.Company{Name: "A", Code: "A"}); err != nil {
			return err
		}
		// Duplicate code violates the unique index and fails the batch.
		return tx.Create(ctx, &models.Company{Name: "B", Code: "A"})
	})
	require.Error(t, err)

	_, count, err := s.List(ctx, ListOptions{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Zero(t, count, "nothing survives a failed transaction")
}

func TestTreePreloads(t *testing.T) {
	assert.Nil(t, TreePreloads(0))
	assert.Equal(t, []string{
		"Parent", "Children",
		"Parent.Parent", "Children.Children",
	}, TreePreloads(2))
}
