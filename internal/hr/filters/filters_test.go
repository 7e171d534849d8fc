package filters

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/models"
	"github.com/mazta/hr-master/internal/hr/schema"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")
	return db
}

func TestBuildGeneratesAuditAndCodeFilters(t *testing.T) {
	set := Build(schema.Unit)

	for _, name := range []string{
		"is_active", "deleted_by", "created_by",
		"created_at", "created_at__gte", "created_at__lte",
		"deleted_at", "deleted_at__gte", "deleted_at__lte",
		"code",
	} {
		assert.True(t, set.Has(name), "expected filter %q", name)
	}
}

func TestBuildGeneratesParentFilters(t *testing.T) {
	set := Build(schema.Unit)

	assert.True(t, set.Has("parent_id"))
	assert.True(t, set.Has("parent__code"))
	assert.True(t, set.Has("parent__name"))

	flat := Build(schema.Shift)
	assert.False(t, flat.Has("parent_id"), "flat entities get no parent filters")
	assert.False(t, flat.Has("parent__code"))
}

func TestBuildGeneratesManyRelationFilters(t *testing.T) {
	set := Build(schema.Employee)

	assert.True(t, set.Has("unit_id__in"))
	assert.True(t, set.Has("unit_code__in"))
	assert.True(t, set.Has("unit_name__in"))

	assert.True(t, set.Has("company_id"), "single relations get id filters")
	assert.True(t, set.Has("company__code"))
	assert.True(t, set.Has("company__name"))
}

func TestBuildExplicitWinsOverGenerated(t *testing.T) {
	// The entity declares code as case-insensitive exact; the generator
	// would otherwise produce a plain exact filter under the same name.
	set := Build(schema.Company)

	f, ok := set.Get("code")
	require.True(t, ok)
	assert.Equal(t, schema.IExact, f.Op, "explicit filter must not be overwritten")

	name, ok := set.Get("name")
	require.True(t, ok)
	assert.Equal(t, schema.IContains, name.Op)
}

func TestApplyIgnoresUnknownParams(t *testing.T) {
	db := setupTestDB(t)
	set := Build(schema.Unit)

	params := url.Values{"definitely_not_a_filter": {"x"}, "page": {"2"}}
	_, err := set.Apply(db.Model(&models.Unit{}), params)
	assert.NoError(t, err)
}

func TestApplyRejectsMalformedValues(t *testing.T) {
	db := setupTestDB(t)
	set := Build(schema.Unit)

	cases := map[string]url.Values{
		"bad bool":   {"is_active": {"maybe"}},
		"bad number": {"deleted_by": {"abc"}},
		"bad date":   {"created_at__gte": {"not-a-date"}},
	}
	for name, params := range cases {
		_, err := set.Apply(db.Model(&models.Unit{}), params)
		assert.ErrorIs(t, err, e.ErrInvalidInput, name)
	}
}

func TestApplyTextContainsIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&models.Unit{Name: "Engineering", Code: "ENG"}).Error)
	require.NoError(t, db.WithContext(ctx).Create(&models.Unit{Name: "Finance", Code: "FIN"}).Error)

	set := Build(schema.Unit)
	tx, err := set.Apply(db.Model(&models.Unit{}), url.Values{"name": {"gineer"}})
	require.NoError(t, err)

	var units []models.Unit
	require.NoError(t, tx.Find(&units).Error)
	require.Len(t, units, 1)
	assert.Equal(t, "Engineering", units[0].Name)
}

func TestApplyParentFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	root := &models.Unit{Name: "Root", Code: "ROOT"}
	require.NoError(t, db.WithContext(ctx).Create(root).Error)
	child := &models.Unit{Name: "Child", Code: "CHILD", ParentID: &root.ID}
	require.NoError(t, db.WithContext(ctx).Create(child).Error)

	set := Build(schema.Unit)

	tx, err := set.Apply(db.Model(&models.Unit{}), url.Values{"parent__code": {"ROOT"}})
	require.NoError(t, err)
	var units []models.Unit
	require.NoError(t, tx.Find(&units).Error)
	require.Len(t, units, 1)
	assert.Equal(t, "CHILD", units[0].Code)

	tx, err = set.Apply(db.Model(&models.Unit{}), url.Values{"parent_isnull": {"true"}})
	require.NoError(t, err)
	units = nil
	require.NoError(t, tx.Find(&units).Error)
	require.Len(t, units, 1)
	assert.Equal(t, "ROOT", units[0].Code)

	tx, err = set.Apply(db.Model(&models.Unit{}), url.Values{"children_name": {"chi"}})
	require.NoError(t, err)
	units = nil
	require.NoError(t, tx.Find(&units).Error)
	require.Len(t, units, 1)
	assert.Equal(t, "ROOT", units[0].Code, "children_name selects the parents of matching children")
}

func TestApplyManyRelationFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	acme := &models.Company{Name: "Acme", Code: "ACME"}
	globex := &models.Company{Name: "Globex", Code: "GLX"}
	require.NoError(t, db.WithContext(ctx).Create(acme).Error)
	require.NoError(t, db.WithContext(ctx).Create(globex).Error)

	hq := &models.Branch{Name: "HQ", Code: "HQ", Companies: []*models.Company{acme}}
	remote := &models.Branch{Name: "Remote", Code: "RMT", Companies: []*models.Company{globex}}
	require.NoError(t, db.WithContext(ctx).Create(hq).Error)
	require.NoError(t, db.WithContext(ctx).Create(remote).Error)

	set := Build(schema.Branch)
	tx, err := set.Apply(db.Model(&models.Branch{}), url.Values{"company_code__in": {"ACME"}})
	require.NoError(t, err)

	var branches []models.Branch
	require.NoError(t, tx.Find(&branches).Error)
	require.Len(t, branches, 1)
	assert.Equal(t, "HQ", branches[0].Code)
}

func TestSearchMatchesNameOrCode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&models.Unit{Name: "Engineering", Code: "ENG"}).Error)
	require.NoError(t, db.WithContext(ctx).Create(&models.Unit{Name: "Finance", Code: "FIN"}).Error)

	set := Build(schema.Unit)

	var units []models.Unit
	require.NoError(t, set.Search(db.Model(&models.Unit{}), "NEER").Find(&units).Error)
	require.Len(t, units, 1, "search contains on name, case-insensitively")

	units = nil
	require.NoError(t, set.Search(db.Model(&models.Unit{}), "fin").Find(&units).Error)
	require.Len(t, units, 1, "search exact on code, case-insensitively")
}

func TestParamsDocumentsEveryFilter(t *testing.T) {
	set := Build(schema.Unit)
	docs := set.Params()
	require.NotEmpty(t, docs)

	names := make(map[string]bool, len(docs))
	for _, d := range docs {
		names[d.Name] = true
		assert.NotEmpty(t, d.Type, "filter %s needs a type", d.Name)
		assert.NotEmpty(t, d.Description)
	}
	assert.True(t, names["code"])
	assert.True(t, names["parent__name"])
	assert.True(t, names["is_active"])
}
