// Package filters synthesizes a query-filter set from an entity's schema
// descriptor: audit-column filters always, code/parent/relation filters when
// the schema declares them, and a fallback per remaining scalar field.
// Explicit filters declared by the entity win over generated ones.
package filters

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/schema"
)

type applyFunc func(tx *gorm.DB, raw string) (*gorm.DB, error)

// Filter is one generated query parameter.
type Filter struct {
	Name  string
	Kind  schema.FieldKind
	Op    schema.Op
	apply applyFunc
}

// Set is the full filter collection for one entity, in generation order.
type Set struct {
	entity  *schema.Entity
	order   []string
	filters map[string]Filter
}

// Build derives the filter set from the entity descriptor.
func Build(ent *schema.Entity) *Set {
	s := &Set{entity: ent, filters: make(map[string]Filter)}

	// Entity-declared filters go in first so the generator cannot
	// overwrite them.
	for _, ex := range ent.Explicit {
		s.put(explicitFilter(ent, ex))
	}

	// Audit columns, present on every entity.
	s.put(Filter{Name: "is_active", Kind: schema.Bool, Op: schema.IsNull, apply: isActive})
	s.putColumn("deleted_by", "deleted_by", schema.Number, schema.Exact)
	s.putColumn("created_by", "created_by", schema.Number, schema.Exact)
	for _, col := range []string{"created_at", "deleted_at"} {
		s.putColumn(col, col, schema.Date, schema.Exact)
		s.putColumn(col+"__gte", col, schema.DateTime, schema.GTE)
		s.putColumn(col+"__lte", col, schema.DateTime, schema.LTE)
	}

	if ent.HasCode {
		s.putColumn("code", "code", schema.Text, schema.Exact)
	}

	// A missing parent relation simply yields no parent filters.
	if rel := ent.Parent; rel != nil {
		s.putRelation(rel)
	}
	for i := range ent.Relations {
		s.putRelation(&ent.Relations[i])
	}
	for i := range ent.ManyRelations {
		s.putManyRelation(&ent.ManyRelations[i])
	}

	// Every scalar field not already covered.
	for _, f := range ent.Fields {
		switch f.Kind {
		case schema.Text:
			s.putColumn(f.Name, f.Name, schema.Text, schema.IContains)
		case schema.Number:
			s.putColumn(f.Name, f.Name, schema.Number, schema.Exact)
		case schema.Date, schema.DateTime:
			s.putColumn(f.Name, f.Name, f.Kind, schema.Exact)
		case schema.TimeOfDay:
			s.putColumn(f.Name, f.Name, schema.TimeOfDay, schema.Exact)
		}
	}
	return s
}

func (s *Set) put(f Filter) {
	if _, exists := s.filters[f.Name]; exists {
		return
	}
	s.filters[f.Name] = f
	s.order = append(s.order, f.Name)
}

func (s *Set) putColumn(name, column string, kind schema.FieldKind, op schema.Op) {
	s.put(Filter{Name: name, Kind: kind, Op: op, apply: columnApply(column, kind, op)})
}

func (s *Set) putRelation(rel *schema.Relation) {
	s.putColumn(rel.Name+"_id", rel.FK, schema.Number, schema.Exact)
	if rel.HasCode {
		s.put(Filter{
			Name: rel.Name + "__code", Kind: schema.Text, Op: schema.Exact,
			apply: relatedApply(rel.FK, rel.Table, "code", schema.Text, schema.Exact),
		})
	}
	if rel.HasName {
		s.put(Filter{
			Name: rel.Name + "__name", Kind: schema.Text, Op: schema.IContains,
			apply: relatedApply(rel.FK, rel.Table, rel.NameColumn, schema.Text, schema.IContains),
		})
	}
}

func (s *Set) putManyRelation(rel *schema.Relation) {
	s.put(Filter{
		Name: rel.Name + "_id__in", Kind: schema.Number, Op: schema.In,
		apply: manyIDApply(rel),
	})
	if rel.HasCode {
		s.put(Filter{
			Name: rel.Name + "_code__in", Kind: schema.Text, Op: schema.In,
			apply: manyColumnApply(rel, "code", schema.In),
		})
	}
	if rel.HasName {
		s.put(Filter{
			Name: rel.Name + "_name__in", Kind: schema.Text, Op: schema.IContains,
			apply: manyColumnApply(rel, rel.NameColumn, schema.IContains),
		})
	}
}

// Apply narrows tx by every filter present in params. Unknown parameters are
// ignored; a malformed value fails the whole query as invalid input.
func (s *Set) Apply(tx *gorm.DB, params url.Values) (*gorm.DB, error) {
	for _, name := range s.order {
		raw := params.Get(name)
		if raw == "" {
			continue
		}
		var err error
		tx, err = s.filters[name].apply(tx, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", e.ErrInvalidInput, name, err)
		}
	}
	return tx, nil
}

// Has reports whether a filter with the given name was generated.
func (s *Set) Has(name string) bool {
	_, ok := s.filters[name]
	return ok
}

// Get returns the named filter.
func (s *Set) Get(name string) (Filter, bool) {
	f, ok := s.filters[name]
	return f, ok
}

// Search applies the shared search behavior: case-insensitive contains on
// the name column, case-insensitive exact on code, OR-ed together.
func (s *Set) Search(tx *gorm.DB, value string) *gorm.DB {
	if value == "" {
		return tx
	}
	var conds []string
	var args []any
	if s.entity.NameColumn != "" {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", s.entity.NameColumn))
		args = append(args, containsPattern(value))
	}
	if s.entity.HasCode {
		conds = append(conds, "LOWER(code) = LOWER(?)")
		args = append(args, value)
	}
	if len(conds) == 0 {
		return tx
	}
	return tx.Where(strings.Join(conds, " OR "), args...)
}

// ParamDoc is the machine-readable description of one filter parameter.
type ParamDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

var opLabels = map[schema.Op]string{
	schema.Exact:     "exact match (=)",
	schema.IExact:    "case-insensitive exact match",
	schema.Contains:  "contains",
	schema.IContains: "case-insensitive contains",
	schema.GTE:       "greater than or equal",
	schema.LTE:       "less than or equal",
	schema.In:        "in list",
	schema.IsNull:    "isnull",
}

var kindNames = map[schema.FieldKind]string{
	schema.Text:      "string",
	schema.Number:    "number",
	schema.Bool:      "boolean",
	schema.Date:      "date",
	schema.DateTime:  "datetime",
	schema.TimeOfDay: "time",
}

// Params exposes the generated set for API documentation.
func (s *Set) Params() []ParamDoc {
	docs := make([]ParamDoc, 0, len(s.order))
	for _, name := range s.order {
		f := s.filters[name]
		docs = append(docs, ParamDoc{
			Name:        f.Name,
			Type:        kindNames[f.Kind],
			Description: fmt.Sprintf("Filter by '%s' (lookup: %s)", f.Name, opLabels[f.Op]),
		})
	}
	return docs
}

func explicitFilter(ent *schema.Entity, ex schema.Explicit) Filter {
	f := Filter{Name: ex.Name, Kind: ex.Kind, Op: ex.Op}
	switch {
	case ex.IsNull:
		f.Op = schema.IsNull
		f.apply = isNullApply(ex.Column)
	case ex.Children:
		f.apply = childrenApply(ent.Table, ex.Column, ex.Kind, ex.Op)
	default:
		f.apply = columnApply(ex.Column, ex.Kind, ex.Op)
	}
	return f
}

func isActive(tx *gorm.DB, raw string) (*gorm.DB, error) {
	active, err := parseBool(raw)
	if err != nil {
		return nil, err
	}
	if active {
		return tx.Where("deleted_at IS NULL"), nil
	}
	return tx.Where("deleted_at IS NOT NULL"), nil
}

func isNullApply(column string) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		isNull, err := parseBool(raw)
		if err != nil {
			return nil, err
		}
		if isNull {
			return tx.Where(column + " IS NULL"), nil
		}
		return tx.Where(column + " IS NOT NULL"), nil
	}
}

func columnApply(column string, kind schema.FieldKind, op schema.Op) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		cond, args, err := condition(column, kind, op, raw)
		if err != nil {
			return nil, err
		}
		return tx.Where(cond, args...), nil
	}
}

// relatedApply filters through a single-valued relation with a subquery on
// the referenced table.
func relatedApply(fk, table, column string, kind schema.FieldKind, op schema.Op) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		cond, args, err := condition(column, kind, op, raw)
		if err != nil {
			return nil, err
		}
		sub := fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s)", fk, table, cond)
		return tx.Where(sub, args...), nil
	}
}

func manyIDApply(rel *schema.Relation) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		ids, err := parseNumberList(raw)
		if err != nil {
			return nil, err
		}
		sub := fmt.Sprintf("id IN (SELECT %s FROM %s WHERE %s IN ?)",
			rel.JoinFK, rel.JoinTable, rel.JoinRef)
		return tx.Where(sub, ids), nil
	}
}

func manyColumnApply(rel *schema.Relation, column string, op schema.Op) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		var cond string
		var args []any
		switch op {
		case schema.In:
			cond = column + " IN ?"
			args = append(args, splitList(raw))
		default:
			cond = fmt.Sprintf("LOWER(%s) LIKE ?", column)
			args = append(args, containsPattern(raw))
		}
		sub := fmt.Sprintf("id IN (SELECT %s FROM %s WHERE %s IN (SELECT id FROM %s WHERE %s))",
			rel.JoinFK, rel.JoinTable, rel.JoinRef, rel.Table, cond)
		return tx.Where(sub, args...), nil
	}
}

// childrenApply filters an entity by a column of its children rows.
func childrenApply(table, column string, kind schema.FieldKind, op schema.Op) applyFunc {
	return func(tx *gorm.DB, raw string) (*gorm.DB, error) {
		cond, args, err := condition(column, kind, op, raw)
		if err != nil {
			return nil, err
		}
		sub := fmt.Sprintf("id IN (SELECT parent_id FROM %s WHERE parent_id IS NOT NULL AND %s)",
			table, cond)
		return tx.Where(sub, args...), nil
	}
}

// condition builds the SQL fragment and arguments for one comparison.
func condition(column string, kind schema.FieldKind, op schema.Op, raw string) (string, []any, error) {
	switch op {
	case schema.IExact:
		return fmt.Sprintf("LOWER(%s) = LOWER(?)", column), []any{raw}, nil
	case schema.Contains:
		return column + " LIKE ?", []any{"%" + raw + "%"}, nil
	case schema.IContains:
		return fmt.Sprintf("LOWER(%s) LIKE ?", column), []any{containsPattern(raw)}, nil
	case schema.GTE, schema.LTE:
		t, err := parseTime(raw)
		if err != nil {
			return "", nil, err
		}
		cmp := ">="
		if op == schema.LTE {
			cmp = "<="
		}
		return fmt.Sprintf("%s %s ?", column, cmp), []any{t}, nil
	case schema.In:
		return column + " IN ?", []any{splitList(raw)}, nil
	default: // exact
		switch kind {
		case schema.Number:
			n, err := parseNumber(raw)
			if err != nil {
				return "", nil, err
			}
			return column + " = ?", []any{n}, nil
		case schema.Date, schema.DateTime:
			// Exact date comparison matches the whole day.
			day, err := time.Parse("2006-01-02", raw)
			if err != nil {
				t, terr := parseTime(raw)
				if terr != nil {
					return "", nil, err
				}
				return column + " = ?", []any{t}, nil
			}
			return fmt.Sprintf("%s >= ? AND %s < ?", column, column),
				[]any{day, day.AddDate(0, 0, 1)}, nil
		default:
			return column + " = ?", []any{raw}, nil
		}
	}
}

func containsPattern(v string) string {
	return "%" + strings.ToLower(v) + "%"
}

func parseBool(raw string) (bool, error) {
	switch raw {
	case "1", "true", "True":
		return true, nil
	case "0", "false", "False":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func parseNumber(raw string) (any, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid number %q", raw)
}

func parseNumberList(raw string) ([]int64, error) {
	parts := splitList(raw)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}
