// Package schema holds the static field/relation descriptors the dynamic
// filter builder derives its filter sets from. One descriptor per entity,
// declared once, instead of runtime type inspection.
package schema

// FieldKind classifies a scalar column for filter generation.
type FieldKind int

const (
	Text FieldKind = iota
	Number
	Bool
	Date
	DateTime
	TimeOfDay
)

// Op identifies the comparison a filter performs.
type Op int

const (
	Exact Op = iota
	IExact
	Contains
	IContains
	GTE
	LTE
	In
	IsNull
)

// Field is a plain scalar column.
type Field struct {
	Name string
	Kind FieldKind
}

// Relation describes a reference to another entity.
type Relation struct {
	// Name is the relation's filter prefix ("parent", "company", "unit").
	Name string
	// FK is the foreign-key column on the owning table. Empty for
	// many-to-many relations, which go through JoinTable instead.
	FK string
	// Table is the referenced entity's table.
	Table string
	// Many marks a many-to-many relation.
	Many bool
	// JoinTable/JoinFK/JoinRef describe the link table of a many-to-many
	// relation: JoinFK points back at the owner, JoinRef at the target.
	JoinTable string
	JoinFK    string
	JoinRef   string
	// HasCode/HasName report whether the referenced entity exposes those
	// columns; NameColumn is the actual name column ("name" or "full_name").
	HasCode    bool
	HasName    bool
	NameColumn string
}

// Explicit is a filter declared by the entity itself. Explicit filters take
// precedence over generated ones of the same name.
type Explicit struct {
	Name   string
	Column string
	Op     Op
	Kind   FieldKind
	// Children routes the filter through the entity's children rows
	// (rows of the same table whose parent_id points back here).
	Children bool
	// IsNull makes the filter a boolean null-test on Column.
	IsNull bool
}

// Entity is the full descriptor for one entity type.
type Entity struct {
	Name  string
	Table string
	// HasCode/NameColumn drive the always-on code filter and the search
	// behavior; NameColumn is empty when the entity has no name-ish column.
	HasCode    bool
	NameColumn string
	// Parent is the self-referential relation, nil for flat entities.
	Parent *Relation
	// Relations are the single-valued non-parent references.
	Relations []Relation
	// ManyRelations are the many-to-many references.
	ManyRelations []Relation
	// Fields are the scalar columns beyond the shared audit columns.
	Fields []Field
	// Explicit are the entity's hand-declared filters.
	Explicit []Explicit
}
