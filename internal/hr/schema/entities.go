package schema

func selfRelation(table, nameColumn string) *Relation {
	return &Relation{
		Name:       "parent",
		FK:         "parent_id",
		Table:      table,
		HasCode:    true,
		HasName:    true,
		NameColumn: nameColumn,
	}
}

// Company is the descriptor for the companies table.
var Company = &Entity{
	Name:       "Company",
	Table:      "companies",
	HasCode:    true,
	NameColumn: "name",
	Parent:     selfRelation("companies", "name"),
	Fields: []Field{
		{Name: "name", Kind: Text},
		{Name: "legal_name", Kind: Text},
		{Name: "npwp", Kind: Text},
		{Name: "email", Kind: Text},
		{Name: "phone", Kind: Text},
		{Name: "website", Kind: Text},
		{Name: "logo", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
		{Name: "parent_isnull", Column: "parent_id", Kind: Bool, IsNull: true},
		{Name: "children_name", Column: "name", Op: IContains, Kind: Text, Children: true},
	},
}

// Unit is the descriptor for the units table.
var Unit = &Entity{
	Name:       "Unit",
	Table:      "units",
	HasCode:    true,
	NameColumn: "name",
	Parent:     selfRelation("units", "name"),
	Fields: []Field{
		{Name: "name", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
		{Name: "parent_isnull", Column: "parent_id", Kind: Bool, IsNull: true},
		{Name: "children_name", Column: "name", Op: IContains, Kind: Text, Children: true},
	},
}

// Level is the descriptor for the levels table.
var Level = &Entity{
	Name:       "Level",
	Table:      "levels",
	HasCode:    true,
	NameColumn: "name",
	Parent:     selfRelation("levels", "name"),
	Fields: []Field{
		{Name: "name", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
		{Name: "parent_isnull", Column: "parent_id", Kind: Bool, IsNull: true},
		{Name: "children_name", Column: "name", Op: IContains, Kind: Text, Children: true},
	},
}

// EmploymentType is the descriptor for the employment_types table.
var EmploymentType = &Entity{
	Name:       "EmploymentType",
	Table:      "employment_types",
	HasCode:    true,
	NameColumn: "name",
	Fields: []Field{
		{Name: "name", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
	},
}

// Shift is the descriptor for the shift table.
var Shift = &Entity{
	Name:       "Shift",
	Table:      "shift",
	HasCode:    true,
	NameColumn: "name",
	Fields: []Field{
		{Name: "name", Kind: Text},
		{Name: "start_day", Kind: Number},
		{Name: "start_time", Kind: TimeOfDay},
		{Name: "end_day", Kind: Number},
		{Name: "end_time", Kind: TimeOfDay},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
	},
}

// Branch is the descriptor for the branch table.
var Branch = &Entity{
	Name:       "Branch",
	Table:      "branch",
	HasCode:    true,
	NameColumn: "name",
	ManyRelations: []Relation{
		{
			Name:       "company",
			Table:      "companies",
			Many:       true,
			JoinTable:  "branch_companies",
			JoinFK:     "branch_id",
			JoinRef:    "company_id",
			HasCode:    true,
			HasName:    true,
			NameColumn: "name",
		},
	},
	Fields: []Field{
		{Name: "name", Kind: Text},
		{Name: "address", Kind: Text},
		{Name: "city", Kind: Text},
		{Name: "province", Kind: Text},
		{Name: "postal_code", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "name", Column: "name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IExact, Kind: Text},
	},
}

// Employee is the descriptor for the employee table.
var Employee = &Entity{
	Name:       "Employee",
	Table:      "employee",
	HasCode:    true,
	NameColumn: "full_name",
	Parent:     selfRelation("employee", "full_name"),
	Relations: []Relation{
		{Name: "company", FK: "company_id", Table: "companies", HasCode: true, HasName: true, NameColumn: "name"},
		{Name: "branch", FK: "branch_id", Table: "branch", HasCode: true, HasName: true, NameColumn: "name"},
		{Name: "level", FK: "level_id", Table: "levels", HasCode: true, HasName: true, NameColumn: "name"},
		{Name: "employment_type", FK: "employment_type_id", Table: "employment_types", HasCode: true, HasName: true, NameColumn: "name"},
		{Name: "shift", FK: "shift_id", Table: "shift", HasCode: true, HasName: true, NameColumn: "name"},
	},
	ManyRelations: []Relation{
		{
			Name:       "unit",
			Table:      "units",
			Many:       true,
			JoinTable:  "employee_units",
			JoinFK:     "employee_id",
			JoinRef:    "unit_id",
			HasCode:    true,
			HasName:    true,
			NameColumn: "name",
		},
	},
	Fields: []Field{
		{Name: "user_id", Kind: Number},
		{Name: "nik", Kind: Number},
		{Name: "full_name", Kind: Text},
		{Name: "role_name", Kind: Text},
		{Name: "first_name", Kind: Text},
		{Name: "middle_name", Kind: Text},
		{Name: "last_name", Kind: Text},
		{Name: "birthplace", Kind: Text},
		{Name: "birthdate", Kind: Date},
		{Name: "address", Kind: Text},
		{Name: "neighbourhood", Kind: Text},
		{Name: "village", Kind: Text},
		{Name: "district", Kind: Text},
		{Name: "city", Kind: Text},
		{Name: "province", Kind: Text},
		{Name: "postal_code", Kind: Text},
		{Name: "religion", Kind: Text},
		{Name: "marital_status", Kind: Text},
		{Name: "job", Kind: Text},
		{Name: "citizenship", Kind: Text},
		{Name: "talenta_id", Kind: Number},
		{Name: "hire_date", Kind: Date},
		{Name: "resign_date", Kind: Date},
		{Name: "description", Kind: Text},
	},
	Explicit: []Explicit{
		{Name: "full_name", Column: "full_name", Op: IContains, Kind: Text},
		{Name: "code", Column: "code", Op: IContains, Kind: Text},
		{Name: "parent_isnull", Column: "parent_id", Kind: Bool, IsNull: true},
		{Name: "children_full_name", Column: "full_name", Op: IContains, Kind: Text, Children: true},
	},
}
