package models

import (
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/serializer"
)

// Company is a legal entity. Companies form a forest via the parent relation.
type Company struct {
	BaseModel
	Name      string `gorm:"size:64" json:"name"`
	Code      string `gorm:"size:24;uniqueIndex" json:"code"`
	LegalName string `gorm:"size:86" json:"legal_name"`
	Npwp      string `gorm:"size:86" json:"npwp"`
	Email     string `gorm:"size:254" json:"email"`
	Phone     string `gorm:"size:64" json:"phone"`
	Website   string `gorm:"size:200" json:"website"`
	Logo      string `gorm:"size:200" json:"logo"`

	ParentID *uint      `gorm:"index" json:"parent_id"`
	Parent   *Company   `gorm:"foreignKey:ParentID" json:"-"`
	Children []*Company `gorm:"foreignKey:ParentID" json:"-"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) EntityName() string { return "Company" }
func (c *Company) NodeID() uint       { return c.ID }
func (c *Company) NodeName() string   { return c.Name }

func (c *Company) Attrs() map[string]any {
	m := c.auditAttrs()
	m["name"] = c.Name
	m["code"] = c.Code
	m["legal_name"] = c.LegalName
	m["npwp"] = c.Npwp
	m["email"] = c.Email
	m["phone"] = c.Phone
	m["website"] = c.Website
	m["logo"] = c.Logo
	m["parent_id"] = c.ParentID
	return m
}

func (c *Company) TreeParent() serializer.Node {
	if c.Parent == nil {
		return nil
	}
	return c.Parent
}

func (c *Company) TreeChildren() []serializer.Node { return nodeList(c.Children) }
func (c *Company) Relations() []serializer.Relation {
	return nil
}
func (c *Company) RelationPreloads() []string { return nil }

func (c *Company) Validate() error {
	v := &e.ValidationError{}
	if c.Name == "" {
		v.Add("name", "this field is required")
	}
	if c.Code == "" {
		v.Add("code", "this field is required")
	}
	return v.OrNil()
}

// Unit is an organizational unit, arranged in a forest.
type Unit struct {
	BaseModel
	Name string `gorm:"size:64" json:"name"`
	Code string `gorm:"size:24;uniqueIndex" json:"code"`

	ParentID *uint   `gorm:"index" json:"parent_id"`
	Parent   *Unit   `gorm:"foreignKey:ParentID" json:"-"`
	Children []*Unit `gorm:"foreignKey:ParentID" json:"-"`
}

func (Unit) TableName() string { return "units" }

func (u *Unit) EntityName() string { return "Unit" }
func (u *Unit) NodeID() uint       { return u.ID }
func (u *Unit) NodeName() string   { return u.Name }

func (u *Unit) Attrs() map[string]any {
	m := u.auditAttrs()
	m["name"] = u.Name
	m["code"] = u.Code
	m["parent_id"] = u.ParentID
	return m
}

func (u *Unit) TreeParent() serializer.Node {
	if u.Parent == nil {
		return nil
	}
	return u.Parent
}

func (u *Unit) TreeChildren() []serializer.Node  { return nodeList(u.Children) }
func (u *Unit) Relations() []serializer.Relation { return nil }
func (u *Unit) RelationPreloads() []string       { return nil }

func (u *Unit) Validate() error {
	v := &e.ValidationError{}
	if u.Name == "" {
		v.Add("name", "this field is required")
	}
	if u.Code == "" {
		v.Add("code", "this field is required")
	}
	return v.OrNil()
}

// Level is a job level, arranged in a forest.
type Level struct {
	BaseModel
	Name string `gorm:"size:32" json:"name"`
	Code string `gorm:"size:24;uniqueIndex" json:"code"`

	ParentID *uint    `gorm:"index" json:"parent_id"`
	Parent   *Level   `gorm:"foreignKey:ParentID" json:"-"`
	Children []*Level `gorm:"foreignKey:ParentID" json:"-"`
}

func (Level) TableName() string { return "levels" }

func (l *Level) EntityName() string { return "Level" }
func (l *Level) NodeID() uint       { return l.ID }
func (l *Level) NodeName() string   { return l.Name }

func (l *Level) Attrs() map[string]any {
	m := l.auditAttrs()
	m["name"] = l.Name
	m["code"] = l.Code
	m["parent_id"] = l.ParentID
	return m
}

func (l *Level) TreeParent() serializer.Node {
	if l.Parent == nil {
		return nil
	}
	return l.Parent
}

func (l *Level) TreeChildren() []serializer.Node  { return nodeList(l.Children) }
func (l *Level) Relations() []serializer.Relation { return nil }
func (l *Level) RelationPreloads() []string       { return nil }

func (l *Level) Validate() error {
	v := &e.ValidationError{}
	if l.Name == "" {
		v.Add("name", "this field is required")
	}
	if l.Code == "" {
		v.Add("code", "this field is required")
	}
	return v.OrNil()
}

// EmploymentType classifies an employment contract.
type EmploymentType struct {
	BaseModel
	Name string `gorm:"size:24" json:"name"`
	Code string `gorm:"size:24;uniqueIndex" json:"code"`
}

func (EmploymentType) TableName() string { return "employment_types" }

func (t *EmploymentType) EntityName() string { return "EmploymentType" }
func (t *EmploymentType) NodeID() uint       { return t.ID }
func (t *EmploymentType) NodeName() string   { return t.Name }

func (t *EmploymentType) Attrs() map[string]any {
	m := t.auditAttrs()
	m["name"] = t.Name
	m["code"] = t.Code
	return m
}

func (t *EmploymentType) Relations() []serializer.Relation { return nil }
func (t *EmploymentType) RelationPreloads() []string       { return nil }

func (t *EmploymentType) Validate() error {
	v := &e.ValidationError{}
	if t.Name == "" {
		v.Add("name", "this field is required")
	}
	if t.Code == "" {
		v.Add("code", "this field is required")
	}
	return v.OrNil()
}

// Shift is a working-hours window; days run Sunday=0 through Saturday=6.
type Shift struct {
	BaseModel
	Name string `gorm:"size:16" json:"name"`
	Code string `gorm:"size:24;uniqueIndex" json:"code"`

	StartDay  int    `gorm:"index:idx_shift_start,priority:1" json:"start_day"`
	StartTime string `gorm:"size:8;index:idx_shift_start,priority:2" json:"start_time"`
	EndDay    int    `gorm:"index:idx_shift_end,priority:1" json:"end_day"`
	EndTime   string `gorm:"size:8;index:idx_shift_end,priority:2" json:"end_time"`
}

func (Shift) TableName() string { return "shift" }

func (s *Shift) EntityName() string { return "Shift" }
func (s *Shift) NodeID() uint       { return s.ID }
func (s *Shift) NodeName() string   { return s.Name }

func (s *Shift) Attrs() map[string]any {
	m := s.auditAttrs()
	m["name"] = s.Name
	m["code"] = s.Code
	m["start_day"] = s.StartDay
	m["start_time"] = s.StartTime
	m["end_day"] = s.EndDay
	m["end_time"] = s.EndTime
	return m
}

func (s *Shift) Relations() []serializer.Relation { return nil }
func (s *Shift) RelationPreloads() []string       { return nil }

func (s *Shift) Validate() error {
	v := &e.ValidationError{}
	if s.Code == "" {
		v.Add("code", "this field is required")
	}
	if s.StartDay < 0 || s.StartDay > 6 {
		v.Add("start_day", "must be between 0 and 6")
	}
	if s.EndDay < 0 || s.EndDay > 6 {
		v.Add("end_day", "must be between 0 and 6")
	}
	if s.StartTime == "" {
		v.Add("start_time", "this field is required")
	}
	if s.EndTime == "" {
		v.Add("end_time", "this field is required")
	}
	return v.OrNil()
}

// Branch is a physical location, attached to one or more companies.
type Branch struct {
	BaseModel
	Name string `gorm:"size:81" json:"name"`
	Code string `gorm:"size:24;uniqueIndex;index" json:"code"`

	Companies []*Company `gorm:"many2many:branch_companies" json:"-"`

	Address    string `json:"address"`
	City       string `gorm:"size:32" json:"city"`
	Province   string `gorm:"size:32" json:"province"`
	PostalCode string `gorm:"size:32" json:"postal_code"`
}

func (Branch) TableName() string { return "branch" }

func (b *Branch) EntityName() string { return "Branch" }
func (b *Branch) NodeID() uint       { return b.ID }
func (b *Branch) NodeName() string   { return b.Name }

func (b *Branch) Attrs() map[string]any {
	m := b.auditAttrs()
	m["name"] = b.Name
	m["code"] = b.Code
	m["address"] = b.Address
	m["city"] = b.City
	m["province"] = b.Province
	m["postal_code"] = b.PostalCode
	return m
}

func (b *Branch) Relations() []serializer.Relation {
	return []serializer.Relation{
		{Name: "company", Many: true, Nodes: nodeList(b.Companies)},
	}
}

func (b *Branch) RelationPreloads() []string { return []string{"Companies"} }

func (b *Branch) Validate() error {
	v := &e.ValidationError{}
	if b.Name == "" {
		v.Add("name", "this field is required")
	}
	if b.Code == "" {
		v.Add("code", "this field is required")
	}
	return v.OrNil()
}

// Employee is the person record, cross-referenced to every other entity and
// arranged in a reporting forest via the parent relation.
type Employee struct {
	BaseModel
	UserID   int64  `gorm:"index" json:"user_id"`
	Nik      int64  `json:"nik"`
	Code     string `gorm:"size:24;uniqueIndex" json:"code"`
	FullName string `gorm:"size:128" json:"full_name"`
	RoleName string `gorm:"size:64" json:"role_name"`

	FirstName  string `gorm:"size:24" json:"first_name"`
	MiddleName string `gorm:"size:24" json:"middle_name"`
	LastName   string `gorm:"size:24" json:"last_name"`

	Birthplace string `gorm:"size:24" json:"birthplace"`
	Birthdate  *Date  `json:"birthdate"`

	Address       string `json:"address"`
	Neighbourhood string `gorm:"size:9" json:"neighbourhood"`
	Village       string `gorm:"size:24" json:"village"`
	District      string `gorm:"size:24" json:"district"`
	City          string `gorm:"size:24" json:"city"`
	Province      string `gorm:"size:24" json:"province"`
	PostalCode    string `gorm:"size:12" json:"postal_code"`

	Religion      string `gorm:"size:12" json:"religion"`
	MaritalStatus string `gorm:"size:16" json:"marital_status"`
	Job           string `gorm:"size:36" json:"job"`
	Citizenship   string `gorm:"size:36" json:"citizenship"`

	CompanyID        uint            `gorm:"index:idx_employee_company_branch,priority:1" json:"company_id"`
	Company          *Company        `gorm:"foreignKey:CompanyID" json:"-"`
	BranchID         uint            `gorm:"index:idx_employee_company_branch,priority:2" json:"branch_id"`
	Branch           *Branch         `gorm:"foreignKey:BranchID" json:"-"`
	Units            []*Unit         `gorm:"many2many:employee_units" json:"-"`
	LevelID          uint            `gorm:"index" json:"level_id"`
	Level            *Level          `gorm:"foreignKey:LevelID" json:"-"`
	EmploymentTypeID uint            `json:"employment_type_id"`
	EmploymentType   *EmploymentType `gorm:"foreignKey:EmploymentTypeID" json:"-"`
	ShiftID          uint            `json:"shift_id"`
	Shift            *Shift          `gorm:"foreignKey:ShiftID" json:"-"`

	ParentID *uint       `gorm:"index" json:"parent_id"`
	Parent   *Employee   `gorm:"foreignKey:ParentID" json:"-"`
	Children []*Employee `gorm:"foreignKey:ParentID" json:"-"`

	TalentaID *int64 `gorm:"index" json:"talenta_id"`

	HireDate   *Date `gorm:"index" json:"hire_date"`
	ResignDate *Date `gorm:"index" json:"resign_date"`

	Description string `json:"description"`
}

func (Employee) TableName() string { return "employee" }

func (emp *Employee) EntityName() string { return "Employee" }
func (emp *Employee) NodeID() uint       { return emp.ID }
func (emp *Employee) NodeName() string   { return emp.FullName }

func (emp *Employee) Attrs() map[string]any {
	m := emp.auditAttrs()
	m["user_id"] = emp.UserID
	m["nik"] = emp.Nik
	m["code"] = emp.Code
	m["full_name"] = emp.FullName
	m["role_name"] = emp.RoleName
	m["first_name"] = emp.FirstName
	m["middle_name"] = emp.MiddleName
	m["last_name"] = emp.LastName
	m["birthplace"] = emp.Birthplace
	m["birthdate"] = dateAttr(emp.Birthdate)
	m["address"] = emp.Address
	m["neighbourhood"] = emp.Neighbourhood
	m["village"] = emp.Village
	m["district"] = emp.District
	m["city"] = emp.City
	m["province"] = emp.Province
	m["postal_code"] = emp.PostalCode
	m["religion"] = emp.Religion
	m["marital_status"] = emp.MaritalStatus
	m["job"] = emp.Job
	m["citizenship"] = emp.Citizenship
	m["company_id"] = emp.CompanyID
	m["branch_id"] = emp.BranchID
	m["level_id"] = emp.LevelID
	m["employment_type_id"] = emp.EmploymentTypeID
	m["shift_id"] = emp.ShiftID
	m["parent_id"] = emp.ParentID
	m["talenta_id"] = emp.TalentaID
	m["hire_date"] = dateAttr(emp.HireDate)
	m["resign_date"] = dateAttr(emp.ResignDate)
	m["description"] = emp.Description
	return m
}

func (emp *Employee) TreeParent() serializer.Node {
	if emp.Parent == nil {
		return nil
	}
	return emp.Parent
}

func (emp *Employee) TreeChildren() []serializer.Node { return nodeList(emp.Children) }

func (emp *Employee) Relations() []serializer.Relation {
	rels := []serializer.Relation{
		{Name: "unit", Many: true, Nodes: nodeList(emp.Units)},
	}
	single := func(name string, n serializer.Node, present bool) serializer.Relation {
		r := serializer.Relation{Name: name}
		if present {
			r.Node = n
		}
		return r
	}
	return append(rels,
		single("company", emp.Company, emp.Company != nil),
		single("branch", emp.Branch, emp.Branch != nil),
		single("level", emp.Level, emp.Level != nil),
		single("employment_type", emp.EmploymentType, emp.EmploymentType != nil),
		single("shift", emp.Shift, emp.Shift != nil),
	)
}

func (emp *Employee) RelationPreloads() []string {
	return []string{"Company", "Branch", "Units", "Level", "EmploymentType", "Shift"}
}

func (emp *Employee) Validate() error {
	v := &e.ValidationError{}
	if emp.FullName == "" {
		v.Add("full_name", "this field is required")
	}
	if emp.Code == "" {
		v.Add("code", "this field is required")
	}
	if emp.CompanyID == 0 {
		v.Add("company_id", "this field is required")
	}
	if emp.BranchID == 0 {
		v.Add("branch_id", "this field is required")
	}
	if emp.LevelID == 0 {
		v.Add("level_id", "this field is required")
	}
	if emp.EmploymentTypeID == 0 {
		v.Add("employment_type_id", "this field is required")
	}
	if emp.ShiftID == 0 {
		v.Add("shift_id", "this field is required")
	}
	return v.OrNil()
}
