package domain

// Passport is owned by exactly one employee
type Passport struct {
	ID     int64  `db:"id" json:"id"`
	Type   string `db:"type" json:"type"`
	Number string `db:"number" json:"number"`
}

// Department is owned by exactly one employee
type Department struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
}

// Employee is the aggregate root. Passport and Department are always set on
// an employee read from storage.
type Employee struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Surname      string `db:"surname" json:"surname"`
	Phone        string `db:"phone" json:"phone"`
	CompanyID    int64  `db:"company_id" json:"company_id"`
	PassportID   int64  `db:"passport_id" json:"-"`
	DepartmentID int64  `db:"department_id" json:"-"`

	Passport   *Passport   `db:"-" json:"passport"`
	Department *Department `db:"-" json:"department"`
}

// Clone returns a deep copy
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}

	out := *e
	if e.Passport != nil {
		p := *e.Passport
		out.Passport = &p
	}
	if e.Department != nil {
		d := *e.Department
		out.Department = &d
	}
	return &out
}

// PassportRequest carries passport data for creation
type PassportRequest struct {
	Type   string `json:"type" validate:"required,max=10"`
	Number string `json:"number" validate:"required,alphanum,max=20"`
}

// DepartmentRequest carries department data for creation
type DepartmentRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"required,max=20,phone"`
}

// CreateEmployeeRequest is the payload for creating an employee together with
// its passport and department.
type CreateEmployeeRequest struct {
	Name       string             `json:"name" validate:"required,min=2,max=100,personname"`
	Surname    string             `json:"surname" validate:"required,min=2,max=100,personname"`
	Phone      string             `json:"phone" validate:"required,max=20,phone"`
	CompanyID  int64              `json:"company_id" validate:"required,gte=1"`
	Passport   *PassportRequest   `json:"passport" validate:"required"`
	Department *DepartmentRequest `json:"department" validate:"required"`
}

// ToEmployee builds the aggregate to persist
func (r *CreateEmployeeRequest) ToEmployee() *Employee {
	emp := &Employee{
		Name:      r.Name,
		Surname:   r.Surname,
		Phone:     r.Phone,
		CompanyID: r.CompanyID,
	}
	if r.Passport != nil {
		emp.Passport = &Passport{Type: r.Passport.Type, Number: r.Passport.Number}
	}
	if r.Department != nil {
		emp.Department = &Department{Name: r.Department.Name, Phone: r.Department.Phone}
	}
	return emp
}

// PassportPatch is a sparse passport update; nil leaves the field unchanged
type PassportPatch struct {
	Type   *string `json:"type,omitempty" validate:"omitempty,min=1,max=10"`
	Number *string `json:"number,omitempty" validate:"omitempty,alphanum,max=20"`
}

// DepartmentPatch is a sparse department update
type DepartmentPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
}

// UpdateEmployeeRequest is a sparse patch. Absent (nil) fields keep the
// stored value, present fields overwrite it.
type UpdateEmployeeRequest struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100,personname"`
	Surname    *string          `json:"surname,omitempty" validate:"omitempty,min=2,max=100,personname"`
	Phone      *string          `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	CompanyID  *int64           `json:"company_id,omitempty" validate:"omitempty,gte=1"`
	Passport   *PassportPatch   `json:"passport,omitempty"`
	Department *DepartmentPatch `json:"department,omitempty"`
}

// HasScalars reports whether any employee-level field is present
func (p *UpdateEmployeeRequest) HasScalars() bool {
	return p != nil && (p.Name != nil || p.Surname != nil || p.Phone != nil || p.CompanyID != nil)
}

// IsEmpty reports whether the patch changes nothing at all
func (p *UpdateEmployeeRequest) IsEmpty() bool {
	return p == nil || (!p.HasScalars() && p.Passport == nil && p.Department == nil)
}
