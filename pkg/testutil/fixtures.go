package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/emsvc/employee-service/internal/employee/domain"
)

// FixtureFactory builds valid test aggregates with distinct values
type FixtureFactory struct {
	seq atomic.Int64
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

func (f *FixtureFactory) next() int64 {
	return f.seq.Add(1)
}

// Employee returns an unsaved employee in the given company
func (f *FixtureFactory) Employee(companyID int64) *domain.Employee {
	n := f.next()
	return &domain.Employee{
		Name:      "Test",
		Surname:   "User",
		Phone:     fmt.Sprintf("+7 900 %07d", n),
		CompanyID: companyID,
		Passport:  &domain.Passport{Type: "RU", Number: fmt.Sprintf("P%06d", n)},
		Department: &domain.Department{
			Name:  "Department",
			Phone: fmt.Sprintf("%04d", n%10000),
		},
	}
}

// CreateRequest returns a create payload that passes validation
func (f *FixtureFactory) CreateRequest(companyID int64) *domain.CreateEmployeeRequest {
	e := f.Employee(companyID)
	return &domain.CreateEmployeeRequest{
		Name:       e.Name,
		Surname:    e.Surname,
		Phone:      e.Phone,
		CompanyID:  e.CompanyID,
		Passport:   &domain.PassportRequest{Type: e.Passport.Type, Number: e.Passport.Number},
		Department: &domain.DepartmentRequest{Name: e.Department.Name, Phone: e.Department.Phone},
	}
}
