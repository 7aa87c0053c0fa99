package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/pkg/database"
	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/jmoiron/sqlx"
)

// EmployeeReader loads employee aggregates
type EmployeeReader interface {
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindByCompanyID(ctx context.Context, companyID int64) ([]*domain.Employee, error)
	FindByDepartmentID(ctx context.Context, departmentID int64) ([]*domain.Employee, error)
}

// EmployeeWriter persists new and changed aggregates
type EmployeeWriter interface {
	Create(ctx context.Context, emp *domain.Employee) (int64, error)
	Update(ctx context.Context, id int64, emp *domain.Employee, passport *domain.Passport, department *domain.Department) error
}

// EmployeeDeleter removes aggregates
type EmployeeDeleter interface {
	DeleteByID(ctx context.Context, id int64) error
}

// employeeRow is one row of the employee/passport/department join
type employeeRow struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	Surname         string `db:"surname"`
	Phone           string `db:"phone"`
	CompanyID       int64  `db:"company_id"`
	PassportID      int64  `db:"passport_id"`
	PassportType    string `db:"passport_type"`
	PassportNumber  string `db:"passport_number"`
	DepartmentID    int64  `db:"department_id"`
	DepartmentName  string `db:"department_name"`
	DepartmentPhone string `db:"department_phone"`
}

func (r *employeeRow) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:           r.ID,
		Name:         r.Name,
		Surname:      r.Surname,
		Phone:        r.Phone,
		CompanyID:    r.CompanyID,
		PassportID:   r.PassportID,
		DepartmentID: r.DepartmentID,
		Passport: &domain.Passport{
			ID:     r.PassportID,
			Type:   r.PassportType,
			Number: r.PassportNumber,
		},
		Department: &domain.Department{
			ID:    r.DepartmentID,
			Name:  r.DepartmentName,
			Phone: r.DepartmentPhone,
		},
	}
}

const selectEmployee = `
	SELECT e.id, e.name, e.surname, e.phone, e.company_id,
		p.id AS passport_id, p.type AS passport_type, p.number AS passport_number,
		d.id AS department_id, d.name AS department_name, d.phone AS department_phone
	FROM employees e
	INNER JOIN passports p ON p.id = e.passport_id
	INNER JOIN departments d ON d.id = e.department_id`

// EmployeeRepository stores employees with their passport and department
// across three tables.
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var (
	_ EmployeeReader  = (*EmployeeRepository)(nil)
	_ EmployeeWriter  = (*EmployeeRepository)(nil)
	_ EmployeeDeleter = (*EmployeeRepository)(nil)
)

// FindByID returns nil, nil when no employee has the given id
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var row employeeRow
	err := r.db.GetContext(ctx, &row, selectEmployee+` WHERE e.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// FindByCompanyID lists a company's employees ordered by id
func (r *EmployeeRepository) FindByCompanyID(ctx context.Context, companyID int64) ([]*domain.Employee, error) {
	return r.list(ctx, selectEmployee+` WHERE e.company_id = $1 ORDER BY e.id`, companyID)
}

// FindByDepartmentID lists a department's employees ordered by id
func (r *EmployeeRepository) FindByDepartmentID(ctx context.Context, departmentID int64) ([]*domain.Employee, error) {
	return r.list(ctx, selectEmployee+` WHERE e.department_id = $1 ORDER BY e.id`, departmentID)
}

func (r *EmployeeRepository) list(ctx context.Context, query string, arg int64) ([]*domain.Employee, error) {
	var rows []employeeRow
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	employees := make([]*domain.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, rows[i].toDomain())
	}
	return employees, nil
}

// Create inserts the passport, the department and the employee in one
// transaction and returns the new employee id. emp.ID and the child ids are
// filled in on success.
func (r *EmployeeRepository) Create(ctx context.Context, emp *domain.Employee) (int64, error) {
	if emp == nil || emp.Passport == nil || emp.Department == nil {
		return 0, errors.InvalidArgument("employee must have a passport and a department")
	}

	var passportID, departmentID, employeeID int64
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO passports (type, number) VALUES ($1, $2) RETURNING id`,
			emp.Passport.Type, emp.Passport.Number,
		).Scan(&passportID); err != nil {
			return fmt.Errorf("insert passport: %w", err)
		}

		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO departments (name, phone) VALUES ($1, $2) RETURNING id`,
			emp.Department.Name, emp.Department.Phone,
		).Scan(&departmentID); err != nil {
			return fmt.Errorf("insert department: %w", err)
		}

		query := `
			INSERT INTO employees (name, surname, phone, company_id, passport_id, department_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		if err := tx.QueryRowxContext(ctx, query,
			emp.Name, emp.Surname, emp.Phone, emp.CompanyID, passportID, departmentID,
		).Scan(&employeeID); err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	emp.ID = employeeID
	emp.PassportID = passportID
	emp.DepartmentID = departmentID
	emp.Passport.ID = passportID
	emp.Department.ID = departmentID
	return employeeID, nil
}

// Update writes the given parts of the aggregate in one transaction. A nil
// passport or department is left alone. emp contributes only its non-empty
// scalar fields; when it has none, no employee statement is issued.
func (r *EmployeeRepository) Update(ctx context.Context, id int64, emp *domain.Employee, passport *domain.Passport, department *domain.Department) error {
	empQuery, empArgs := buildEmployeeUpdate(id, emp)
	if passport == nil && department == nil && empQuery == "" {
		return nil
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if passport != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE passports SET type = $1, number = $2 WHERE id = (SELECT passport_id FROM employees WHERE id = $3)`,
				passport.Type, passport.Number, id,
			); err != nil {
				return fmt.Errorf("update passport: %w", err)
			}
		}

		if department != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE departments SET name = $1, phone = $2 WHERE id = (SELECT department_id FROM employees WHERE id = $3)`,
				department.Name, department.Phone, id,
			); err != nil {
				return fmt.Errorf("update department: %w", err)
			}
		}

		if empQuery != "" {
			if _, err := tx.ExecContext(ctx, empQuery, empArgs...); err != nil {
				return fmt.Errorf("update employee: %w", err)
			}
		}
		return nil
	})
}

// buildEmployeeUpdate assembles the SET list from fixed column names. It
// returns an empty query when emp has nothing to write.
func buildEmployeeUpdate(id int64, emp *domain.Employee) (string, []any) {
	if emp == nil {
		return "", nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if emp.Name != "" {
		add("name", emp.Name)
	}
	if emp.Surname != "" {
		add("surname", emp.Surname)
	}
	if emp.Phone != "" {
		add("phone", emp.Phone)
	}
	if emp.CompanyID > 0 {
		add("company_id", emp.CompanyID)
	}
	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	query := "UPDATE employees SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	return query, args
}

// DeleteByID removes the employee and then its passport and department in one
// transaction.
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var refs struct {
			PassportID   int64 `db:"passport_id"`
			DepartmentID int64 `db:"department_id"`
		}
		err := tx.GetContext(ctx, &refs, `SELECT passport_id, department_id FROM employees WHERE id = $1`, id)
		if err == sql.ErrNoRows {
			return errors.NotFound("employee")
		}
		if err != nil {
			return fmt.Errorf("load employee references: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete employee: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM passports WHERE id = $1`, refs.PassportID); err != nil {
			return fmt.Errorf("delete passport: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, refs.DepartmentID); err != nil {
			return fmt.Errorf("delete department: %w", err)
		}
		return nil
	})
}
