package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/internal/employee/repository"
	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/emsvc/employee-service/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*repository.EmployeeRepository, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })
	return repository.NewEmployeeRepository(mockDB.Database()), mockDB
}

func newEmployee() *domain.Employee {
	return &domain.Employee{
		Name:       "Test",
		Surname:    "User",
		Phone:      "1234567890",
		CompanyID:  1,
		Passport:   &domain.Passport{Type: "RU", Number: "123456"},
		Department: &domain.Department{Name: "IT", Phone: "1234"},
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO passports (type, number) VALUES ($1, $2) RETURNING id").
		WithArgs("RU", "123456").
		WillReturnRows(testutil.MockRows("id").AddRow(10))
	mockDB.ExpectQuery("INSERT INTO departments (name, phone) VALUES ($1, $2) RETURNING id").
		WithArgs("IT", "1234").
		WillReturnRows(testutil.MockRows("id").AddRow(20))
	mockDB.ExpectQuery("INSERT INTO employees").
		WithArgs("Test", "User", "1234567890", int64(1), int64(10), int64(20)).
		WillReturnRows(testutil.MockRows("id").AddRow(7))
	mockDB.ExpectCommit()

	emp := newEmployee()
	id, err := repo.Create(context.Background(), emp)

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), emp.ID)
	assert.Equal(t, int64(10), emp.Passport.ID)
	assert.Equal(t, int64(20), emp.Department.ID)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Create_RollsBackOnEmployeeInsertFailure(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO passports").
		WillReturnRows(testutil.MockRows("id").AddRow(10))
	mockDB.ExpectQuery("INSERT INTO departments").
		WillReturnRows(testutil.MockRows("id").AddRow(20))
	mockDB.ExpectQuery("INSERT INTO employees").
		WillReturnError(fmt.Errorf("null value in column \"name\""))
	mockDB.ExpectRollback()

	emp := newEmployee()
	id, err := repo.Create(context.Background(), emp)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert employee")
	assert.Zero(t, id)
	assert.Zero(t, emp.ID)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Create_RollsBackOnPassportFailure(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO passports").
		WillReturnError(fmt.Errorf("value too long"))
	mockDB.ExpectRollback()

	_, err := repo.Create(context.Background(), newEmployee())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert passport")
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Create_RequiresChildren(t *testing.T) {
	repo, mockDB := newRepo(t)

	emp := newEmployee()
	emp.Department = nil
	_, err := repo.Create(context.Background(), emp)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery("WHERE e.id = $1").
		WithArgs(int64(7)).
		WillReturnRows(testutil.MockRows(testutil.EmployeeColumns()...).
			AddRow(7, "Test", "User", "1234567890", 1, 10, "RU", "123456", 20, "IT", "1234"))

	emp, err := repo.FindByID(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, &domain.Employee{
		ID:           7,
		Name:         "Test",
		Surname:      "User",
		Phone:        "1234567890",
		CompanyID:    1,
		PassportID:   10,
		DepartmentID: 20,
		Passport:     &domain.Passport{ID: 10, Type: "RU", Number: "123456"},
		Department:   &domain.Department{ID: 20, Name: "IT", Phone: "1234"},
	}, emp)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByID_Missing(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery("WHERE e.id = $1").
		WithArgs(int64(404)).
		WillReturnRows(testutil.MockRows(testutil.EmployeeColumns()...))

	emp, err := repo.FindByID(context.Background(), 404)

	require.NoError(t, err)
	assert.Nil(t, emp)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByID_Error(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery("WHERE e.id = $1").WillReturnError(fmt.Errorf("connection refused"))

	emp, err := repo.FindByID(context.Background(), 1)

	require.Error(t, err)
	assert.Nil(t, emp)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByCompanyID(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery("INNER JOIN passports p ON p.id = e.passport_id").
		WithArgs(int64(1)).
		WillReturnRows(testutil.MockRows(testutil.EmployeeColumns()...).
			AddRow(1, "Anna", "Petrova", "111", 1, 10, "RU", "A1", 20, "IT", "1").
			AddRow(2, "Ivan", "Petrov", "222", 1, 11, "RU", "A2", 21, "HR", "2"))

	employees, err := repo.FindByCompanyID(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, int64(1), employees[0].ID)
	assert.Equal(t, "HR", employees[1].Department.Name)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_FindByDepartmentID_Empty(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectQuery("WHERE e.department_id = $1 ORDER BY e.id").
		WithArgs(int64(3)).
		WillReturnRows(testutil.MockRows(testutil.EmployeeColumns()...))

	employees, err := repo.FindByDepartmentID(context.Background(), 3)

	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Update_AllParts(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE passports SET type = $1, number = $2 WHERE id = (SELECT passport_id FROM employees WHERE id = $3)").
		WithArgs("KZ", "N1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("UPDATE departments SET name = $1, phone = $2 WHERE id = (SELECT department_id FROM employees WHERE id = $3)").
		WithArgs("Sales", "42", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("UPDATE employees SET name = $1, surname = $2, phone = $3, company_id = $4 WHERE id = $5").
		WithArgs("Anna", "Petrova", "555", int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.Update(context.Background(), 7,
		&domain.Employee{Name: "Anna", Surname: "Petrova", Phone: "555", CompanyID: 3},
		&domain.Passport{Type: "KZ", Number: "N1"},
		&domain.Department{Name: "Sales", Phone: "42"},
	)

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Update_OnlyPresentScalars(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE employees SET phone = $1 WHERE id = $2").
		WithArgs("2", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.Update(context.Background(), 7, &domain.Employee{Phone: "2"}, nil, nil)

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Update_PassportOnly(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE passports").
		WithArgs("RU", "654321", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.Update(context.Background(), 7, &domain.Employee{}, &domain.Passport{Type: "RU", Number: "654321"}, nil)

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Update_NothingToWrite(t *testing.T) {
	repo, mockDB := newRepo(t)

	err := repo.Update(context.Background(), 7, &domain.Employee{}, nil, nil)

	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Update_RollsBack(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE passports").WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("UPDATE departments").WillReturnError(fmt.Errorf("deadlock detected"))
	mockDB.ExpectRollback()

	err := repo.Update(context.Background(), 7, nil,
		&domain.Passport{Type: "RU", Number: "1"},
		&domain.Department{Name: "IT", Phone: "1"},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "update department")
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_DeleteByID(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT passport_id, department_id FROM employees WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnRows(testutil.MockRows("passport_id", "department_id").AddRow(10, 20))
	mockDB.ExpectExec("DELETE FROM employees WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("DELETE FROM passports WHERE id = $1").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("DELETE FROM departments WHERE id = $1").
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	require.NoError(t, repo.DeleteByID(context.Background(), 7))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_DeleteByID_NotFound(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT passport_id, department_id FROM employees").
		WithArgs(int64(404)).
		WillReturnRows(testutil.MockRows("passport_id", "department_id"))
	mockDB.ExpectRollback()

	err := repo.DeleteByID(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_DeleteByID_RollsBackOnChildFailure(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT passport_id, department_id FROM employees").
		WillReturnRows(testutil.MockRows("passport_id", "department_id").AddRow(10, 20))
	mockDB.ExpectExec("DELETE FROM employees").WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("DELETE FROM passports").WillReturnError(fmt.Errorf("connection reset"))
	mockDB.ExpectRollback()

	err := repo.DeleteByID(context.Background(), 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete passport")
	assert.False(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
