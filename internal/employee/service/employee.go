package service

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/internal/employee/repository"
	"github.com/emsvc/employee-service/pkg/database"
	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/emsvc/employee-service/pkg/logger"
)

// Validator checks request payloads
type Validator interface {
	Struct(ctx context.Context, v any) error
}

// EventPublisher is notified after successful writes
type EventPublisher interface {
	PublishEmployeeCreated(ctx context.Context, emp *domain.Employee)
	PublishEmployeeUpdated(ctx context.Context, id int64, patch *domain.UpdateEmployeeRequest)
	PublishEmployeeDeleted(ctx context.Context, id int64)
}

// EmployeeService handles employee business logic
type EmployeeService struct {
	reader    repository.EmployeeReader
	writer    repository.EmployeeWriter
	deleter   repository.EmployeeDeleter
	validator Validator
	events    EventPublisher
	logger    *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	reader repository.EmployeeReader,
	writer repository.EmployeeWriter,
	deleter repository.EmployeeDeleter,
	validator Validator,
	events EventPublisher,
	log *logger.Logger,
) *EmployeeService {
	return &EmployeeService{
		reader:    reader,
		writer:    writer,
		deleter:   deleter,
		validator: validator,
		events:    events,
		logger:    log.WithComponent("employee-service"),
	}
}

// Get returns one employee aggregate
func (s *EmployeeService) Get(ctx context.Context, id int64) (res Result[*domain.Employee]) {
	defer recoverInto(s, "get", &res)

	if id <= 0 {
		return invalid[*domain.Employee](s, "get", "employee id must be positive")
	}

	emp, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return failure[*domain.Employee](s.storageFailure("get", id, err))
	}
	if emp == nil {
		return notFound[*domain.Employee](s, "get", id)
	}

	return success(emp)
}

// ListByCompany returns all employees of a company, ordered by id
func (s *EmployeeService) ListByCompany(ctx context.Context, companyID int64) (res Result[[]*domain.Employee]) {
	defer recoverInto(s, "list_by_company", &res)

	if companyID <= 0 {
		return invalid[[]*domain.Employee](s, "list_by_company", "company id must be positive")
	}

	employees, err := s.reader.FindByCompanyID(ctx, companyID)
	if err != nil {
		return failure[[]*domain.Employee](s.storageFailure("list_by_company", 0, err))
	}

	return success(nonNil(employees))
}

// ListByDepartment returns all employees of a department, ordered by id
func (s *EmployeeService) ListByDepartment(ctx context.Context, departmentID int64) (res Result[[]*domain.Employee]) {
	defer recoverInto(s, "list_by_department", &res)

	if departmentID <= 0 {
		return invalid[[]*domain.Employee](s, "list_by_department", "department id must be positive")
	}

	employees, err := s.reader.FindByDepartmentID(ctx, departmentID)
	if err != nil {
		return failure[[]*domain.Employee](s.storageFailure("list_by_department", 0, err))
	}

	return success(nonNil(employees))
}

// Create validates req and stores the employee with its passport and
// department atomically. The result carries the new employee id.
func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (res Result[int64]) {
	defer recoverInto(s, "create", &res)

	if req == nil {
		return invalid[int64](s, "create", "request body is required")
	}
	if err := s.validator.Struct(ctx, req); err != nil {
		return rejected[int64](s, "create", err)
	}

	emp := req.ToEmployee()
	id, err := s.writer.Create(ctx, emp)
	if err != nil {
		return failure[int64](s.storageFailure("create", 0, err))
	}

	s.logger.Info().Int64("employee_id", id).Int64("company_id", emp.CompanyID).Msg("employee created")
	s.events.PublishEmployeeCreated(ctx, emp)

	return success(id)
}

// Update applies a sparse patch to an existing employee and returns the
// merged aggregate. Nothing is written when the employee does not exist.
func (s *EmployeeService) Update(ctx context.Context, id int64, patch *domain.UpdateEmployeeRequest) (res Result[*domain.Employee]) {
	defer recoverInto(s, "update", &res)

	if id <= 0 {
		return invalid[*domain.Employee](s, "update", "employee id must be positive")
	}
	if patch == nil {
		return invalid[*domain.Employee](s, "update", "request body is required")
	}
	if err := s.validator.Struct(ctx, patch); err != nil {
		return rejected[*domain.Employee](s, "update", err)
	}

	current, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return failure[*domain.Employee](s.storageFailure("update", id, err))
	}
	if current == nil {
		return notFound[*domain.Employee](s, "update", id)
	}

	merged := domain.Merge(current, patch)
	if patch.IsEmpty() {
		return success(merged)
	}

	var scalars *domain.Employee
	if patch.HasScalars() {
		scalars = scalarChanges(merged, patch)
	}
	var passport *domain.Passport
	if patch.Passport != nil {
		passport = merged.Passport
	}
	var department *domain.Department
	if patch.Department != nil {
		department = merged.Department
	}

	if err := s.writer.Update(ctx, id, scalars, passport, department); err != nil {
		return failure[*domain.Employee](s.storageFailure("update", id, err))
	}

	s.logger.Info().Int64("employee_id", id).Msg("employee updated")
	s.events.PublishEmployeeUpdated(ctx, id, patch)

	return success(merged)
}

// Delete removes the employee together with its passport and department
func (s *EmployeeService) Delete(ctx context.Context, id int64) (res Result[struct{}]) {
	defer recoverInto(s, "delete", &res)

	if id <= 0 {
		return invalid[struct{}](s, "delete", "employee id must be positive")
	}

	if err := s.deleter.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return notFound[struct{}](s, "delete", id)
		}
		return failure[struct{}](s.storageFailure("delete", id, err))
	}

	s.logger.Info().Int64("employee_id", id).Msg("employee deleted")
	s.events.PublishEmployeeDeleted(ctx, id)

	return success(struct{}{})
}

// scalarChanges keeps only the employee columns present in patch
func scalarChanges(merged *domain.Employee, patch *domain.UpdateEmployeeRequest) *domain.Employee {
	out := &domain.Employee{ID: merged.ID}
	if patch.Name != nil {
		out.Name = merged.Name
	}
	if patch.Surname != nil {
		out.Surname = merged.Surname
	}
	if patch.Phone != nil {
		out.Phone = merged.Phone
	}
	if patch.CompanyID != nil {
		out.CompanyID = merged.CompanyID
	}
	return out
}

func nonNil(employees []*domain.Employee) []*domain.Employee {
	if employees == nil {
		return []*domain.Employee{}
	}
	return employees
}

// storageFailure logs the driver error and returns a client-safe AppError
// that still wraps it. AppErrors from the gateway pass through unchanged.
func (s *EmployeeService) storageFailure(op string, id int64, err error) error {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	log := s.logger
	if id > 0 {
		log = log.WithEmployeeID(id)
	}
	event := log.Error().Err(err).Str("operation", op)
	if diag, ok := database.Diagnose(err); ok {
		event = event.Object("postgres", diag).
			Bool("integrity_violation", database.IsIntegrityViolation(err))
	}
	event.Msg("storage operation failed")

	return errors.StorageFailure(fmt.Sprintf("failed to %s employee", opVerb(op)), err)
}

func invalid[T any](s *EmployeeService, op, reason string) Result[T] {
	s.logger.Warn().Str("operation", op).Str("reason", reason).Msg("invalid argument")
	return failure[T](errors.InvalidArgument(reason))
}

func rejected[T any](s *EmployeeService, op string, err error) Result[T] {
	event := s.logger.Warn().Str("operation", op)
	var appErr *errors.AppError
	if errors.As(err, &appErr) && len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	event.Msg("validation failed")
	return failure[T](err)
}

func notFound[T any](s *EmployeeService, op string, id int64) Result[T] {
	s.logger.WithEmployeeID(id).Warn().Str("operation", op).Msg("employee not found")
	return failure[T](errors.NotFound("employee"))
}

// recoverInto turns a panic in an operation into an Unknown result
func recoverInto[T any](s *EmployeeService, op string, res *Result[T]) {
	rec := recover()
	if rec == nil {
		return
	}

	s.logger.Error().
		Str("operation", op).
		Interface("panic", rec).
		Bytes("stack", debug.Stack()).
		Msg("panic recovered")

	var zero T
	*res = Result[T]{
		Kind: ResultUnknown,
		Data: zero,
		Err:  errors.Internal("an unexpected error occurred"),
	}
}

func opVerb(op string) string {
	switch op {
	case "get", "list_by_company", "list_by_department":
		return "load"
	default:
		return op
	}
}
