package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/emsvc/employee-service/internal/employee/domain"
	"github.com/emsvc/employee-service/internal/employee/service"
	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/emsvc/employee-service/pkg/httputil"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// EmployeeService is implemented by *service.EmployeeService
type EmployeeService interface {
	Get(ctx context.Context, id int64) service.Result[*domain.Employee]
	ListByCompany(ctx context.Context, companyID int64) service.Result[[]*domain.Employee]
	ListByDepartment(ctx context.Context, departmentID int64) service.Result[[]*domain.Employee]
	Create(ctx context.Context, req *domain.CreateEmployeeRequest) service.Result[int64]
	Update(ctx context.Context, id int64, patch *domain.UpdateEmployeeRequest) service.Result[*domain.Employee]
	Delete(ctx context.Context, id int64) service.Result[struct{}]
}

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	service EmployeeService
	logger  *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: svc,
		logger:  log.WithComponent("employee-handler"),
	}
}

// Routes returns the employee routes, to be mounted under /employees
func (h *EmployeeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/by-company/{companyId}", h.ListByCompany)
	r.Get("/by-department/{departmentId}", h.ListByDepartment)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// CreatedResponse is returned by Create
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// Create creates an employee with its passport and department
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	res := h.service.Create(r.Context(), &req)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.JSON(w, http.StatusOK, CreatedResponse{ID: res.Data})
}

// Get returns one employee
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	res := h.service.Get(r.Context(), id)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.JSON(w, http.StatusOK, res.Data)
}

// ListByCompany lists the employees of a company
func (h *EmployeeHandler) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.pathID(w, r, "companyId")
	if !ok {
		return
	}

	res := h.service.ListByCompany(r.Context(), companyID)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.JSON(w, http.StatusOK, res.Data)
}

// ListByDepartment lists the employees of a department
func (h *EmployeeHandler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := h.pathID(w, r, "departmentId")
	if !ok {
		return
	}

	res := h.service.ListByDepartment(r.Context(), departmentID)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.JSON(w, http.StatusOK, res.Data)
}

// Update applies a sparse patch and returns the merged employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var patch domain.UpdateEmployeeRequest
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	res := h.service.Update(r.Context(), id, &patch)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.JSON(w, http.StatusOK, res.Data)
}

// Delete removes an employee
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	res := h.service.Delete(r.Context(), id)
	if !res.OK() {
		h.fail(w, r, res.Kind, res.Err)
		return
	}

	httputil.NoContent(w)
}

func (h *EmployeeHandler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		httputil.ErrorLocalized(w, r, errors.InvalidArgument(param+" must be an integer"))
		return 0, false
	}
	return id, true
}

// fail writes the error envelope for a failed result
func (h *EmployeeHandler) fail(w http.ResponseWriter, r *http.Request, kind service.ResultKind, appErr *errors.AppError) {
	if appErr == nil {
		appErr = errors.Internal("an unexpected error occurred")
	}

	switch kind {
	case service.ResultInvalidArgument, service.ResultNotFound, service.ResultStorageFailure:
		httputil.ErrorLocalized(w, r, appErr)
	default:
		h.logger.WithRequestID(httputil.GetRequestID(r.Context())).Error().
			Str("kind", kind.String()).
			Msg("request failed")
		httputil.ErrorLocalized(w, r, errors.Internal("an unexpected error occurred"))
	}
}
