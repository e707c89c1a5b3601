package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	auditdomain "github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/authz"
	"github.com/tair/erp-backend/internal/hr/domain"
	"github.com/tair/erp-backend/internal/hr/usecase/command"
	"github.com/tair/erp-backend/internal/hr/usecase/query"
	"github.com/tair/erp-backend/internal/httpapi"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
	"github.com/tair/erp-backend/pkg/logger"
)

// HRHandler handles HTTP requests for departments, employees and leave
// requests
type HRHandler struct {
	createDepartmentHandler *command.CreateDepartmentHandler
	createEmployeeHandler   *command.CreateEmployeeHandler
	submitLeaveHandler      *command.SubmitLeaveHandler
	reviewLeaveHandler      *command.ReviewLeaveHandler

	listDepartmentsHandler   *query.ListDepartmentsHandler
	listEmployeesHandler     *query.ListEmployeesHandler
	listLeaveRequestsHandler *query.ListLeaveRequestsHandler

	audit  auditdomain.Recorder
	authmw *userhttp.AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewHRHandler creates a new HR handler
func NewHRHandler(
	departments domain.DepartmentRepository,
	employees domain.EmployeeRepository,
	leaves domain.LeaveRepository,
	audit auditdomain.Recorder,
	authmw *userhttp.AuthMiddleware,
) *HRHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_hr_requests_total",
			Help: "Total number of requests to the HR endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_hr_request_duration_seconds",
			Help:    "Duration of HR endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &HRHandler{
		createDepartmentHandler:  command.NewCreateDepartmentHandler(departments),
		createEmployeeHandler:    command.NewCreateEmployeeHandler(employees),
		submitLeaveHandler:       command.NewSubmitLeaveHandler(leaves, employees),
		reviewLeaveHandler:       command.NewReviewLeaveHandler(leaves),
		listDepartmentsHandler:   query.NewListDepartmentsHandler(departments),
		listEmployeesHandler:     query.NewListEmployeesHandler(employees),
		listLeaveRequestsHandler: query.NewListLeaveRequestsHandler(leaves, employees),
		audit:                    audit,
		authmw:                   authmw,
		requestCounter:           requestCounter,
		requestLatency:           requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *HRHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// recordAudit appends an audit entry after a successful mutation
func (h *HRHandler) recordAudit(r *http.Request, action, entityType string, entityID uint, metadata map[string]any) {
	actor := userhttp.UserFromContext(r.Context())
	var actorID *uint
	if actor != nil {
		actorID = &actor.ID
	}
	if _, err := h.audit.Record(actorID, action, entityType, &entityID, metadata); err != nil {
		logger.Warn(r.Context()).Err(err).Str("action", action).Msg("Failed to record audit entry")
	}
}

// ListDepartments handles GET /hr/departments
func (h *HRHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.listDepartmentsHandler.Handle()
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, depts)
}

// CreateDepartment handles POST /hr/departments
func (h *HRHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dept, err := h.createDepartmentHandler.Handle(command.CreateDepartmentCommand{Name: req.Name})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusCreated, dept)
}

// ListEmployees handles GET /hr/employees
func (h *HRHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	emps, err := h.listEmployeesHandler.Handle(query.ListEmployeesQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, emps)
}

// CreateEmployee handles POST /hr/employees
func (h *HRHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName     string `json:"full_name"`
		Email        string `json:"email"`
		UserID       *uint  `json:"user_id"`
		DepartmentID *uint  `json:"department_id"`
		Title        string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, err := h.createEmployeeHandler.Handle(command.CreateEmployeeCommand{
		FullName:     req.FullName,
		Email:        req.Email,
		UserID:       req.UserID,
		DepartmentID: req.DepartmentID,
		Title:        req.Title,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "CREATE", "employee", emp.ID, map[string]any{"name": emp.FullName})
	httpapi.RespondJSON(w, http.StatusCreated, emp)
}

// ListLeaveRequests handles GET /hr/leave-requests. The listing is scoped:
// holders of hr.leave.approve see every request, everyone else sees only
// the requests of their own employee record.
func (h *HRHandler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	user := userhttp.UserFromContext(r.Context())
	if user == nil {
		httpapi.RespondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	leaves, err := h.listLeaveRequestsHandler.Handle(query.ListLeaveRequestsQuery{
		CallerUserID: user.ID,
		CanReview:    authz.Resolve(user.Roles).Has("hr.leave.approve"),
		Limit:        limit,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, leaves)
}

// SubmitLeave handles POST /hr/leave-requests
func (h *HRHandler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID uint   `json:"employee_id"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	leave, err := h.submitLeaveHandler.Handle(command.SubmitLeaveCommand{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "SUBMIT", "leave_request", leave.ID, nil)
	httpapi.RespondJSON(w, http.StatusCreated, leave)
}

// ApproveLeave handles POST /hr/leave-requests/{id}/approve
func (h *HRHandler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, true)
}

// RejectLeave handles POST /hr/leave-requests/{id}/reject
func (h *HRHandler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, false)
}

func (h *HRHandler) reviewLeave(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid leave request ID")
		return
	}

	var reviewerID uint
	if user := userhttp.UserFromContext(r.Context()); user != nil {
		reviewerID = user.ID
	}

	leave, err := h.reviewLeaveHandler.Handle(command.ReviewLeaveCommand{
		LeaveRequestID: uint(id),
		Approve:        approve,
		ReviewerUserID: reviewerID,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	action := "REJECT"
	if approve {
		action = "APPROVE"
	}
	h.recordAudit(r, action, "leave_request", leave.ID, nil)
	httpapi.RespondJSON(w, http.StatusOK, leave)
}

// RegisterRoutes registers all HR routes
func (h *HRHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	router.HandleFunc("/hr/departments", h.metricsMiddleware("/hr/departments", requires("hr.departments.read")(h.ListDepartments))).Methods("GET")
	router.HandleFunc("/hr/departments", h.metricsMiddleware("/hr/departments", requires("hr.departments.write")(h.CreateDepartment))).Methods("POST")
	router.HandleFunc("/hr/employees", h.metricsMiddleware("/hr/employees", requires("hr.employees.read")(h.ListEmployees))).Methods("GET")
	router.HandleFunc("/hr/employees", h.metricsMiddleware("/hr/employees", requires("hr.employees.write")(h.CreateEmployee))).Methods("POST")
	router.HandleFunc("/hr/leave-requests", h.metricsMiddleware("/hr/leave-requests", h.authmw.Authenticate(h.ListLeaveRequests))).Methods("GET")
	router.HandleFunc("/hr/leave-requests", h.metricsMiddleware("/hr/leave-requests", requires("hr.leave.submit")(h.SubmitLeave))).Methods("POST")
	router.HandleFunc("/hr/leave-requests/{id}/approve", h.metricsMiddleware("/hr/leave-requests/{id}/approve", requires("hr.leave.approve")(h.ApproveLeave))).Methods("POST")
	router.HandleFunc("/hr/leave-requests/{id}/reject", h.metricsMiddleware("/hr/leave-requests/{id}/reject", requires("hr.leave.approve")(h.RejectLeave))).Methods("POST")
}
