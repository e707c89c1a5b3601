package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	auditdomain "github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/httpapi"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/internal/user/usecase/command"
	"github.com/tair/erp-backend/internal/user/usecase/query"
	"github.com/tair/erp-backend/pkg/logger"
)

// UserHandler handles HTTP requests for users, roles and authentication
type UserHandler struct {
	loginHandler        *command.LoginUserHandler
	createHandler       *command.CreateUserHandler
	toggleActiveHandler *command.ToggleActiveHandler
	assignRoleHandler   *command.AssignRoleHandler

	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler

	roleRepo domain.RoleRepository
	audit    auditdomain.Recorder
	authmw   *AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	repo domain.UserRepository,
	roleRepo domain.RoleRepository,
	audit auditdomain.Recorder,
	authmw *AuthMiddleware,
	loginHandler *command.LoginUserHandler,
) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_user_requests_total",
			Help: "Total number of requests to the user endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_user_request_duration_seconds",
			Help:    "Duration of user endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &UserHandler{
		loginHandler:        loginHandler,
		createHandler:       command.NewCreateUserHandler(repo),
		toggleActiveHandler: command.NewToggleActiveHandler(repo),
		assignRoleHandler:   command.NewAssignRoleHandler(repo),
		getUserHandler:      query.NewGetUserHandler(repo),
		listHandler:         query.NewListUsersHandler(repo),
		roleRepo:            roleRepo,
		audit:               audit,
		authmw:              authmw,
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
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
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// recordAudit appends an audit entry after a successful mutation. Audit is
// best-effort observability here; failure never fails the request.
func (h *UserHandler) recordAudit(r *http.Request, action, entityType string, entityID uint, metadata map[string]any) {
	actor := UserFromContext(r.Context())
	var actorID *uint
	if actor != nil {
		actorID = &actor.ID
	}
	if _, err := h.audit.Record(actorID, action, entityType, &entityID, metadata); err != nil {
		logger.Warn(r.Context()).Err(err).Str("action", action).Msg("Failed to record audit entry")
	}
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.loginHandler.Handle(command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, response)
}

// Me handles GET /auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	httpapi.RespondJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string   `json:"email"`
		Password string   `json:"password"`
		IsActive *bool    `json:"is_active"`
		Roles    []string `json:"roles"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.createHandler.Handle(command.CreateUserCommand{
		Email:    req.Email,
		Password: req.Password,
		IsActive: active,
		Roles:    req.Roles,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "CREATE", "user", user.ID, map[string]any{"email": user.Email})
	httpapi.RespondJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.listHandler.Handle(query.ListUsersQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{ID: uint(id)})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, user)
}

// ToggleActive handles PUT /users/{id}/active
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.toggleActiveHandler.Handle(command.ToggleActiveCommand{
		UserID:   uint(id),
		IsActive: req.IsActive,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "TOGGLE_ACTIVE", "user", user.ID, map[string]any{"is_active": req.IsActive})
	httpapi.RespondJSON(w, http.StatusOK, user)
}

// AssignRole handles POST /users/{id}/roles
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.assignRoleHandler.Handle(command.AssignRoleCommand{
		UserID:   uint(id),
		RoleName: req.Role,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "ASSIGN_ROLE", "user", user.ID, map[string]any{"role": req.Role})
	httpapi.RespondJSON(w, http.StatusOK, user)
}

// ListRoles handles GET /roles
func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleRepo.ListRoles()
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, roles)
}

// ListPermissions handles GET /permissions
func (h *UserHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.roleRepo.ListPermissions()
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, permissions)
}

// RegisterRoutes registers all user and auth routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	// Public routes
	router.HandleFunc("/auth/login", h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")

	// Authenticated routes
	router.HandleFunc("/auth/me", h.metricsMiddleware("/auth/me", h.authmw.Authenticate(h.Me))).Methods("GET")

	// Permission-gated routes
	router.HandleFunc("/users", h.metricsMiddleware("/users", requires("users.read")(h.ListUsers))).Methods("GET")
	router.HandleFunc("/users", h.metricsMiddleware("/users", requires("users.write")(h.CreateUser))).Methods("POST")
	router.HandleFunc("/users/{id}", h.metricsMiddleware("/users/{id}", requires("users.read")(h.GetUser))).Methods("GET")
	router.HandleFunc("/users/{id}/active", h.metricsMiddleware("/users/{id}/active", requires("users.write")(h.ToggleActive))).Methods("PUT")
	router.HandleFunc("/users/{id}/roles", h.metricsMiddleware("/users/{id}/roles", requires("roles.write")(h.AssignRole))).Methods("POST")
	router.HandleFunc("/roles", h.metricsMiddleware("/roles", requires("roles.read")(h.ListRoles))).Methods("GET")
	router.HandleFunc("/permissions", h.metricsMiddleware("/permissions", requires("roles.read")(h.ListPermissions))).Methods("GET")
}

// RegisterHealthCheck registers the health check endpoint
func (h *UserHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			httpapi.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		httpapi.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}
