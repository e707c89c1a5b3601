package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	auditdomain "github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/crm/domain"
	"github.com/tair/erp-backend/internal/crm/usecase/command"
	"github.com/tair/erp-backend/internal/crm/usecase/query"
	"github.com/tair/erp-backend/internal/httpapi"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
	"github.com/tair/erp-backend/pkg/logger"
)

// CRMHandler handles HTTP requests for customers, leads and opportunities
type CRMHandler struct {
	createCustomerHandler    *command.CreateCustomerHandler
	createLeadHandler        *command.CreateLeadHandler
	createOpportunityHandler *command.CreateOpportunityHandler
	updateStageHandler       *command.UpdateStageHandler

	listCustomersHandler     *query.ListCustomersHandler
	listLeadsHandler         *query.ListLeadsHandler
	listOpportunitiesHandler *query.ListOpportunitiesHandler

	audit  auditdomain.Recorder
	authmw *userhttp.AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCRMHandler creates a new CRM handler
func NewCRMHandler(
	customers domain.CustomerRepository,
	leads domain.LeadRepository,
	opps domain.OpportunityRepository,
	audit auditdomain.Recorder,
	authmw *userhttp.AuthMiddleware,
) *CRMHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_crm_requests_total",
			Help: "Total number of requests to the CRM endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_crm_request_duration_seconds",
			Help:    "Duration of CRM endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CRMHandler{
		createCustomerHandler:    command.NewCreateCustomerHandler(customers),
		createLeadHandler:        command.NewCreateLeadHandler(leads),
		createOpportunityHandler: command.NewCreateOpportunityHandler(opps, customers),
		updateStageHandler:       command.NewUpdateStageHandler(opps),
		listCustomersHandler:     query.NewListCustomersHandler(customers),
		listLeadsHandler:         query.NewListLeadsHandler(leads),
		listOpportunitiesHandler: query.NewListOpportunitiesHandler(opps),
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
func (h *CRMHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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
func (h *CRMHandler) recordAudit(r *http.Request, action, entityType string, entityID uint, metadata map[string]any) {
	actor := userhttp.UserFromContext(r.Context())
	var actorID *uint
	if actor != nil {
		actorID = &actor.ID
	}
	if _, err := h.audit.Record(actorID, action, entityType, &entityID, metadata); err != nil {
		logger.Warn(r.Context()).Err(err).Str("action", action).Msg("Failed to record audit entry")
	}
}

// ListCustomers handles GET /crm/customers
func (h *CRMHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	customers, err := h.listCustomersHandler.Handle(query.ListCustomersQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, customers)
}

// CreateCustomer handles POST /crm/customers
func (h *CRMHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.createCustomerHandler.Handle(command.CreateCustomerCommand{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "CREATE", "customer", customer.ID, map[string]any{"name": customer.Name})
	httpapi.RespondJSON(w, http.StatusCreated, customer)
}

// ListLeads handles GET /crm/leads
func (h *CRMHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	leads, err := h.listLeadsHandler.Handle(query.ListLeadsQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, leads)
}

// CreateLead handles POST /crm/leads
func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Source     string `json:"source"`
		Status     string `json:"status"`
		CustomerID *uint  `json:"customer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead, err := h.createLeadHandler.Handle(command.CreateLeadCommand{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     domain.LeadStatus(req.Status),
		CustomerID: req.CustomerID,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "CREATE", "lead", lead.ID, map[string]any{"name": lead.Name})
	httpapi.RespondJSON(w, http.StatusCreated, lead)
}

// ListOpportunities handles GET /crm/opportunities
func (h *CRMHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	opps, err := h.listOpportunitiesHandler.Handle(query.ListOpportunitiesQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, opps)
}

// CreateOpportunity handles POST /crm/opportunities
func (h *CRMHandler) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID uint    `json:"customer_id"`
		Title      string  `json:"title"`
		Value      float64 `json:"value"`
		Stage      string  `json:"stage"`
		Notes      string  `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opp, err := h.createOpportunityHandler.Handle(command.CreateOpportunityCommand{
		CustomerID: req.CustomerID,
		Title:      req.Title,
		Value:      req.Value,
		Stage:      domain.OpportunityStage(req.Stage),
		Notes:      req.Notes,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "CREATE", "opportunity", opp.ID, map[string]any{"title": opp.Title})
	httpapi.RespondJSON(w, http.StatusCreated, opp)
}

// UpdateStage handles POST /crm/opportunities/{id}/stage
func (h *CRMHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid opportunity ID")
		return
	}

	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	change, err := h.updateStageHandler.Handle(command.UpdateStageCommand{
		OpportunityID: uint(id),
		Stage:         domain.OpportunityStage(req.Stage),
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	h.recordAudit(r, "UPDATE_STAGE", "opportunity", change.Opportunity.ID, map[string]any{
		"from": change.From,
		"to":   change.To,
	})
	httpapi.RespondJSON(w, http.StatusOK, change.Opportunity)
}

// RegisterRoutes registers all CRM routes
func (h *CRMHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	router.HandleFunc("/crm/customers", h.metricsMiddleware("/crm/customers", requires("crm.customers.read")(h.ListCustomers))).Methods("GET")
	router.HandleFunc("/crm/customers", h.metricsMiddleware("/crm/customers", requires("crm.customers.write")(h.CreateCustomer))).Methods("POST")
	router.HandleFunc("/crm/leads", h.metricsMiddleware("/crm/leads", requires("crm.leads.read")(h.ListLeads))).Methods("GET")
	router.HandleFunc("/crm/leads", h.metricsMiddleware("/crm/leads", requires("crm.leads.write")(h.CreateLead))).Methods("POST")
	router.HandleFunc("/crm/opportunities", h.metricsMiddleware("/crm/opportunities", requires("crm.opportunities.read")(h.ListOpportunities))).Methods("GET")
	router.HandleFunc("/crm/opportunities", h.metricsMiddleware("/crm/opportunities", requires("crm.opportunities.write")(h.CreateOpportunity))).Methods("POST")
	router.HandleFunc("/crm/opportunities/{id}/stage", h.metricsMiddleware("/crm/opportunities/{id}/stage", requires("crm.opportunities.write")(h.UpdateStage))).Methods("POST")
}
