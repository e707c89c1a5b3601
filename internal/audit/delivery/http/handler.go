package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/audit/usecase/query"
	"github.com/tair/erp-backend/internal/httpapi"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	listHandler *query.ListEntriesHandler

	authmw *userhttp.AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(repo domain.Repository, authmw *userhttp.AuthMiddleware) *AuditHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_audit_requests_total",
			Help: "Total number of requests to the audit endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_audit_request_duration_seconds",
			Help:    "Duration of audit endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &AuditHandler{
		listHandler:    query.NewListEntriesHandler(repo),
		authmw:         authmw,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
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
func (h *AuditHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListEntries handles GET /audit-logs
func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.listHandler.Handle(query.ListEntriesQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, entries)
}

// RegisterRoutes registers the audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	router.HandleFunc("/audit-logs", h.metricsMiddleware("/audit-logs", requires("audit.read")(h.ListEntries))).Methods("GET")
}
