package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/erp-backend/internal/dashboard/usecase/query"
	"github.com/tair/erp-backend/internal/httpapi"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
)

// DashboardHandler handles HTTP requests for the aggregate dashboard views
type DashboardHandler struct {
	summaryHandler        *query.SummaryHandler
	recentActivityHandler *query.RecentActivityHandler

	authmw *userhttp.AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	summaryHandler *query.SummaryHandler,
	recentActivityHandler *query.RecentActivityHandler,
	authmw *userhttp.AuthMiddleware,
) *DashboardHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_dashboard_requests_total",
			Help: "Total number of requests to the dashboard endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_dashboard_request_duration_seconds",
			Help:    "Duration of dashboard endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &DashboardHandler{
		summaryHandler:        summaryHandler,
		recentActivityHandler: recentActivityHandler,
		authmw:                authmw,
		requestCounter:        requestCounter,
		requestLatency:        requestLatency,
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
func (h *DashboardHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Summary handles GET /dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, cached, err := h.summaryHandler.Handle(r.Context())
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	httpapi.RespondJSON(w, http.StatusOK, summary)
}

// RecentActivity handles GET /dashboard/recent-activity
func (h *DashboardHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.recentActivityHandler.Handle()
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}
	httpapi.RespondJSON(w, http.StatusOK, activity)
}

// RegisterRoutes registers all dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	router.HandleFunc("/dashboard/summary", h.metricsMiddleware("/dashboard/summary", requires("dashboard.read")(h.Summary))).Methods("GET")
	router.HandleFunc("/dashboard/recent-activity", h.metricsMiddleware("/dashboard/recent-activity", requires("dashboard.read")(h.RecentActivity))).Methods("GET")
}
