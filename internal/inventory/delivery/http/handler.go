package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/erp-backend/internal/httpapi"
	"github.com/tair/erp-backend/internal/inventory/domain"
	"github.com/tair/erp-backend/internal/inventory/usecase/command"
	"github.com/tair/erp-backend/internal/inventory/usecase/query"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
)

// InventoryHandler handles HTTP requests for products and stock transactions
type InventoryHandler struct {
	createHandler      *command.CreateProductHandler
	transactionHandler *command.ApplyTransactionHandler

	getProductHandler       *query.GetProductHandler
	listProductsHandler     *query.ListProductsHandler
	listTransactionsHandler *query.ListTransactionsHandler
	lowStockHandler         *query.LowStockHandler

	authmw *userhttp.AuthMiddleware

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	products domain.ProductRepository,
	ledger domain.LedgerRepository,
	authmw *userhttp.AuthMiddleware,
) *InventoryHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_inventory_requests_total",
			Help: "Total number of requests to the inventory endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_inventory_request_duration_seconds",
			Help:    "Duration of inventory endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &InventoryHandler{
		createHandler:           command.NewCreateProductHandler(products),
		transactionHandler:      command.NewApplyTransactionHandler(ledger),
		getProductHandler:       query.NewGetProductHandler(products),
		listProductsHandler:     query.NewListProductsHandler(products),
		listTransactionsHandler: query.NewListTransactionsHandler(ledger),
		lowStockHandler:         query.NewLowStockHandler(products),
		authmw:                  authmw,
		requestCounter:          requestCounter,
		requestLatency:          requestLatency,
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
func (h *InventoryHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateProduct handles POST /inventory/products
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU               string `json:"sku"`
		Name              string `json:"name"`
		Description       string `json:"description"`
		Unit              string `json:"unit"`
		InitialStock      int    `json:"initial_stock"`
		LowStockThreshold *int   `json:"low_stock_threshold"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	threshold := 10
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Unit:              req.Unit,
		InitialStock:      req.InitialStock,
		LowStockThreshold: threshold,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusCreated, product)
}

// ListProducts handles GET /inventory/products
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.listProductsHandler.Handle(query.ListProductsQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /inventory/products/{id}
func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ID: uint(id)})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, product)
}

// ApplyTransaction handles POST /inventory/transactions
func (h *InventoryHandler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint   `json:"product_id"`
		Type      string `json:"type"`
		Quantity  int    `json:"quantity"`
		Note      string `json:"note"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var actorID uint
	if actor := userhttp.UserFromContext(r.Context()); actor != nil {
		actorID = actor.ID
	}

	transaction, err := h.transactionHandler.Handle(r.Context(), command.ApplyTransactionCommand{
		ProductID:   req.ProductID,
		Type:        domain.TransactionType(req.Type),
		Quantity:    req.Quantity,
		Note:        req.Note,
		ActorUserID: actorID,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusCreated, transaction)
}

// ListTransactions handles GET /inventory/transactions
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	transactions, err := h.listTransactionsHandler.Handle(query.ListTransactionsQuery{
		ProductID: uint(productID),
		Limit:     limit,
	})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, transactions)
}

// LowStock handles GET /inventory/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.lowStockHandler.Handle(query.LowStockQuery{})
	if err != nil {
		httpapi.RespondDomainError(w, err)
		return
	}

	httpapi.RespondJSON(w, http.StatusOK, products)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	requires := h.authmw.RequirePermissions

	router.HandleFunc("/inventory/products", h.metricsMiddleware("/inventory/products", requires("inv.products.read")(h.ListProducts))).Methods("GET")
	router.HandleFunc("/inventory/products", h.metricsMiddleware("/inventory/products", requires("inv.products.write")(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/inventory/products/{id}", h.metricsMiddleware("/inventory/products/{id}", requires("inv.products.read")(h.GetProduct))).Methods("GET")
	router.HandleFunc("/inventory/transactions", h.metricsMiddleware("/inventory/transactions", requires("inv.stock.transact")(h.ApplyTransaction))).Methods("POST")
	router.HandleFunc("/inventory/transactions", h.metricsMiddleware("/inventory/transactions", requires("inv.products.read")(h.ListTransactions))).Methods("GET")
	router.HandleFunc("/inventory/low-stock", h.metricsMiddleware("/inventory/low-stock", requires("inv.products.read")(h.LowStock))).Methods("GET")
}
