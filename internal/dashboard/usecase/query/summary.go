package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	crmdomain "github.com/tair/erp-backend/internal/crm/domain"
	hrdomain "github.com/tair/erp-backend/internal/hr/domain"
	invdomain "github.com/tair/erp-backend/internal/inventory/domain"
	userdomain "github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/logger"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 5 * time.Minute
)

// Summary holds the headline counts for the dashboard
type Summary struct {
	UsersCount     int64 `json:"users_count"`
	EmployeesCount int64 `json:"employees_count"`
	ProductsCount  int64 `json:"products_count"`
	CustomersCount int64 `json:"customers_count"`
}

// SummaryHandler aggregates counts across subsystems with a read-through
// redis cache. Counts are advisory; a stale summary is acceptable for five
// minutes, unlike stock values which are never cached.
type SummaryHandler struct {
	users     userdomain.UserRepository
	employees hrdomain.EmployeeRepository
	products  invdomain.ProductRepository
	customers crmdomain.CustomerRepository
	cache     *redis.Client
}

// NewSummaryHandler creates a new summary handler. A nil cache disables
// caching.
func NewSummaryHandler(
	users userdomain.UserRepository,
	employees hrdomain.EmployeeRepository,
	products invdomain.ProductRepository,
	customers crmdomain.CustomerRepository,
	cache *redis.Client,
) *SummaryHandler {
	return &SummaryHandler{
		users:     users,
		employees: employees,
		products:  products,
		customers: customers,
		cache:     cache,
	}
}

// Handle returns the summary and whether it was served from cache
func (h *SummaryHandler) Handle(ctx context.Context) (*Summary, bool, error) {
	if h.cache != nil {
		cached, err := h.cache.Get(ctx, summaryCacheKey).Result()
		if err == nil {
			var summary Summary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, true, nil
			}
		} else if err != redis.Nil {
			logger.Warn(ctx).Err(err).Msg("Dashboard cache read failed")
		}
	}

	summary, err := h.build()
	if err != nil {
		return nil, false, err
	}

	if h.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := h.cache.Set(ctx, summaryCacheKey, payload, summaryCacheTTL).Err(); err != nil {
				logger.Warn(ctx).Err(err).Msg("Dashboard cache write failed")
			}
		}
	}

	return summary, false, nil
}

func (h *SummaryHandler) build() (*Summary, error) {
	users, err := h.users.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	employees, err := h.employees.CountEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	products, err := h.products.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	customers, err := h.customers.CountCustomers()
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return &Summary{
		UsersCount:     users,
		EmployeesCount: employees,
		ProductsCount:  products,
		CustomersCount: customers,
	}, nil
}
