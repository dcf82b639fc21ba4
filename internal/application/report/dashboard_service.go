package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ActiveCounter counts the active rows of one tenant-scoped resource
type ActiveCounter interface {
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// LowStockCounter counts stock rows below their product's minimum
type LowStockCounter interface {
	CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SalesSummarizer totals the active sales of a period
type SalesSummarizer interface {
	Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (trade.SalesSummary, error)
}

// DashboardDeps groups the sources of the dashboard. Now defaults to time.Now.
// Currency labels the sales amounts.
type DashboardDeps struct {
	Products   ActiveCounter
	Clients    ActiveCounter
	Suppliers  ActiveCounter
	Warehouses ActiveCounter
	Stock      LowStockCounter
	Sales      SalesSummarizer
	Currency   string
	Now        func() time.Time
	Logger     *zap.Logger
}

// SalesFigures is the count and amount of sales in a period
type SalesFigures struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DashboardResponse is the overview shown on the home screen
type DashboardResponse struct {
	ActiveProducts   int64        `json:"active_products"`
	ActiveClients    int64        `json:"active_clients"`
	ActiveSuppliers  int64        `json:"active_suppliers"`
	ActiveWarehouses int64        `json:"active_warehouses"`
	LowStockCount    int64        `json:"low_stock_count"`
	SalesToday       SalesFigures `json:"sales_today"`
	SalesThisMonth   SalesFigures `json:"sales_this_month"`
	Currency         string       `json:"currency"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// DashboardService builds the organization overview
type DashboardService struct {
	deps DashboardDeps
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(deps DashboardDeps) *DashboardService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DashboardService{deps: deps}
}

// Dashboard gathers every figure concurrently. The first failure cancels
// the remaining queries and is returned.
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	now := s.deps.Now()
	today := startOfDay(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	resp := &DashboardResponse{Currency: s.deps.Currency, GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	count := func(c ActiveCounter, dst *int64) {
		g.Go(func() error {
			n, err := c.CountActive(gctx, tenantID)
			*dst = n
			return err
		})
	}
	count(s.deps.Products, &resp.ActiveProducts)
	count(s.deps.Clients, &resp.ActiveClients)
	count(s.deps.Suppliers, &resp.ActiveSuppliers)
	count(s.deps.Warehouses, &resp.ActiveWarehouses)

	g.Go(func() error {
		n, err := s.deps.Stock.CountLowStock(gctx, tenantID)
		resp.LowStockCount = n
		return err
	})

	summarize := func(from, to time.Time, dst *SalesFigures) {
		g.Go(func() error {
			sum, err := s.deps.Sales.Summarize(gctx, tenantID, from, to)
			*dst = SalesFigures{Count: sum.Count, Total: sum.Total}
			return err
		})
	}
	summarize(today, today.AddDate(0, 0, 1), &resp.SalesToday)
	summarize(month, month.AddDate(0, 1, 0), &resp.SalesThisMonth)

	if err := g.Wait(); err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Error("dashboard query failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// startOfDay truncates t to midnight in its location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
