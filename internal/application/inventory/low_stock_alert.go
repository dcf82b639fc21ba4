package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// Alert kinds
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
)

// StockAlertNotifier delivers stock alerts to whoever watches them
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert reports a stock row that dropped below the product's minimum
type StockAlert struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseCode string    `json:"warehouse_code"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductCode   string    `json:"product_code"`
	ProductName   string    `json:"product_name"`
	Quantity      string    `json:"quantity"`
	MinStock      string    `json:"min_stock"`
	Kind          string    `json:"kind"`
	Source        string    `json:"source"`
}

// LowStockAlertHandler checks the stock touched by outgoing movements
// (a registered sale or an annulled purchase) and raises an alert for every
// row left below its minimum.
type LowStockAlertHandler struct {
	stock    inventory.WarehouseProductRepository
	notifier StockAlertNotifier
	logger   *zap.Logger
}

func NewLowStockAlertHandler(stock inventory.WarehouseProductRepository, notifier StockAlertNotifier, logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{stock: stock, notifier: notifier, logger: logger}
}

func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{trade.EventTypeSaleCreated, trade.EventTypePurchaseAnnulled}
}

// Handle only fails for a wrong event type or a stock lookup error. A failed
// notification is logged and skipped.
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*trade.TradeEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	for _, productID := range ev.ProductIDs {
		lines, err := h.stock.ListByProduct(ctx, ev.TenantID(), productID)
		if err != nil {
			return fmt.Errorf("load stock of product %s: %w", productID, err)
		}
		for _, line := range lines {
			if line.WarehouseID != ev.WarehouseID || !line.IsActive || !line.IsLow() {
				continue
			}
			h.send(ctx, newStockAlert(line, ev))
		}
	}
	return nil
}

func (h *LowStockAlertHandler) send(ctx context.Context, alert StockAlert) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("product_id", alert.ProductID.String()),
			zap.String("warehouse_id", alert.WarehouseID.String()),
			zap.Error(err),
		)
	}
}

func newStockAlert(line inventory.StockLine, ev *trade.TradeEvent) StockAlert {
	kind := AlertLowStock
	if !line.Quantity.IsPositive() {
		kind = AlertOutOfStock
	}
	return StockAlert{
		TenantID:      ev.TenantID(),
		WarehouseID:   line.WarehouseID,
		WarehouseCode: line.WarehouseCode,
		ProductID:     line.ProductID,
		ProductCode:   line.ProductCode,
		ProductName:   line.ProductName,
		Quantity:      line.Quantity.String(),
		MinStock:      line.MinStock.String(),
		Kind:          kind,
		Source:        ev.Number,
	}
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("stock alert",
		zap.String("kind", alert.Kind),
		zap.String("organization_id", alert.TenantID.String()),
		zap.String("warehouse", alert.WarehouseCode),
		zap.String("product", alert.ProductCode),
		zap.String("quantity", alert.Quantity),
		zap.String("min_stock", alert.MinStock),
		zap.String("source", alert.Source),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
