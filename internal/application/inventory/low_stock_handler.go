package inventory

import (
	"context"
	"fmt"

	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlertNotifier is the interface for delivering low-stock alerts.
// Implementations can support different channels (in-app, email, SMS).
// Delivery is at-most-once; a notifier needing stronger guarantees is
// responsible for its own durability and retry.
type StockAlertNotifier interface {
	// SendAlert delivers a low-stock alert
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert describes a level at or below its threshold
type StockAlert struct {
	StoreID    string `json:"store_id"`
	ProductID  string `json:"product_id"`
	MovementID string `json:"movement_id"`
	NewLevel   int64  `json:"new_level"`
	Threshold  int64  `json:"threshold"`
	AlertType  string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// LowStockHandler consumes LowStock events and forwards them to the
// configured notifier. Without a notifier it only logs the alert.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewLowStockHandler creates a new handler for low stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStock}
}

// Handle processes a LowStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.LowStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStock, event.EventType())
	}

	h.logger.Warn("stock at or below threshold",
		zap.String("store_id", lowStock.StoreID.String()),
		zap.String("product_id", lowStock.ProductID.String()),
		zap.Int64("new_level", lowStock.NewLevel),
		zap.Int64("threshold", lowStock.Threshold),
	)

	if h.notifier == nil {
		return nil
	}

	alertType := "low_stock"
	if lowStock.NewLevel <= 0 {
		alertType = "out_of_stock"
	}

	alert := StockAlert{
		StoreID:    lowStock.StoreID.String(),
		ProductID:  lowStock.ProductID.String(),
		MovementID: lowStock.MovementID.String(),
		NewLevel:   lowStock.NewLevel,
		Threshold:  lowStock.Threshold,
		AlertType:  alertType,
	}

	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("product_id", alert.ProductID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Ensure LowStockHandler implements EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
