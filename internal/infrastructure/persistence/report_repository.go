package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormReportRepository serves the ledger's read-side queries using GORM.
// All queries are single consistent reads over committed rows.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// CurrentStock returns every product with its projected level for a
// store, ordered by product name. Products without a level row appear
// with a quantity of zero.
func (r *GormReportRepository) CurrentStock(ctx context.Context, storeID uuid.UUID) ([]inventory.StockLine, error) {
	var lines []inventory.StockLine
	if err := r.db.WithContext(ctx).
		Table("products p").
		Select(`p.id AS product_id, p.name, p.code, p.category,
			COALESCE(l.quantity, 0) AS quantity,
			p.purchase_price, p.selling_price`).
		Joins("LEFT JOIN stock_levels l ON l.product_id = p.id AND l.store_id = ?", storeID).
		Order("p.name ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// LowStock returns products whose level is at or below the threshold,
// ordered ascending by level. Products without a level row count as
// zero and therefore always qualify.
func (r *GormReportRepository) LowStock(ctx context.Context, storeID uuid.UUID, threshold int64) ([]inventory.StockLine, error) {
	var lines []inventory.StockLine
	if err := r.db.WithContext(ctx).
		Table("products p").
		Select(`p.id AS product_id, p.name, p.code, p.category,
			COALESCE(l.quantity, 0) AS quantity,
			p.purchase_price, p.selling_price`).
		Joins("LEFT JOIN stock_levels l ON l.product_id = p.id AND l.store_id = ?", storeID).
		Where("COALESCE(l.quantity, 0) <= ?", threshold).
		Order("quantity ASC, p.name ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// DailySummary aggregates the movements of one UTC day. The window is
// half-open, [midnight, next midnight), in UTC regardless of the
// location attached to the day argument, so sub-second timestamps near
// the boundary land in exactly one day.
func (r *GormReportRepository) DailySummary(ctx context.Context, storeID uuid.UUID, day time.Time) (*inventory.DailySummary, error) {
	dayUTC := day.UTC()
	from := time.Date(dayUTC.Year(), dayUTC.Month(), dayUTC.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	summary := &inventory.DailySummary{
		Date:    from,
		Revenue: decimal.Zero,
		TopSold: []inventory.ProductSales{},
	}

	var sales struct {
		SaleCount int64
		ItemsSold int64
		Revenue   decimal.Decimal
	}
	if err := r.movementsInWindow(ctx, storeID, from, to).
		Select(`COUNT(*) AS sale_count,
			COALESCE(SUM(quantity), 0) AS items_sold,
			COALESCE(SUM(quantity * COALESCE(unit_price, 0)), 0) AS revenue`).
		Where("kind = ?", inventory.MovementKindSale).
		Scan(&sales).Error; err != nil {
		return nil, err
	}
	summary.SaleCount = sales.SaleCount
	summary.ItemsSold = sales.ItemsSold
	summary.Revenue = sales.Revenue

	var received struct {
		StockInCount  int64
		ItemsReceived int64
	}
	if err := r.movementsInWindow(ctx, storeID, from, to).
		Select(`COUNT(*) AS stock_in_count,
			COALESCE(SUM(quantity), 0) AS items_received`).
		Where("kind = ?", inventory.MovementKindStockIn).
		Scan(&received).Error; err != nil {
		return nil, err
	}
	summary.StockInCount = received.StockInCount
	summary.ItemsReceived = received.ItemsReceived

	var top []inventory.ProductSales
	if err := r.movementsInWindow(ctx, storeID, from, to).
		Select("movements.product_id, p.name, SUM(movements.quantity) AS quantity").
		Joins("JOIN products p ON p.id = movements.product_id").
		Where("movements.kind = ?", inventory.MovementKindSale).
		Group("movements.product_id, p.name").
		Order("quantity DESC, p.name ASC").
		Limit(5).
		Scan(&top).Error; err != nil {
		return nil, err
	}
	summary.TopSold = top

	return summary, nil
}

func (r *GormReportRepository) movementsInWindow(ctx context.Context, storeID uuid.UUID, from, to time.Time) *gorm.DB {
	// Columns are qualified so the window survives joins against tables
	// that carry their own created_at.
	query := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("movements.created_at >= ? AND movements.created_at < ?", from, to)
	if storeID != uuid.Nil {
		query = query.Where("movements.store_id = ?", storeID)
	}
	return query
}

// Ensure GormReportRepository implements ReportRepository
var _ inventory.ReportRepository = (*GormReportRepository)(nil)
