package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/shared"
)

// Product represents a product/SKU tracked by the ledger.
// It is the aggregate root for product-related operations. Prices are
// informational to the ledger; a movement may carry its own unit price.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Code          string          `gorm:"type:varchar(50);uniqueIndex:idx_product_code,where:code <> ''"`
	Category      string          `gorm:"type:varchar(100);index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. Code and category are optional;
// a non-empty code is normalized to upper case and must be unique.
func NewProduct(name, code, category string, purchasePrice, sellingPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Prices cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Category:          strings.TrimSpace(category),
		PurchasePrice:     purchasePrice,
		SellingPrice:      sellingPrice,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// ProductUpdate carries the fields of an administrative edit.
// Nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string
	Code          *string
	Category      *string
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
}

// Apply mutates the product with the non-nil fields of the update.
// Validation runs before any field changes so a failed update is never
// partially applied.
func (p *Product) Apply(update ProductUpdate) error {
	if update.Name != nil {
		if err := validateProductName(*update.Name); err != nil {
			return err
		}
	}
	if update.Code != nil {
		if err := validateProductCode(*update.Code); err != nil {
			return err
		}
	}
	if update.PurchasePrice != nil && update.PurchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Purchase price cannot be negative")
	}
	if update.SellingPrice != nil && update.SellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Selling price cannot be negative")
	}

	if update.Name != nil {
		p.Name = strings.TrimSpace(*update.Name)
	}
	if update.Code != nil {
		p.Code = strings.ToUpper(strings.TrimSpace(*update.Code))
	}
	if update.Category != nil {
		p.Category = strings.TrimSpace(*update.Category)
	}
	if update.PurchasePrice != nil {
		p.PurchasePrice = *update.PurchasePrice
	}
	if update.SellingPrice != nil {
		p.SellingPrice = *update.SellingPrice
	}

	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateProductCode(code string) error {
	if len(strings.TrimSpace(code)) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Product code cannot exceed 50 characters")
	}
	return nil
}
