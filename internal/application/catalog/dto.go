package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockledger/backend/internal/domain/catalog"
)

// CreateProductRequest carries the fields for a new product.
// Code and category are optional; prices default to zero.
type CreateProductRequest struct {
	Name          string
	Code          string
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

// UpdateProductRequest carries a partial administrative edit.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string
	Code          *string
	Category      *string
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
}

// ProductResponse is the read-side representation of a product
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code,omitempty"`
	Category      string          `json:"category,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Code:          p.Code,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

// CreateStoreRequest carries the fields for a new store
type CreateStoreRequest struct {
	Code string
	Name string
}

// StoreResponse is the read-side representation of a store
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStoreResponse converts a domain store to its response form
func ToStoreResponse(s *catalog.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}
