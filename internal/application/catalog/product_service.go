package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// ProductService handles product-related operations. The ledger treats
// product prices as informational; movement valuation uses the price
// supplied per movement.
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product. A non-empty code must not collide with
// another product's code.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureCodeFree(ctx, req.Code, uuid.Nil); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Code, req.Category, req.PurchasePrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies an administrative edit to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := s.ensureCodeFree(ctx, *req.Code, productID); err != nil {
			return nil, err
		}
	}

	if err := product.Apply(catalog.ProductUpdate{
		Name:          req.Name,
		Code:          req.Code,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	}); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products ordered by name
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Search finds products whose name or code matches the term
func (s *ProductService) Search(ctx context.Context, term string) ([]ProductResponse, error) {
	products, err := s.productRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Categories returns the distinct non-empty categories in use
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// ensureCodeFree checks that a non-empty code is not used by another
// product. selfID excludes the product being edited.
func (s *ProductService) ensureCodeFree(ctx context.Context, code string, selfID uuid.UUID) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	existing, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		if shared.IsDomainError(err, "NOT_FOUND") {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return shared.NewDomainErrorf("DUPLICATE_CODE", "Product code %s is already in use", code)
	}
	return nil
}
