package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StoreService handles store registration for multi-store deployments
type StoreService struct {
	storeRepo catalog.StoreRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo catalog.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// Create registers a new store with a unique code
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	store, err := catalog.NewStore(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.storeRepo.FindByCode(ctx, store.Code)
	if err != nil && !shared.IsDomainError(err, "NOT_FOUND") {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Store code %s is already in use", store.Code)
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(store)
	return &response, nil
}

// List returns all registered stores ordered by code
func (s *StoreService) List(ctx context.Context) ([]StoreResponse, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, ToStoreResponse(&stores[i]))
	}
	return responses, nil
}

// DefaultStoreID looks up the default store without creating it
func (s *StoreService) DefaultStoreID(ctx context.Context) (uuid.UUID, error) {
	store, err := s.storeRepo.FindByCode(ctx, catalog.DefaultStoreCode)
	if err != nil {
		return uuid.Nil, err
	}
	return store.ID, nil
}

// EnsureDefault returns the ID of the implicit default store, creating
// it on first use. Single-store deployments address it with uuid.Nil.
func (s *StoreService) EnsureDefault(ctx context.Context) (uuid.UUID, error) {
	store, err := s.storeRepo.FindByCode(ctx, catalog.DefaultStoreCode)
	if err == nil {
		return store.ID, nil
	}
	if !shared.IsDomainError(err, "NOT_FOUND") {
		return uuid.Nil, err
	}

	created := catalog.NewDefaultStore()
	if err := s.storeRepo.Save(ctx, created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}
