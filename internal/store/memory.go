package store

import (
	"context"
	"errors"
	"sync"

	"inventory-catalog-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound = errors.New("store: product not found")
	ErrNameRequired    = errors.New("store: product name is required")
)

// MemoryStore implements ProductStorer over an in-process ordered slice.
// All operations take the mutex, so the store is safe under chi's concurrent
// request handling; id uniqueness and insertion order hold regardless of
// interleaving. Records are copied on the way in and out, with details maps
// cloned, so callers never alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewMemoryStore creates a MemoryStore holding copies of the seed records.
func NewMemoryStore(seed ...domain.Product) *MemoryStore {
	s := &MemoryStore{products: make([]domain.Product, 0, len(seed))}
	for _, p := range seed {
		s.products = append(s.products, cloneProduct(p))
	}
	return s
}

// DefaultSeed returns the starter inventory the service ships with.
func DefaultSeed() []domain.Product {
	milk := "012000001658"
	peanut := "051500255872"
	return []domain.Product{
		{ID: 1, Name: "Whole Milk", Barcode: &milk, Price: 3.49, Stock: 24, Details: map[string]interface{}{}},
		{ID: 2, Name: "Bananas", Barcode: nil, Price: 0.59, Stock: 120, Details: map[string]interface{}{}},
		{ID: 3, Name: "Peanut Butter", Barcode: &peanut, Price: 4.99, Stock: 15, Details: map[string]interface{}{}},
	}
}

func (s *MemoryStore) ListProducts(_ context.Context) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out
}

func (s *MemoryStore) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			c := cloneProduct(p)
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

// CreateProduct assigns id = (max existing id) + 1 and appends the record.
// Ids are never reused: the maximum only grows, even after deletions of
// lower-numbered records.
func (s *MemoryStore) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, p := range s.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	stored := cloneProduct(*product)
	stored.ID = maxID + 1
	if stored.Details == nil {
		stored.Details = map[string]interface{}{}
	}
	s.products = append(s.products, stored)

	created := cloneProduct(stored)
	return &created, nil
}

// UpdateProduct overwrites exactly the fields present in the patch.
func (s *MemoryStore) UpdateProduct(_ context.Context, id int64, patch ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Barcode != nil {
			p.Barcode = copyStringPtr(*patch.Barcode)
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Details != nil {
			p.Details = cloneDetails(*patch.Details)
		}
		updated := cloneProduct(*p)
		return &updated, nil
	}
	return nil, ErrProductNotFound
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func cloneProduct(p domain.Product) domain.Product {
	c := p
	c.Barcode = copyStringPtr(p.Barcode)
	c.Details = cloneDetails(p.Details)
	return c
}

func cloneDetails(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
