// Package catalog holds the business logic between the HTTP handlers and the
// store / external lookup client: plain CRUD delegation plus the search and
// enrichment orchestration.
package catalog

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"inventory-catalog-service/internal/domain"
	"inventory-catalog-service/internal/openfoodfacts"
	"inventory-catalog-service/internal/store"
)

// Predefined errors for catalog operations
var (
	// ErrSearchParams means the client supplied neither a barcode nor a name.
	ErrSearchParams = errors.New("catalog: provide a barcode or a name to search")
	// ErrBarcodeMissing means enrichment was requested for a product that
	// has no barcode to look up.
	ErrBarcodeMissing = errors.New("catalog: product has no barcode to enrich with")
	// ErrExternalNotFound means the external source had no record for the key.
	ErrExternalNotFound = errors.New("catalog: no external product found")
	// ErrExternalUnavailable means the external source could not be reached;
	// distinct from ErrExternalNotFound so callers can tell "nothing exists"
	// from "we couldn't check".
	ErrExternalUnavailable = errors.New("catalog: external product lookup failed")
)

// Service implements the catalog operations over a product store and an
// external lookup client.
type Service struct {
	store  store.ProductStorer
	lookup openfoodfacts.Lookuper
}

// NewService creates a Service with its dependencies.
func NewService(s store.ProductStorer, l openfoodfacts.Lookuper) *Service {
	return &Service{store: s, lookup: l}
}

// List returns the full catalog in insertion order.
func (s *Service) List(ctx context.Context) []domain.Product {
	return s.store.ListProducts(ctx)
}

// Get returns the product with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// Create inserts a new product and returns it with its assigned id.
func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return s.store.CreateProduct(ctx, product)
}

// Update applies a partial update to the product with the given id.
func (s *Service) Update(ctx context.Context, id int64, patch store.ProductPatch) (*domain.Product, error) {
	return s.store.UpdateProduct(ctx, id, patch)
}

// Delete removes the product with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

// Search looks a product up in the external source without touching the
// catalog. Exactly one of barcode or name must be non-empty; when both are
// given, barcode wins as the more exact key. Every lookup failure mode,
// transport trouble included, surfaces as ErrExternalNotFound: ordinary
// search never needs to distinguish "couldn't reach the source" from
// "the source had nothing".
func (s *Service) Search(ctx context.Context, barcode, name string) (*domain.ExternalDetails, error) {
	if barcode == "" && name == "" {
		return nil, ErrSearchParams
	}

	var (
		details *domain.ExternalDetails
		err     error
	)
	if barcode != "" {
		details, err = s.lookup.FetchByBarcode(ctx, barcode)
	} else {
		details, err = s.lookup.FetchByName(ctx, name)
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"barcode": barcode, "name": name}).Warn("external search failed")
		return nil, ErrExternalNotFound
	}
	if details == nil {
		return nil, ErrExternalNotFound
	}
	return details, nil
}

// Enrich fetches external details for the product's barcode and stores them
// on the product, replacing any prior details wholesale.
//
// Failure classes, each terminal for the call (no retries):
//   - store.ErrProductNotFound: no such local product
//   - ErrBarcodeMissing: the product carries no barcode
//   - ErrExternalUnavailable: the lookup itself failed (transport)
//   - ErrExternalNotFound: the source has no record for the barcode
func (s *Service) Enrich(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Barcode == nil || *product.Barcode == "" {
		return nil, ErrBarcodeMissing
	}

	details, err := s.lookup.FetchByBarcode(ctx, *product.Barcode)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"id": id, "barcode": *product.Barcode}).Warn("enrichment lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrExternalUnavailable, err)
	}
	if details == nil {
		return nil, ErrExternalNotFound
	}

	replacement := details.AsMap()
	return s.store.UpdateProduct(ctx, id, store.ProductPatch{Details: &replacement})
}
