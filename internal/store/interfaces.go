package store

import (
	"context"

	"inventory-catalog-service/internal/domain"
)

// ProductPatch holds the fields a partial update may change. A nil field
// means "leave the current value alone"; a non-nil field overwrites it.
// Barcode is a double pointer so a patch can distinguish "don't touch the
// barcode" (nil) from "clear the barcode" (pointer to nil).
type ProductPatch struct {
	Name    *string
	Barcode **string
	Price   *float64
	Stock   *int
	Details *map[string]interface{}
}

// IsZero reports whether the patch would change nothing.
func (p ProductPatch) IsZero() bool {
	return p.Name == nil && p.Barcode == nil && p.Price == nil && p.Stock == nil && p.Details == nil
}

// ProductStorer defines the catalog operations backed by the store.
type ProductStorer interface {
	ListProducts(ctx context.Context) []domain.Product
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
