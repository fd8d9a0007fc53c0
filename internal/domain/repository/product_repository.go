package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yourusername/inventario/internal/domain/entity"
)

// ProductRepository ordered in-memory product list
type ProductRepository interface {
	// Add appends a product; ErrDuplicateCode if the code is taken
	Add(ctx context.Context, product entity.Product) error

	// GetByCode first product with the given code, ErrNotFound otherwise
	GetByCode(ctx context.Context, code string) (*entity.Product, error)

	// Update applies the non-nil fields of upd and returns the updated product
	Update(ctx context.Context, code string, upd entity.ProductUpdate) (*entity.Product, error)

	// Delete removes exactly one product
	Delete(ctx context.Context, code string) error

	// GetAll products in insertion order
	GetAll(ctx context.Context) ([]entity.Product, error)

	// GetBySupplier products whose supplier code matches, in insertion order
	GetBySupplier(ctx context.Context, supplierCode string) ([]entity.Product, error)

	// TotalValue sum of price * stock
	TotalValue(ctx context.Context) (decimal.Decimal, error)

	// ReplaceAll swaps the whole list
	ReplaceAll(ctx context.Context, products []entity.Product) error
}

// CatalogStore reads and writes the persisted product list
type CatalogStore interface {
	// Load returns the stored catalog; a missing file yields an empty catalog
	Load(ctx context.Context) (*entity.ProductCatalog, error)

	// Save replaces the stored catalog atomically
	Save(ctx context.Context, products []entity.Product) error

	// Path location of the catalog
	Path() string
}
