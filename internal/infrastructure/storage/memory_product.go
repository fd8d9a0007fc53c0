package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []entity.Product // insertion order
}

// NewMemoryProductRepository creates an empty in-memory product repository
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		products: make([]entity.Product, 0),
	}
}

// Add appends a product unless its code is already present
func (m *memoryProductRepository) Add(ctx context.Context, product entity.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidValue, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(product.Code) >= 0 {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateCode, product.Code)
	}

	m.products = append(m.products, product)
	return nil
}

// GetByCode linear scan, first match
func (m *memoryProductRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexOf(code)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, code)
	}

	product := m.products[idx]
	return &product, nil
}

// Update overwrites the requested fields. Either all of them are applied or none.
func (m *memoryProductRepository) Update(ctx context.Context, code string, upd entity.ProductUpdate) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(code)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, code)
	}

	if upd.Price != nil && upd.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative, got %s", repository.ErrInvalidValue, upd.Price.String())
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative, got %d", repository.ErrInvalidValue, *upd.Stock)
	}

	updated := m.products[idx]
	if upd.Name != nil {
		updated.Name = *upd.Name
	}
	if upd.Price != nil {
		updated.Price = *upd.Price
	}
	if upd.Stock != nil {
		updated.Stock = *upd.Stock
	}

	m.products[idx] = updated
	return &updated, nil
}

// Delete removes the product with the given code
func (m *memoryProductRepository) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(code)
	if idx < 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, code)
	}

	m.products = append(m.products[:idx], m.products[idx+1:]...)
	return nil
}

// GetAll copy of the product list
func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]entity.Product, len(m.products))
	copy(products, m.products)
	return products, nil
}

// GetBySupplier never returns nil; no match is an empty slice
func (m *memoryProductRepository) GetBySupplier(ctx context.Context, supplierCode string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]entity.Product, 0)
	for _, product := range m.products {
		if product.Supplier.Code == supplierCode {
			results = append(results, product)
		}
	}

	return results, nil
}

// TotalValue sum of price * stock over every product
func (m *memoryProductRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, product := range m.products {
		total = total.Add(product.Value())
	}
	return total, nil
}

// ReplaceAll swaps the product list. Codes must be unique.
func (m *memoryProductRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, product := range products {
		if _, dup := seen[product.Code]; dup {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateCode, product.Code)
		}
		seen[product.Code] = struct{}{}
	}

	fresh := make([]entity.Product, len(products))
	copy(fresh, products)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = fresh
	return nil
}

func (m *memoryProductRepository) indexOf(code string) int {
	for i, product := range m.products {
		if product.Code == code {
			return i
		}
	}
	return -1
}
