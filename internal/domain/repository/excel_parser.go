package repository

import (
	"context"

	"github.com/yourusername/inventario/internal/domain/entity"
)

// ExcelParser reads products from a spreadsheet
type ExcelParser interface {
	// ParseProducts reads the first sheet of filePath
	ParseProducts(ctx context.Context, filePath string) (*ParseResult, error)

	// ParseProductsFromBytes same as ParseProducts for an in-memory workbook
	ParseProductsFromBytes(ctx context.Context, data []byte) (*ParseResult, error)
}

// ExcelWriter writes products to a spreadsheet
type ExcelWriter interface {
	WriteProducts(ctx context.Context, filePath string, products []entity.Product) error
}

// ParseResult parsed products plus the rows that could not be read
type ParseResult struct {
	Products []entity.Product
	Rejected []RowError
}

// RowError a spreadsheet row that was skipped (1-based row number)
type RowError struct {
	Row    int
	Reason string
}
