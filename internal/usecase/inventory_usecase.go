package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

// ErrNotLoaded is returned by every operation before the first Load.
var ErrNotLoaded = errors.New("inventory not loaded")

// InventoryUseCase product catalog operations backed by a catalog file
type InventoryUseCase interface {
	// Load replaces the in-memory list with the catalog file contents
	Load(ctx context.Context) error

	// Save writes the in-memory list to the catalog file
	Save(ctx context.Context) error

	// Add inserts a product with a new code
	Add(ctx context.Context, product entity.Product) error

	// Find product by code
	Find(ctx context.Context, code string) (*entity.Product, error)

	// Update overwrites the given fields of a product
	Update(ctx context.Context, code string, upd entity.ProductUpdate) (*entity.Product, error)

	// Remove deletes a product by code
	Remove(ctx context.Context, code string) error

	// List every product in insertion order
	List(ctx context.Context) ([]entity.Product, error)

	// TotalValue sum of price * stock
	TotalValue(ctx context.Context) (decimal.Decimal, error)

	// BySupplier products of one supplier; empty when none
	BySupplier(ctx context.Context, supplierCode string) ([]entity.Product, error)

	// Suppliers distinct suppliers in order of first appearance
	Suppliers(ctx context.Context) ([]entity.Supplier, error)

	// KnownSupplier supplier already referenced by some product
	KnownSupplier(ctx context.Context, supplierCode string) (entity.Supplier, bool, error)

	// ImportExcel adds the products of a spreadsheet
	ImportExcel(ctx context.Context, filePath string) (*ImportReport, error)

	// ImportExcelData same as ImportExcel for a workbook already in memory
	ImportExcelData(ctx context.Context, source string, data []byte) (*ImportReport, error)

	// ExportExcel writes the catalog to a spreadsheet
	ExportExcel(ctx context.Context, filePath string) error

	// Source catalog file path
	Source() string

	// HasUnsavedChanges true after a mutation not yet saved
	HasUnsavedChanges() bool
}

// InventoryOptions behaviour switches
type InventoryOptions struct {
	// AutoSave saves after every successful mutation
	AutoSave bool
}

// ImportReport outcome of an Excel import
type ImportReport struct {
	Added      int
	Duplicates []string
	Rejected   []repository.RowError
}

type inventoryUseCase struct {
	productRepo repository.ProductRepository
	catalog     repository.CatalogStore
	excelParser repository.ExcelParser
	excelWriter repository.ExcelWriter
	opts        InventoryOptions
	logger      *zap.Logger

	loaded bool
	dirty  bool
}

// NewInventoryUseCase wires the inventory operations
func NewInventoryUseCase(
	productRepo repository.ProductRepository,
	catalog repository.CatalogStore,
	excelParser repository.ExcelParser,
	excelWriter repository.ExcelWriter,
	opts InventoryOptions,
	logger *zap.Logger,
) InventoryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inventoryUseCase{
		productRepo: productRepo,
		catalog:     catalog,
		excelParser: excelParser,
		excelWriter: excelWriter,
		opts:        opts,
		logger:      logger,
	}
}

// Load a malformed file leaves the previous list in place but still marks the inventory loaded.
func (u *inventoryUseCase) Load(ctx context.Context) error {
	catalog, err := u.catalog.Load(ctx)
	if err != nil {
		var parseErr *repository.ParseError
		if errors.As(err, &parseErr) {
			u.loaded = true
			u.logger.Error("catalog file is malformed, keeping current inventory",
				zap.String("path", parseErr.Path), zap.Error(parseErr.Err))
		}
		return err
	}

	if err := u.productRepo.ReplaceAll(ctx, catalog.Products); err != nil {
		return fmt.Errorf("replace products: %w", err)
	}

	u.loaded = true
	u.dirty = false
	u.logger.Info("inventory loaded", zap.String("source", catalog.Source), zap.Int("products", len(catalog.Products)))
	return nil
}

// Save persists the current list
func (u *inventoryUseCase) Save(ctx context.Context) error {
	if !u.loaded {
		return ErrNotLoaded
	}

	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	if err := u.catalog.Save(ctx, products); err != nil {
		u.logger.Error("inventory save failed", zap.String("path", u.catalog.Path()), zap.Error(err))
		return err
	}

	u.dirty = false
	u.logger.Info("inventory saved", zap.String("path", u.catalog.Path()), zap.Int("products", len(products)))
	return nil
}

// Add rejects duplicate codes and invalid values
func (u *inventoryUseCase) Add(ctx context.Context, product entity.Product) error {
	if !u.loaded {
		return ErrNotLoaded
	}

	if err := u.productRepo.Add(ctx, product); err != nil {
		u.logger.Debug("add rejected", zap.String("code", product.Code), zap.Error(err))
		return err
	}

	u.logger.Debug("product added", zap.String("code", product.Code))
	u.mutated(ctx)
	return nil
}

// Find product by code
func (u *inventoryUseCase) Find(ctx context.Context, code string) (*entity.Product, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}
	return u.productRepo.GetByCode(ctx, code)
}

// Update applies only the provided fields
func (u *inventoryUseCase) Update(ctx context.Context, code string, upd entity.ProductUpdate) (*entity.Product, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}

	product, err := u.productRepo.Update(ctx, code, upd)
	if err != nil {
		u.logger.Debug("update rejected", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	if !upd.IsEmpty() {
		u.mutated(ctx)
	}
	return product, nil
}

// Remove deletes a product
func (u *inventoryUseCase) Remove(ctx context.Context, code string) error {
	if !u.loaded {
		return ErrNotLoaded
	}

	if err := u.productRepo.Delete(ctx, code); err != nil {
		return err
	}

	u.logger.Debug("product removed", zap.String("code", code))
	u.mutated(ctx)
	return nil
}

// List all products
func (u *inventoryUseCase) List(ctx context.Context) ([]entity.Product, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}
	return u.productRepo.GetAll(ctx)
}

// TotalValue exact decimal sum
func (u *inventoryUseCase) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	if !u.loaded {
		return decimal.Zero, ErrNotLoaded
	}
	return u.productRepo.TotalValue(ctx)
}

// BySupplier filter by supplier code
func (u *inventoryUseCase) BySupplier(ctx context.Context, supplierCode string) ([]entity.Product, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}
	return u.productRepo.GetBySupplier(ctx, supplierCode)
}

// Suppliers first occurrence of each supplier code wins
func (u *inventoryUseCase) Suppliers(ctx context.Context) ([]entity.Supplier, error) {
	products, err := u.List(ctx)
	if err != nil {
		return nil, err
	}

	suppliers := make([]entity.Supplier, 0)
	for _, p := range products {
		known := false
		for _, s := range suppliers {
			if s.SameAs(p.Supplier) {
				known = true
				break
			}
		}
		if !known {
			suppliers = append(suppliers, p.Supplier)
		}
	}
	return suppliers, nil
}

// KnownSupplier looks a supplier up by code
func (u *inventoryUseCase) KnownSupplier(ctx context.Context, supplierCode string) (entity.Supplier, bool, error) {
	suppliers, err := u.Suppliers(ctx)
	if err != nil {
		return entity.Supplier{}, false, err
	}
	for _, s := range suppliers {
		if s.Code == supplierCode {
			return s, true, nil
		}
	}
	return entity.Supplier{}, false, nil
}

// ImportExcel duplicate codes are reported, not fatal
func (u *inventoryUseCase) ImportExcel(ctx context.Context, filePath string) (*ImportReport, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}

	parsed, err := u.excelParser.ParseProducts(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("parse excel: %w", err)
	}
	return u.importParsed(ctx, filePath, parsed)
}

func (u *inventoryUseCase) ImportExcelData(ctx context.Context, source string, data []byte) (*ImportReport, error) {
	if !u.loaded {
		return nil, ErrNotLoaded
	}

	parsed, err := u.excelParser.ParseProductsFromBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("parse excel: %w", err)
	}
	return u.importParsed(ctx, source, parsed)
}

func (u *inventoryUseCase) importParsed(ctx context.Context, source string, parsed *repository.ParseResult) (*ImportReport, error) {
	report := &ImportReport{Rejected: parsed.Rejected}
	for _, product := range parsed.Products {
		err := u.productRepo.Add(ctx, product)
		switch {
		case err == nil:
			report.Added++
		case errors.Is(err, repository.ErrDuplicateCode):
			report.Duplicates = append(report.Duplicates, product.Code)
		default:
			return report, fmt.Errorf("import %s: %w", product.Code, err)
		}
	}

	u.logger.Info("excel imported",
		zap.String("source", source),
		zap.Int("added", report.Added),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("rejected", len(report.Rejected)))

	if report.Added > 0 {
		u.mutated(ctx)
	}
	return report, nil
}

// ExportExcel writes every product
func (u *inventoryUseCase) ExportExcel(ctx context.Context, filePath string) error {
	products, err := u.List(ctx)
	if err != nil {
		return err
	}
	return u.excelWriter.WriteProducts(ctx, filePath, products)
}

func (u *inventoryUseCase) Source() string {
	return u.catalog.Path()
}

func (u *inventoryUseCase) HasUnsavedChanges() bool {
	return u.dirty
}

// mutated marks unsaved changes; with AutoSave a failed save only logs and leaves them unsaved.
func (u *inventoryUseCase) mutated(ctx context.Context) {
	u.dirty = true
	if !u.opts.AutoSave {
		return
	}
	if err := u.Save(ctx); err != nil {
		u.logger.Warn("autosave failed, changes kept in memory", zap.Error(err))
	}
}
