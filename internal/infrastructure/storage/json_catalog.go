package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

// supplierRecord and productRecord mirror the on-disk layout; field names must not change.
type supplierRecord struct {
	Codigo   string `json:"codigo"`
	Nombre   string `json:"nombre"`
	Contacto string `json:"contacto"`
}

type productRecord struct {
	Codigo    string         `json:"codigo"`
	Nombre    string         `json:"nombre"`
	Precio    json.Number    `json:"precio"`
	Stock     *int           `json:"stock"`
	Proveedor supplierRecord `json:"proveedor"`
}

type jsonCatalogStore struct {
	path   string
	logger *zap.Logger

	// overridable in tests
	syncFile func(*os.File) error
}

// NewJSONCatalogStore catalog persisted as a JSON array at path
func NewJSONCatalogStore(path string, logger *zap.Logger) repository.CatalogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jsonCatalogStore{
		path:     path,
		logger:   logger,
		syncFile: (*os.File).Sync,
	}
}

func (s *jsonCatalogStore) Path() string {
	return s.path
}

// Load reads the catalog. A missing file is an empty catalog; anything unreadable is a *ParseError.
func (s *jsonCatalogStore) Load(ctx context.Context) (*entity.ProductCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("catalog file not found, starting empty", zap.String("path", s.path))
		return &entity.ProductCatalog{Products: []entity.Product{}, Source: s.path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	products, err := decodeCatalog(data)
	if err != nil {
		return nil, &repository.ParseError{Path: s.path, Err: err}
	}

	s.logger.Debug("catalog loaded", zap.String("path", s.path), zap.Int("products", len(products)))
	return &entity.ProductCatalog{Products: products, Source: s.path}, nil
}

// Save writes to a temp file next to the target and renames it over the target.
func (s *jsonCatalogStore) Save(ctx context.Context, products []entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeCatalog(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := s.writeAtomic(data); err != nil {
		return fmt.Errorf("save catalog %s: %w", s.path, err)
	}

	s.logger.Debug("catalog saved", zap.String("path", s.path), zap.Int("products", len(products)))
	return nil
}

func (s *jsonCatalogStore) writeAtomic(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(s.path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				s.logger.Warn("failed to remove temp catalog", zap.String("path", tmpPath), zap.Error(rmErr))
			}
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = s.syncFile(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

func decodeCatalog(data []byte) ([]entity.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("catalog must be a JSON array")
	}

	products := make([]entity.Product, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		product, err := rec.toEntity()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := product.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if first, dup := seen[product.Code]; dup {
			return nil, fmt.Errorf("entry %d: code %s already used by entry %d", i, product.Code, first)
		}
		seen[product.Code] = i
		products = append(products, product)
	}

	return products, nil
}

func encodeCatalog(products []entity.Product) ([]byte, error) {
	records := make([]productRecord, 0, len(products))
	for _, p := range products {
		records = append(records, fromEntity(p))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r productRecord) toEntity() (entity.Product, error) {
	if r.Precio == "" {
		return entity.Product{}, errors.New("precio is required")
	}
	price, err := decimal.NewFromString(r.Precio.String())
	if err != nil {
		return entity.Product{}, fmt.Errorf("precio %q: %w", r.Precio, err)
	}
	if r.Stock == nil {
		return entity.Product{}, errors.New("stock is required")
	}

	return entity.Product{
		Code:  r.Codigo,
		Name:  r.Nombre,
		Price: price,
		Stock: *r.Stock,
		Supplier: entity.Supplier{
			Code:    r.Proveedor.Codigo,
			Name:    r.Proveedor.Nombre,
			Contact: r.Proveedor.Contacto,
		},
	}, nil
}

func fromEntity(p entity.Product) productRecord {
	stock := p.Stock
	return productRecord{
		Codigo: p.Code,
		Nombre: p.Name,
		Precio: json.Number(p.Price.String()),
		Stock:  &stock,
		Proveedor: supplierRecord{
			Codigo:   p.Supplier.Code,
			Nombre:   p.Supplier.Name,
			Contacto: p.Supplier.Contact,
		},
	}
}
