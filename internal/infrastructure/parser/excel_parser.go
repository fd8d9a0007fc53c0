package parser

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

const (
	colCode         = "code"
	colName         = "name"
	colPrice        = "price"
	colStock        = "stock"
	colSupplierCode = "supplier_code"
	colSupplierName = "supplier_name"
	colContact      = "contact"
)

type excelParser struct {
	logger *zap.Logger
}

// NewExcelParser spreadsheet product reader
func NewExcelParser(logger *zap.Logger) repository.ExcelParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excelParser{logger: logger}
}

// ParseProducts reads products from an .xlsx file
func (e *excelParser) ParseProducts(ctx context.Context, filePath string) (*repository.ParseResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// ParseProductsFromBytes reads products from an in-memory workbook
func (e *excelParser) ParseProductsFromBytes(ctx context.Context, data []byte) (*repository.ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// parseExcelFile first sheet, first row is the header
func (e *excelParser) parseExcelFile(f *excelize.File) (*repository.ParseResult, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	columnMap := e.mapColumns(rows[0])
	if _, ok := columnMap[colCode]; !ok {
		return nil, fmt.Errorf("header row has no product code column")
	}
	if _, ok := columnMap[colPrice]; !ok {
		return nil, fmt.Errorf("header row has no price column")
	}
	e.logger.Debug("excel column mapping", zap.String("sheet", sheets[0]), zap.Any("columns", columnMap))

	result := &repository.ParseResult{Products: []entity.Product{}}
	dataRows := 0

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		code := cell(row, columnMap, colCode)
		name := cell(row, columnMap, colName)
		// footer rows (totals) carry neither code nor name
		if code == "" && name == "" {
			continue
		}
		dataRows++

		product, err := e.rowToProduct(row, columnMap)
		if err != nil {
			e.logger.Warn("skipping excel row", zap.Int("row", rowNum), zap.Error(err))
			result.Rejected = append(result.Rejected, repository.RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		result.Products = append(result.Products, product)
	}

	if dataRows == 0 {
		return nil, fmt.Errorf("excel file has no data rows")
	}

	e.logger.Info("excel parsed",
		zap.Int("products", len(result.Products)),
		zap.Int("rejected", len(result.Rejected)))

	return result, nil
}

func (e *excelParser) rowToProduct(row []string, columnMap map[string]int) (entity.Product, error) {
	price, err := parsePrice(cell(row, columnMap, colPrice))
	if err != nil {
		return entity.Product{}, err
	}

	stock := 0
	if raw := cell(row, columnMap, colStock); raw != "" {
		stock, err = parseStock(raw)
		if err != nil {
			return entity.Product{}, err
		}
	}

	product := entity.Product{
		Code:  cell(row, columnMap, colCode),
		Name:  cell(row, columnMap, colName),
		Price: price,
		Stock: stock,
		Supplier: entity.Supplier{
			Code:    cell(row, columnMap, colSupplierCode),
			Name:    cell(row, columnMap, colSupplierName),
			Contact: cell(row, columnMap, colContact),
		},
	}

	if err := product.Validate(); err != nil {
		return entity.Product{}, err
	}
	return product, nil
}

// mapColumns header name -> column index. Supplier columns are matched before
// the generic code/name ones because their headers contain those words.
func (e *excelParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	set := func(key string, idx int) {
		if _, exists := columnMap[key]; !exists {
			columnMap[key] = idx
		}
	}

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))
		if colName == "" {
			continue
		}

		switch {
		case contains(colName, "contacto", "contact", "email", "correo"):
			set(colContact, i)
		case contains(colName, "proveedor", "supplier", "vendor"):
			if contains(colName, "nombre", "name") {
				set(colSupplierName, i)
			} else {
				set(colSupplierCode, i)
			}
		case contains(colName, "código", "codigo", "code", "sku", "ref"):
			set(colCode, i)
		case contains(colName, "nombre", "name", "producto", "product", "descripción", "descripcion"):
			set(colName, i)
		case contains(colName, "precio", "price", "€", "pvp"):
			set(colPrice, i)
		case contains(colName, "stock", "cantidad", "uds", "qty", "quantity"):
			set(colStock, i)
		default:
			e.logger.Debug("ignoring excel column", zap.Int("column", i), zap.String("header", colName))
		}
	}

	return columnMap
}

func cell(row []string, columnMap map[string]int, key string) string {
	idx, ok := columnMap[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow reports a row with only blank cells
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

// parsePrice accepts "45.99", "45,99", "45.99 €", "€45.99"
func parsePrice(priceStr string) (decimal.Decimal, error) {
	cleaned := strings.ToLower(strings.TrimSpace(priceStr))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	for _, sym := range []string{"€", "eur", "$", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	// a lone comma is a decimal separator; with a dot present it groups thousands
	if strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price format: %s", priceStr)
	}
	return price, nil
}

func parseStock(stockStr string) (int, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(stockStr), " ", ""))
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid stock: %s", stockStr)
	}
	if d.LessThan(decimal.NewFromInt(math.MinInt)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt)) {
		return 0, fmt.Errorf("stock out of range: %s", stockStr)
	}
	return int(d.IntPart()), nil
}
