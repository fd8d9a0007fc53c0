package parser

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

const exportSheet = "Inventario"

var exportHeader = []interface{}{
	"Código", "Nombre", "Precio (€)", "Stock", "Valor (€)",
	"Proveedor código", "Proveedor nombre", "Contacto",
}

type excelWriter struct {
	logger *zap.Logger
}

// NewExcelWriter spreadsheet product writer
func NewExcelWriter(logger *zap.Logger) repository.ExcelWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excelWriter{logger: logger}
}

// WriteProducts one row per product followed by a total row
func (w *excelWriter) WriteProducts(ctx context.Context, filePath string, products []entity.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, exportHeader); err != nil {
		return err
	}

	total := decimal.Zero
	for i, p := range products {
		value := p.Value()
		total = total.Add(value)
		row := []interface{}{
			p.Code, p.Name, p.Price.InexactFloat64(), p.Stock, value.InexactFloat64(),
			p.Supplier.Code, p.Supplier.Name, p.Supplier.Contact,
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	totalRow := len(products) + 2
	if err := setRow(f, totalRow, []interface{}{nil, nil, nil, "Total", total.InexactFloat64()}); err != nil {
		return err
	}

	if err := w.applyLayout(f, totalRow); err != nil {
		return err
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	w.logger.Info("excel exported", zap.String("path", filePath), zap.Int("products", len(products)))
	return nil
}

func (w *excelWriter) applyLayout(f *excelize.File, totalRow int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, fmt.Sprintf("D%d", totalRow), fmt.Sprintf("E%d", totalRow), bold); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	if err := f.SetColWidth(exportSheet, "B", "B", 28); err != nil {
		return err
	}
	return f.SetColWidth(exportSheet, "F", lastCol, 22)
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
