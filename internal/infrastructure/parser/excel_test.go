package parser

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/inventario/internal/domain/entity"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellName, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExportThenImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventario.xlsx")

	products := []entity.Product{
		{
			Code: "P001", Name: "Teclado", Price: decimal.RequireFromString("45.99"), Stock: 10,
			Supplier: entity.Supplier{Code: "PR01", Name: "TechZone", Contact: "ventas@techzone.com"},
		},
		{
			Code: "P006", Name: "Ratón inalámbrico", Price: decimal.RequireFromString("13.5"), Stock: 2,
			Supplier: entity.Supplier{Code: "PR05", Name: "Alguno", Contact: "alguno@dominiochuli.com"},
		},
	}

	require.NoError(t, NewExcelWriter(nil).WriteProducts(ctx, path, products))

	result, err := NewExcelParser(nil).ParseProducts(ctx, path)
	require.NoError(t, err)
	require.Empty(t, result.Rejected)
	require.Len(t, result.Products, len(products))
	for i := range products {
		require.True(t, products[i].Equal(result.Products[i]), "%v != %v", products[i], result.Products[i])
	}
}

func TestExportWritesTotalRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventario.xlsx")

	require.NoError(t, NewExcelWriter(nil).WriteProducts(ctx, path, []entity.Product{
		{Code: "P001", Name: "Teclado", Price: decimal.RequireFromString("45.99"), Stock: 10, Supplier: entity.Supplier{Code: "PR01"}},
		{Code: "P002", Name: "Ratón", Price: decimal.RequireFromString("13.50"), Stock: 2, Supplier: entity.Supplier{Code: "PR02"}},
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Inventario"}, f.GetSheetList())

	label, err := f.GetCellValue("Inventario", "D4")
	require.NoError(t, err)
	require.Equal(t, "Total", label)

	total, err := f.GetCellValue("Inventario", "E4")
	require.NoError(t, err)
	require.Equal(t, "486.9", total)
}

func TestParseHeaderAliasesAndFormats(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"SKU", "Producto", "Stock", "PVP", "Proveedor", "Proveedor nombre", "Email"},
		{"P001", "Teclado", "10", "45,99 €", "PR01", "TechZone", "ventas@techzone.com"},
		{"P002", "Monitor", "", "1,299.00", "PR02", "Pantallas SA", "info@pantallas.es"},
		{"", "", "", "", "", "", ""},
		{nil, nil, "Total", 1759.9},
	})

	result, err := NewExcelParser(nil).ParseProductsFromBytes(context.Background(), data)
	require.NoError(t, err)
	require.Empty(t, result.Rejected)
	require.Len(t, result.Products, 2)

	first := result.Products[0]
	require.Equal(t, "P001", first.Code)
	require.Equal(t, "Teclado", first.Name)
	require.True(t, first.Price.Equal(decimal.RequireFromString("45.99")))
	require.Equal(t, 10, first.Stock)
	require.Equal(t, entity.Supplier{Code: "PR01", Name: "TechZone", Contact: "ventas@techzone.com"}, first.Supplier)

	second := result.Products[1]
	require.True(t, second.Price.Equal(decimal.RequireFromString("1299")))
	require.Equal(t, 0, second.Stock)
}

func TestParseRejectsBadRows(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"Código", "Nombre", "Precio", "Stock", "Proveedor código"},
		{"P001", "Teclado", "abc", "1", "PR01"},
		{"P002", "Ratón", "-3", "1", "PR01"},
		{"P003", "Cable", "2", "1.5", "PR01"},
		{"", "Sin código", "2", "1", "PR01"},
		{"P005", "Sin proveedor", "2", "1", ""},
		{"P006", "Desbordado", "2", "18446744073709551617", "PR01"},
		{"P007", "Casi cero", "-1e-400", "1", "PR01"},
		{"P008", "Correcto", "2", "1", "PR01"},
	})

	result, err := NewExcelParser(nil).ParseProductsFromBytes(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Equal(t, "P008", result.Products[0].Code)

	require.Len(t, result.Rejected, 7)
	rows := make([]int, 0, len(result.Rejected))
	for _, r := range result.Rejected {
		rows = append(rows, r.Row)
		require.NotEmpty(t, r.Reason)
	}
	require.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, rows)
}

func TestParseRequiresHeaderColumns(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"Nombre", "Stock"},
		{"Teclado", "1"},
	})

	_, err := NewExcelParser(nil).ParseProductsFromBytes(context.Background(), data)
	require.Error(t, err)
}

func TestParseHeaderOnlyIsError(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"Código", "Nombre", "Precio"},
	})

	_, err := NewExcelParser(nil).ParseProductsFromBytes(context.Background(), data)
	require.Error(t, err)
}

func TestParseProductsFromInvalidBytes(t *testing.T) {
	_, err := NewExcelParser(nil).ParseProductsFromBytes(context.Background(), bytes.Repeat([]byte("x"), 32))
	require.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"45.99":    "45.99",
		"45,99":    "45.99",
		"€ 45.99":  "45.99",
		"1,299.50": "1299.5",
		"13.5 EUR": "13.5",
		"0":        "0",
		"$7":       "7",
	}
	for in, want := range cases {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		require.True(t, got.Equal(decimal.RequireFromString(want)), "%s -> %s", in, got)
	}

	_, err := parsePrice("")
	require.Error(t, err)
	_, err = parsePrice("gratis")
	require.Error(t, err)
}

func TestParseStock(t *testing.T) {
	stock, err := parseStock("12")
	require.NoError(t, err)
	require.Equal(t, 12, stock)

	stock, err = parseStock("3.0")
	require.NoError(t, err)
	require.Equal(t, 3, stock)

	for _, bad := range []string{"1.5", "muchos", "18446744073709551617", "-18446744073709551617"} {
		_, err := parseStock(bad)
		require.Error(t, err, bad)
	}
}
