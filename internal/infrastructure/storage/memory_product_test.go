package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
)

func product(code, price string, stock int, supplierCode string) entity.Product {
	return entity.Product{
		Code:  code,
		Name:  "Producto " + code,
		Price: decimal.RequireFromString(price),
		Stock: stock,
		Supplier: entity.Supplier{
			Code:    supplierCode,
			Name:    "Proveedor " + supplierCode,
			Contact: supplierCode + "@example.com",
		},
	}
}

func TestAddThenFindReturnsEveryProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	var added []entity.Product
	for i := 1; i <= 5; i++ {
		p := product(fmt.Sprintf("P%03d", i), "1.25", i, "PR01")
		require.NoError(t, repo.Add(ctx, p))
		added = append(added, p)
	}

	for _, p := range added {
		found, err := repo.GetByCode(ctx, p.Code)
		require.NoError(t, err)
		require.True(t, p.Equal(*found), "product %s", p.Code)
	}
}

func TestAddDuplicateCodeLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	require.NoError(t, repo.Add(ctx, product("P001", "45.99", 10, "PR01")))
	err := repo.Add(ctx, product("P001", "1.00", 1, "PR02"))
	require.ErrorIs(t, err, repository.ErrDuplicateCode)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "PR01", all[0].Supplier.Code)
}

func TestAddRejectsInvalidProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	err := repo.Add(ctx, product("P001", "-1", 10, "PR01"))
	require.ErrorIs(t, err, repository.ErrInvalidValue)

	err = repo.Add(ctx, product("P001", "-1e-400", 10, "PR01"))
	require.ErrorIs(t, err, repository.ErrInvalidValue)

	err = repo.Add(ctx, product("", "1", 10, "PR01"))
	require.ErrorIs(t, err, repository.ErrInvalidValue)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestDeleteThenFindIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P001", "45.99", 10, "PR01")))
	require.NoError(t, repo.Add(ctx, product("P002", "13.50", 2, "PR01")))

	require.NoError(t, repo.Delete(ctx, "P001"))

	_, err := repo.GetByCode(ctx, "P001")
	require.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "P002", all[0].Code)

	require.ErrorIs(t, repo.Delete(ctx, "P001"), repository.ErrNotFound)
}

func TestTotalValue(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	total, err := repo.TotalValue(ctx)
	require.NoError(t, err)
	require.True(t, total.IsZero())

	require.NoError(t, repo.Add(ctx, product("P001", "45.99", 10, "PR01")))
	require.NoError(t, repo.Add(ctx, product("P002", "13.50", 2, "PR02")))

	total, err = repo.TotalValue(ctx)
	require.NoError(t, err)
	require.Equal(t, "486.90", total.StringFixed(2))
	require.True(t, total.Equal(decimal.RequireFromString("486.9")))
}

func TestTotalValueHasNoFloatDrift(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Add(ctx, product(fmt.Sprintf("P%d", i), "0.1", 1, "PR01")))
	}

	total, err := repo.TotalValue(ctx)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(1)), "got %s", total)
}

func TestGetBySupplierKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P003", "1", 1, "PR01")))
	require.NoError(t, repo.Add(ctx, product("P001", "1", 1, "PR02")))
	require.NoError(t, repo.Add(ctx, product("P002", "1", 1, "PR01")))

	results, err := repo.GetBySupplier(ctx, "PR01")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "P003", results[0].Code)
	require.Equal(t, "P002", results[1].Code)

	none, err := repo.GetBySupplier(ctx, "PR99")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestUpdateAppliesSubset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P001", "45.99", 10, "PR01")))

	stock := 4
	updated, err := repo.Update(ctx, "P001", entity.ProductUpdate{Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Stock)
	require.Equal(t, "Producto P001", updated.Name)
	require.True(t, updated.Price.Equal(decimal.RequireFromString("45.99")))

	name := "Teclado mecánico"
	price := decimal.RequireFromString("59.90")
	_, err = repo.Update(ctx, "P001", entity.ProductUpdate{Name: &name, Price: &price})
	require.NoError(t, err)

	found, err := repo.GetByCode(ctx, "P001")
	require.NoError(t, err)
	require.Equal(t, name, found.Name)
	require.True(t, found.Price.Equal(price))
	require.Equal(t, 4, found.Stock)
}

func TestUpdateNegativeValuesLeaveProductUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P001", "45.99", 10, "PR01")))

	stock := -5
	_, err := repo.Update(ctx, "P001", entity.ProductUpdate{Stock: &stock})
	require.ErrorIs(t, err, repository.ErrInvalidValue)

	name := "Renamed"
	price := decimal.RequireFromString("-1")
	_, err = repo.Update(ctx, "P001", entity.ProductUpdate{Name: &name, Price: &price})
	require.ErrorIs(t, err, repository.ErrInvalidValue)

	found, err := repo.GetByCode(ctx, "P001")
	require.NoError(t, err)
	require.Equal(t, 10, found.Stock)
	require.Equal(t, "Producto P001", found.Name)
	require.True(t, found.Price.Equal(decimal.RequireFromString("45.99")))
}

func TestUpdateUnknownCode(t *testing.T) {
	repo := NewMemoryProductRepository()
	stock := 1
	_, err := repo.Update(context.Background(), "NOPE", entity.ProductUpdate{Stock: &stock})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P001", "1", 1, "PR01")))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	all[0].Stock = 999

	found, err := repo.GetByCode(ctx, "P001")
	require.NoError(t, err)
	require.Equal(t, 1, found.Stock)
}

func TestReplaceAllRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.Add(ctx, product("P001", "1", 1, "PR01")))

	err := repo.ReplaceAll(ctx, []entity.Product{
		product("P002", "1", 1, "PR01"),
		product("P002", "2", 2, "PR01"),
	})
	require.ErrorIs(t, err, repository.ErrDuplicateCode)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "P001", all[0].Code)

	require.NoError(t, repo.ReplaceAll(ctx, []entity.Product{product("P009", "1", 1, "PR03")}))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "P009", all[0].Code)
}
