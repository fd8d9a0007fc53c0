package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Supplier product source with contact details
type Supplier struct {
	Code    string `validate:"required"`
	Name    string
	Contact string
}

// String renders "code, name, contact"
func (s Supplier) String() string {
	return fmt.Sprintf("%s, %s, %s", s.Code, s.Name, s.Contact)
}

// SameAs compares suppliers by code only.
func (s Supplier) SameAs(other Supplier) bool {
	return s.Code == other.Code
}

// Product inventory item
type Product struct {
	Code     string          `validate:"required"`
	Name     string
	Price    decimal.Decimal `validate:"gte=0"`
	Stock    int             `validate:"gte=0"`
	Supplier Supplier
}

// String renders the product the way the menu prints it.
func (p Product) String() string {
	return fmt.Sprintf("%s %s - %s € (%d uds.) | Proveedor: %s %s",
		p.Code, p.Name, p.Price.String(), p.Stock, p.Supplier.Name, p.Supplier.Contact)
}

// Value price * stock
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Equal field-wise comparison; prices compare by numeric value.
func (p Product) Equal(other Product) bool {
	return p.Code == other.Code &&
		p.Name == other.Name &&
		p.Price.Equal(other.Price) &&
		p.Stock == other.Stock &&
		p.Supplier == other.Supplier
}

// ProductUpdate carries the subset of fields to overwrite. Nil fields are left as they are.
type ProductUpdate struct {
	Name  *string
	Price *decimal.Decimal
	Stock *int
}

// IsEmpty reports whether no field is set.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Stock == nil
}

// ProductCatalog products together with the file they were read from
type ProductCatalog struct {
	Products []Product
	Source   string
}
