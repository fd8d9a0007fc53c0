package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yourusername/inventario/internal/domain/entity"
	"github.com/yourusername/inventario/internal/domain/repository"
	"github.com/yourusername/inventario/internal/usecase"
)

const menuText = `
=== GESTIÓN DE INVENTARIO ===
1. Añadir producto
2. Mostrar inventario
3. Buscar producto
4. Modificar producto
5. Eliminar producto
6. Calcular valor total
7. Mostrar productos de un proveedor
8. Guardar y salir`

// errInputClosed stdin ended while a prompt was waiting
var errInputClosed = errors.New("input closed")

// Menu interactive text menu over an InventoryUseCase
type Menu struct {
	inventory usecase.InventoryUseCase
	activity  usecase.ActivityUseCase
	in        *bufio.Scanner
	out       io.Writer
	logger    *zap.Logger
}

// NewMenu activity may be nil
func NewMenu(
	inventory usecase.InventoryUseCase,
	activity usecase.ActivityUseCase,
	in io.Reader,
	out io.Writer,
	logger *zap.Logger,
) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		inventory: inventory,
		activity:  activity,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run loads the inventory and serves the menu until option 8 or end of input.
func (m *Menu) Run(ctx context.Context) error {
	if err := m.inventory.Load(ctx); err != nil {
		var parseErr *repository.ParseError
		if !errors.As(err, &parseErr) {
			return fmt.Errorf("load inventory: %w", err)
		}
		m.println("Aviso: no se pudo leer %s (%v).", parseErr.Path, parseErr.Err)
		m.println("Se continúa con un inventario vacío; guardar sobrescribirá el fichero.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.println("%s", menuText)
		option, err := m.prompt("Seleccione una opción: ")
		if err != nil {
			return m.inputClosed()
		}

		done, err := m.handleOption(ctx, option)
		if errors.Is(err, errInputClosed) {
			return m.inputClosed()
		}
		if done {
			return nil
		}
	}
}

// handleOption dispatches one menu choice. done is true after a successful save-and-exit.
func (m *Menu) handleOption(ctx context.Context, option string) (bool, error) {
	var (
		action  string
		details string
		err     error
	)

	switch option {
	case "1":
		action = "add"
		details, err = m.handleAdd(ctx)
	case "2":
		action = "list"
		details, err = m.handleList(ctx)
	case "3":
		action = "find"
		details, err = m.handleFind(ctx)
	case "4":
		action = "update"
		details, err = m.handleUpdate(ctx)
	case "5":
		action = "remove"
		details, err = m.handleRemove(ctx)
	case "6":
		action = "total"
		details, err = m.handleTotal(ctx)
	case "7":
		action = "by_supplier"
		details, err = m.handleBySupplier(ctx)
	case "8":
		action = "save"
		details, err = m.handleSave(ctx)
		if err == nil {
			m.record(ctx, action, details, nil)
			return true, nil
		}
	default:
		m.println("Opción no válida.")
		return false, nil
	}

	if errors.Is(err, errInputClosed) {
		return false, err
	}
	if err != nil {
		m.println("%s", describeError(err))
	}
	m.record(ctx, action, details, err)
	return false, nil
}

func (m *Menu) handleAdd(ctx context.Context) (string, error) {
	code, err := m.prompt("Código: ")
	if err != nil {
		return "", err
	}
	name, err := m.prompt("Nombre: ")
	if err != nil {
		return code, err
	}
	rawPrice, err := m.prompt("Precio: ")
	if err != nil {
		return code, err
	}
	rawStock, err := m.prompt("Stock: ")
	if err != nil {
		return code, err
	}
	supplierCode, err := m.prompt("Código del proveedor: ")
	if err != nil {
		return code, err
	}

	price, err := parsePrice(rawPrice)
	if err != nil {
		return code, err
	}
	stock, err := parseStock(rawStock)
	if err != nil {
		return code, err
	}

	supplier, known, err := m.inventory.KnownSupplier(ctx, supplierCode)
	if err != nil {
		return code, err
	}
	if known {
		m.println("Proveedor existente: %s %s", supplier.Name, supplier.Contact)
	} else {
		supplierName, err := m.prompt("Nombre del proveedor: ")
		if err != nil {
			return code, err
		}
		contact, err := m.prompt("Contacto del proveedor: ")
		if err != nil {
			return code, err
		}
		supplier = entity.Supplier{Code: supplierCode, Name: supplierName, Contact: contact}
	}

	product := entity.Product{
		Code:     code,
		Name:     name,
		Price:    price,
		Stock:    stock,
		Supplier: supplier,
	}
	if err := m.inventory.Add(ctx, product); err != nil {
		return code, err
	}

	m.println("Producto añadido.")
	return code, nil
}

func (m *Menu) handleList(ctx context.Context) (string, error) {
	products, err := m.inventory.List(ctx)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		m.println("El inventario está vacío.")
		return "0 products", nil
	}
	for _, p := range products {
		m.println("%s", p)
	}
	return fmt.Sprintf("%d products", len(products)), nil
}

func (m *Menu) handleFind(ctx context.Context) (string, error) {
	code, err := m.prompt("Código del producto a buscar: ")
	if err != nil {
		return "", err
	}
	product, err := m.inventory.Find(ctx, code)
	if err != nil {
		return code, err
	}
	m.println("%s", product)
	return code, nil
}

func (m *Menu) handleUpdate(ctx context.Context) (string, error) {
	code, err := m.prompt("Código del producto a modificar: ")
	if err != nil {
		return "", err
	}
	current, err := m.inventory.Find(ctx, code)
	if err != nil {
		return code, err
	}
	m.println("%s", current)
	m.println("Deje el campo vacío para mantener el valor actual.")

	var upd entity.ProductUpdate

	name, err := m.prompt("Nuevo nombre: ")
	if err != nil {
		return code, err
	}
	if name != "" {
		upd.Name = &name
	}

	rawPrice, err := m.prompt("Nuevo precio: ")
	if err != nil {
		return code, err
	}
	if rawPrice != "" {
		price, err := parsePrice(rawPrice)
		if err != nil {
			return code, err
		}
		upd.Price = &price
	}

	rawStock, err := m.prompt("Nuevo stock: ")
	if err != nil {
		return code, err
	}
	if rawStock != "" {
		stock, err := parseStock(rawStock)
		if err != nil {
			return code, err
		}
		upd.Stock = &stock
	}

	if upd.IsEmpty() {
		m.println("Sin cambios.")
		return code, nil
	}

	updated, err := m.inventory.Update(ctx, code, upd)
	if err != nil {
		return code, err
	}
	m.println("Producto modificado.")
	m.println("%s", updated)
	return code, nil
}

func (m *Menu) handleRemove(ctx context.Context) (string, error) {
	code, err := m.prompt("Código del producto a eliminar: ")
	if err != nil {
		return "", err
	}
	if err := m.inventory.Remove(ctx, code); err != nil {
		return code, err
	}
	m.println("Producto borrado.")
	return code, nil
}

func (m *Menu) handleTotal(ctx context.Context) (string, error) {
	total, err := m.inventory.TotalValue(ctx)
	if err != nil {
		return "", err
	}
	m.println("Valor total del inventario: %s €", total.StringFixed(2))
	return total.StringFixed(2), nil
}

func (m *Menu) handleBySupplier(ctx context.Context) (string, error) {
	code, err := m.prompt("Código del proveedor a buscar: ")
	if err != nil {
		return "", err
	}
	products, err := m.inventory.BySupplier(ctx, code)
	if err != nil {
		return code, err
	}
	if len(products) == 0 {
		m.println("El proveedor no existe.")
		return code, nil
	}
	for _, p := range products {
		m.println("%s", p)
	}
	return fmt.Sprintf("%s: %d products", code, len(products)), nil
}

func (m *Menu) handleSave(ctx context.Context) (string, error) {
	if err := m.inventory.Save(ctx); err != nil {
		return m.inventory.Source(), err
	}
	m.println("Inventario guardado en %s.", m.inventory.Source())
	return m.inventory.Source(), nil
}

func (m *Menu) inputClosed() error {
	if m.inventory.HasUnsavedChanges() {
		m.logger.Warn("input closed with unsaved changes, they are discarded")
		m.println("")
		m.println("Entrada cerrada: los cambios no guardados se han descartado.")
	}
	return nil
}

// prompt prints label and reads one trimmed line
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			m.logger.Error("read input", zap.Error(err))
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) println(format string, args ...any) {
	fmt.Fprintf(m.out, format+"\n", args...)
}

func (m *Menu) record(ctx context.Context, action, details string, err error) {
	if m.activity == nil {
		return
	}
	if recErr := m.activity.Record(ctx, action, details, err); recErr != nil {
		m.logger.Warn("activity not recorded", zap.String("action", action), zap.Error(recErr))
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "No existe un producto con ese código."
	case errors.Is(err, repository.ErrDuplicateCode):
		return "Ese producto ya está añadido."
	case errors.Is(err, repository.ErrInvalidValue):
		return fmt.Sprintf("Valor no válido (%v).", err)
	case errors.Is(err, usecase.ErrNotLoaded):
		return "El inventario no está cargado."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// parsePrice accepts a comma as decimal separator
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: precio %q no es un número", repository.ErrInvalidValue, raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: precio %s es negativo", repository.ErrInvalidValue, raw)
	}
	return price, nil
}

func parseStock(raw string) (int, error) {
	stock, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: stock %q no es un número entero", repository.ErrInvalidValue, raw)
	}
	if stock < 0 {
		return 0, fmt.Errorf("%w: stock %d es negativo", repository.ErrInvalidValue, stock)
	}
	return stock, nil
}
