// Package checkout implementa el carrito y el cierre de venta en efectivo:
// subtotal, impuesto, vuelto y el registro atómico de la venta en el store.
package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

type cartLine struct {
	productID string
	quantity  int
}

// Cart acumula líneas de venta pendientes. Guarda solo ID y cantidad: el
// precio unitario se congela recién al cerrar la venta, no al agregar.
type Cart struct {
	store *catalog.RecordStore
	lines []cartLine
}

// NewCart construye un carrito vacío sobre el store dado.
func NewCart(store *catalog.RecordStore) *Cart {
	return &Cart{store: store}
}

// Add agrega cantidad del producto al carrito; si ya está, suma cantidades.
func (c *Cart) Add(productID string, quantity int) error {
	if quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
	}
	if !c.store.Has(productID) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
	}
	for i := range c.lines {
		if c.lines[i].productID == productID {
			c.lines[i].quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, cartLine{productID: productID, quantity: quantity})
	return nil
}

// Remove quita la línea del producto.
func (c *Cart) Remove(productID string) error {
	for i := range c.lines {
		if c.lines[i].productID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrNotFound, productID)
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len devuelve la cantidad de líneas.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal suma cantidad × precio actual de cada línea. Es informativo para
// la pantalla: el precio definitivo se congela en Checkout.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		p, err := c.store.Find(l.productID)
		if err != nil {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.quantity))))
	}
	return total
}

// Checkout cierra la venta: congela los precios unitarios actuales, aplica
// la tasa de impuesto sobre el subtotal (redondeo a 2 decimales), verifica
// el efectivo entregado y registra la venta en el store (descuento de stock
// atómico incluido). Con éxito el carrito queda vacío; ante cualquier error
// el carrito y el stock quedan como estaban.
func (c *Cart) Checkout(tendered, taxRate decimal.Decimal) (entity.Sale, error) {
	if len(c.lines) == 0 {
		return entity.Sale{}, domain.ErrEmptySale
	}
	items := make([]entity.SaleItem, 0, len(c.lines))
	subtotal := decimal.Zero
	for _, l := range c.lines {
		p, err := c.store.Find(l.productID)
		if err != nil {
			return entity.Sale{}, err
		}
		item := entity.SaleItem{ProductID: l.productID, Quantity: l.quantity, UnitPrice: p.Price}
		items = append(items, item)
		subtotal = subtotal.Add(item.Subtotal())
	}
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax)
	if tendered.LessThan(total) {
		return entity.Sale{}, fmt.Errorf("%w: total %s, entregado %s",
			domain.ErrInsufficientPayment, total, tendered)
	}
	sale := entity.Sale{
		Items: items,
		Payment: entity.Payment{
			Tendered: tendered,
			Change:   tendered.Sub(total),
			Tax:      tax,
		},
		Total: total,
	}
	recorded, err := c.store.RecordSale(sale)
	if err != nil {
		return entity.Sale{}, err
	}
	c.Clear()
	return recorded, nil
}
