package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem es una línea de venta. UnitPrice es una fotografía del precio al
// momento de la venta: ediciones posteriores del producto no la afectan.
type SaleItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad × precio unitario congelado.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Payment registra el pago de una venta en efectivo.
type Payment struct {
	Tendered decimal.Decimal
	Change   decimal.Decimal
	Tax      decimal.Decimal
}

// Sale representa una transacción de venta cerrada. Las ventas son
// append-only: una vez registradas nunca se editan ni se eliminan
// (pista de auditoría). Timestamp es inmutable desde la creación.
type Sale struct {
	TransactionID string
	Timestamp     time.Time
	Items         []SaleItem
	Payment       Payment
	Total         decimal.Decimal
}

// ComputeTotal recalcula el total desde los campos almacenados:
// suma de subtotales de línea más el impuesto aplicado.
func (s Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Add(s.Payment.Tax)
}
