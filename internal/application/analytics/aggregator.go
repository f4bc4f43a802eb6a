// Package analytics deriva los resúmenes de reporte (top de ventas, ventas
// por tipo, ventas por día, totales) desde la secuencia de ventas.
//
// El agregador trabaja sobre snapshots inmutables del RecordStore y nunca lo
// muta, así que es seguro invocarlo en paralelo con lecturas sin locking.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// reportLocation es la zona horaria fija de los reportes. Se usa UTC y no la
// zona local del sistema para que los bucket por día sean reproducibles en
// cualquier máquina.
var reportLocation = time.UTC

// SellerStat acumula ventas de un producto.
type SellerStat struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// TypeStat acumula ventas por tipo de producto (product, service).
type TypeStat struct {
	Type     string
	Quantity int
	Revenue  decimal.Decimal
}

// DayStat acumula ventas de un día calendario (fecha en UTC, "2006-01-02").
type DayStat struct {
	Date    string
	Count   int
	Revenue decimal.Decimal
}

// Totals resume un rango de ventas.
type Totals struct {
	Count   int
	Revenue decimal.Decimal
	Tax     decimal.Decimal
}

// Aggregator calcula resúmenes sobre un snapshot de productos y ventas.
// Recomputa bajo demanda; no cachea nada.
type Aggregator struct {
	products map[string]entity.Product
	sales    []entity.Sale
}

// NewAggregator construye el agregador sobre el snapshot dado (tal como lo
// devuelve RecordStore.Snapshot).
func NewAggregator(products []entity.Product, sales []entity.Sale) *Aggregator {
	byID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return &Aggregator{products: byID, sales: sales}
}

// TopSellers devuelve los n productos más vendidos por cantidad, con empate
// resuelto por ingreso y luego por product_id para un orden estable.
func (a *Aggregator) TopSellers(n int) []SellerStat {
	acc := make(map[string]*SellerStat)
	for _, s := range a.sales {
		for _, it := range s.Items {
			st, ok := acc[it.ProductID]
			if !ok {
				st = &SellerStat{ProductID: it.ProductID, Revenue: decimal.Zero}
				if p, ok := a.products[it.ProductID]; ok {
					st.Name = p.Name
				}
				acc[it.ProductID] = st
			}
			st.Quantity += it.Quantity
			st.Revenue = st.Revenue.Add(it.Subtotal())
		}
	}
	out := make([]SellerStat, 0, len(acc))
	for _, st := range acc {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SalesByType agrupa cantidad e ingreso por tipo de producto. Las líneas de
// productos ya inexistentes en el catálogo se agrupan bajo "unknown".
func (a *Aggregator) SalesByType() []TypeStat {
	acc := make(map[string]*TypeStat)
	for _, s := range a.sales {
		for _, it := range s.Items {
			typ := "unknown"
			if p, ok := a.products[it.ProductID]; ok {
				typ = p.Type
			}
			st, ok := acc[typ]
			if !ok {
				st = &TypeStat{Type: typ, Revenue: decimal.Zero}
				acc[typ] = st
			}
			st.Quantity += it.Quantity
			st.Revenue = st.Revenue.Add(it.Subtotal())
		}
	}
	out := make([]TypeStat, 0, len(acc))
	for _, st := range acc {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// SalesByDay agrupa las ventas por fecha calendario del timestamp en la zona
// fija de reportes (UTC), ordenadas por fecha ascendente.
func (a *Aggregator) SalesByDay() []DayStat {
	acc := make(map[string]*DayStat)
	for _, s := range a.sales {
		date := s.Timestamp.In(reportLocation).Format("2006-01-02")
		st, ok := acc[date]
		if !ok {
			st = &DayStat{Date: date, Revenue: decimal.Zero}
			acc[date] = st
		}
		st.Count++
		st.Revenue = st.Revenue.Add(s.Total)
	}
	out := make([]DayStat, 0, len(acc))
	for _, st := range acc {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TotalsBetween suma las ventas del rango semiabierto [from, to).
func (a *Aggregator) TotalsBetween(from, to time.Time) Totals {
	t := Totals{Revenue: decimal.Zero, Tax: decimal.Zero}
	for _, s := range a.sales {
		if s.Timestamp.Before(from) || !s.Timestamp.Before(to) {
			continue
		}
		t.Count++
		t.Revenue = t.Revenue.Add(s.Total)
		t.Tax = t.Tax.Add(s.Payment.Tax)
	}
	return t
}
