package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// RecordStore es el dueño exclusivo de las colecciones vivas de productos y
// ventas durante la vida del proceso. Garantiza unicidad de product_id,
// valida campos y pares de categoría en cada upsert, y aplica las ventas con
// semántica chequear-luego-aplicar sobre el stock.
type RecordStore struct {
	registry     *CategoryRegistry
	autoRegister bool
	products     map[string]entity.Product
	sales        []entity.Sale
}

// NewRecordStore construye un store vacío. autoRegister controla la política
// de alta implícita de categorías en Upsert: con true, un par desconocido se
// registra en el momento; con false, Upsert falla con ErrUnknownCategory.
func NewRecordStore(registry *CategoryRegistry, autoRegister bool) *RecordStore {
	return &RecordStore{
		registry:     registry,
		autoRegister: autoRegister,
		products:     make(map[string]entity.Product),
	}
}

// Registry expone la taxonomía asociada al store.
func (s *RecordStore) Registry() *CategoryRegistry {
	return s.registry
}

// normalize aplica las reglas de campo y los defaults canónicos (tipo
// product, par centinela) sin tocar el store.
func (s *RecordStore) normalize(p entity.Product) (entity.Product, error) {
	if p.ProductID == "" {
		return p, &domain.ValidationError{Field: "product_id", Reason: "no puede estar vacío"}
	}
	if p.Name == "" {
		return p, &domain.ValidationError{Field: "name", Reason: "no puede estar vacío"}
	}
	if p.Price.IsNegative() {
		return p, &domain.ValidationError{Field: "price", Reason: "no puede ser negativo"}
	}
	if p.Stock < 0 {
		return p, &domain.ValidationError{Field: "stock", Reason: "no puede ser negativo"}
	}
	switch p.Type {
	case "":
		p.Type = entity.TypeProduct
	case entity.TypeProduct, entity.TypeService:
	default:
		return p, &domain.ValidationError{Field: "type", Reason: "tipo desconocido: " + p.Type}
	}
	if p.CategoryMain == "" || p.CategorySub == "" {
		p.CategoryMain = entity.UncategorizedMain
		p.CategorySub = entity.UncategorizedSub
	}
	return p, nil
}

// Validate aplica exactamente las mismas reglas que Upsert sin mutar nada.
// Permite chequear un lote completo antes de aplicarlo.
func (s *RecordStore) Validate(p entity.Product) error {
	p, err := s.normalize(p)
	if err != nil {
		return err
	}
	if !s.registry.Has(p.CategoryMain, p.CategorySub) && !s.autoRegister {
		return fmt.Errorf("%w: %s/%s", domain.ErrUnknownCategory, p.CategoryMain, p.CategorySub)
	}
	return nil
}

// Upsert inserta o reemplaza el producto con ese product_id (las ediciones
// y el restock mutan en el lugar). Valida campos y par de categoría.
func (s *RecordStore) Upsert(p entity.Product) error {
	p, err := s.normalize(p)
	if err != nil {
		return err
	}
	if !s.registry.Has(p.CategoryMain, p.CategorySub) {
		if !s.autoRegister {
			return fmt.Errorf("%w: %s/%s", domain.ErrUnknownCategory, p.CategoryMain, p.CategorySub)
		}
		if err := s.registry.Add(p.CategoryMain, p.CategorySub, "", ""); err != nil {
			return err
		}
	}
	s.products[p.ProductID] = p
	return nil
}

// Find devuelve el producto con ese ID.
func (s *RecordStore) Find(id string) (entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return entity.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// Has indica si el ID está presente.
func (s *RecordStore) Has(id string) bool {
	_, ok := s.products[id]
	return ok
}

// Delete elimina el producto con ese ID.
func (s *RecordStore) Delete(id string) error {
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	delete(s.products, id)
	return nil
}

// BatchDelete elimina el conjunto de IDs como unidad: si algún ID no existe
// no se elimina ninguno de esta llamada. Llamadas anteriores ya aplicadas no
// se revierten; cada llamada es su propia unidad.
func (s *RecordStore) BatchDelete(ids []string) error {
	for _, id := range ids {
		if _, ok := s.products[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
	}
	for _, id := range ids {
		delete(s.products, id)
	}
	return nil
}

// List devuelve los productos ordenados por product_id (copia).
func (s *RecordStore) List() []entity.Product {
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ListLowStock devuelve los productos con stock en punto de reposición.
func (s *RecordStore) ListLowStock() []entity.Product {
	var out []entity.Product
	for _, p := range s.List() {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// Len devuelve la cantidad de productos.
func (s *RecordStore) Len() int {
	return len(s.products)
}

// RecordSale registra una venta terminada. Asigna TransactionID (UUID) y
// Timestamp si vienen vacíos, verifica que el total sea reproducible desde
// las líneas más el impuesto, y descuenta el stock de cada línea de forma
// atómica: si alguna línea dejaría stock negativo, falla con
// ErrInsufficientStock y no se aplica ningún descuento.
// Las ventas son append-only: no existe API de edición ni borrado.
func (s *RecordStore) RecordSale(sale entity.Sale) (entity.Sale, error) {
	if len(sale.Items) == 0 {
		return entity.Sale{}, domain.ErrEmptySale
	}
	for _, it := range sale.Items {
		if it.Quantity <= 0 {
			return entity.Sale{}, &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
		}
		if it.UnitPrice.IsNegative() {
			return entity.Sale{}, &domain.ValidationError{Field: "unit_price_at_sale", Reason: "no puede ser negativo"}
		}
	}

	// Fase de chequeo: existencia y stock suficiente para todas las líneas.
	for _, it := range sale.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return entity.Sale{}, fmt.Errorf("%w: %s", domain.ErrNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return entity.Sale{}, fmt.Errorf("%w: %s (stock %d, pedido %d)",
				domain.ErrInsufficientStock, it.ProductID, p.Stock, it.Quantity)
		}
	}

	if sale.TransactionID == "" {
		sale.TransactionID = uuid.New().String()
	}
	if sale.Timestamp.IsZero() {
		sale.Timestamp = time.Now()
	}
	computed := sale.ComputeTotal()
	if sale.Total.Equal(decimal.Zero) {
		sale.Total = computed
	} else if !sale.Total.Equal(computed) {
		return entity.Sale{}, &domain.ValidationError{
			Field:  "total",
			Reason: fmt.Sprintf("no reproducible: declarado %s, calculado %s", sale.Total, computed),
		}
	}

	// Fase de aplicación: ya validado todo, los descuentos no pueden fallar.
	for _, it := range sale.Items {
		p := s.products[it.ProductID]
		p.Stock -= it.Quantity
		s.products[it.ProductID] = p
	}
	s.sales = append(s.sales, sale)
	return sale, nil
}

// Sales devuelve la secuencia de ventas en orden de registro (copia).
func (s *RecordStore) Sales() []entity.Sale {
	out := make([]entity.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

// RestoreSales hidrata la secuencia de ventas desde la persistencia.
// Solo para carga inicial; no es una vía de mutación de ventas existentes.
func (s *RecordStore) RestoreSales(sales []entity.Sale) {
	s.sales = make([]entity.Sale, len(sales))
	copy(s.sales, sales)
}

// Snapshot devuelve copias de ambas colecciones, tomadas en el momento de la
// llamada. Un guardado en segundo plano serializa el snapshot, no el estado
// vivo, así el I/O de disco no corre contra una edición en proceso.
func (s *RecordStore) Snapshot() ([]entity.Product, []entity.Sale) {
	return s.List(), s.Sales()
}

// reassignCategory mueve todos los productos de un par a otro (cascada de
// rename/remove del registro).
func (s *RecordStore) reassignCategory(oldMain, oldSub, newMain, newSub string) {
	for id, p := range s.products {
		if p.CategoryMain == oldMain && p.CategorySub == oldSub {
			p.CategoryMain = newMain
			p.CategorySub = newSub
			s.products[id] = p
		}
	}
}

// countByCategory cuenta los productos que referencian el par.
func (s *RecordStore) countByCategory(main, sub string) int {
	n := 0
	for _, p := range s.products {
		if p.CategoryMain == main && p.CategorySub == sub {
			n++
		}
	}
	return n
}
