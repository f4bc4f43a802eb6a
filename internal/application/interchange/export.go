package interchange

import (
	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// Exporter emite el subconjunto de intercambio IMS: solo ítems tangibles
// (type service excluido), en el formato que indique la extensión destino.
type Exporter struct {
	writer ProductWriter
	store  *catalog.RecordStore
}

// NewExporter construye el exportador.
func NewExporter(writer ProductWriter, store *catalog.RecordStore) *Exporter {
	return &Exporter{writer: writer, store: store}
}

// Export escribe los productos tangibles del snapshot actual. Devuelve
// cuántos registros se emitieron.
func (ex *Exporter) Export(path string) (int, error) {
	products, _ := ex.store.Snapshot()
	tangible := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Tangible() {
			tangible = append(tangible, p)
		}
	}
	if err := ex.writer.WriteProducts(path, tangible); err != nil {
		return 0, err
	}
	return len(tangible), nil
}
