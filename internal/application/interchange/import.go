package interchange

import (
	"context"
	"fmt"

	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// Decision resuelve una colisión de product_id durante el merge.
type Decision int

const (
	// DecisionSkip conserva el registro actual y descarta el entrante.
	// Es el default: un import nunca pisa datos locales sin decisión
	// explícita del operador.
	DecisionSkip Decision = iota
	// DecisionOverwrite reemplaza el registro actual por el entrante.
	DecisionOverwrite
	// DecisionRename conserva ambos: el entrante recibe un ID nuevo.
	DecisionRename
)

// Conflict es una colisión de ID entre el store y el archivo en staging.
type Conflict struct {
	ProductID string
	Current   entity.Product
	Incoming  entity.Product
}

// Staging es la colección decodificada de un archivo ajeno, todavía sin
// aplicar al store.
type Staging struct {
	Path     string
	Products []entity.Product
	Warnings []error
}

// MergePlan asigna una decisión por product_id en colisión. Los IDs sin
// entrada usan Default.
type MergePlan struct {
	Decisions map[string]Decision
	Default   Decision
}

func (p MergePlan) decisionFor(id string) Decision {
	if d, ok := p.Decisions[id]; ok {
		return d
	}
	return p.Default
}

// MergeResult resume lo aplicado por un merge.
type MergeResult struct {
	Added       int
	Overwritten int
	Skipped     int
	Renamed     int
}

// Importer ejecuta el ciclo stage → diff → apply contra un RecordStore.
// Importar es una operación distinta de Load: nunca reemplaza el store
// completo y cada colisión requiere una decisión.
type Importer struct {
	reader ProductReader
	store  *catalog.RecordStore
	alloc  *catalog.IdentifierAllocator
}

// NewImporter construye el importador.
func NewImporter(reader ProductReader, store *catalog.RecordStore) *Importer {
	return &Importer{
		reader: reader,
		store:  store,
		alloc:  catalog.NewIdentifierAllocator(store),
	}
}

// Stage decodifica el archivo ajeno en una colección de staging. No muta el
// store: el operador revisa el diff antes de decidir el merge.
func (im *Importer) Stage(path string) (*Staging, error) {
	products, warns, err := im.reader.ReadProducts(path)
	if err != nil {
		return nil, err
	}
	return &Staging{Path: path, Products: products, Warnings: warns}, nil
}

// Diff separa el staging en registros frescos (ID ausente en el store) y
// colisiones por product_id.
func (im *Importer) Diff(st *Staging) (fresh []entity.Product, conflicts []Conflict) {
	for _, p := range st.Products {
		if current, err := im.store.Find(p.ProductID); err == nil {
			conflicts = append(conflicts, Conflict{ProductID: p.ProductID, Current: current, Incoming: p})
			continue
		}
		fresh = append(fresh, p)
	}
	return fresh, conflicts
}

// Apply ejecuta el merge según el plan con semántica chequear-luego-aplicar:
// todo el lote se valida (y los IDs de renombre se reservan) antes de la
// primera mutación, así el commit aplica completo o no aplica nada. La
// cancelación del contexto solo tiene efecto antes del commit: una vez
// empezado, la operación nunca queda a medias por cancelación.
func (im *Importer) Apply(ctx context.Context, st *Staging, plan MergePlan) (MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return MergeResult{}, err
	}
	fresh, conflicts := im.Diff(st)

	// Fase de chequeo: ningún Upsert todavía.
	var res MergeResult
	batch := make([]entity.Product, 0, len(st.Products))
	counters := make([]*int, 0, len(st.Products))
	reserved := make(map[string]bool)

	for _, p := range fresh {
		if err := im.store.Validate(p); err != nil {
			return MergeResult{}, fmt.Errorf("importar %s: %w", p.ProductID, err)
		}
		reserved[p.ProductID] = true
		batch = append(batch, p)
		counters = append(counters, &res.Added)
	}
	for _, c := range conflicts {
		switch plan.decisionFor(c.ProductID) {
		case DecisionOverwrite:
			if err := im.store.Validate(c.Incoming); err != nil {
				return MergeResult{}, fmt.Errorf("importar %s: %w", c.ProductID, err)
			}
			batch = append(batch, c.Incoming)
			counters = append(counters, &res.Overwritten)
		case DecisionRename:
			id, err := im.alloc.AllocateExcluding(c.Incoming.CategoryMain, reserved)
			if err != nil {
				return MergeResult{}, fmt.Errorf("renombrar %s: %w", c.ProductID, err)
			}
			renamed := c.Incoming
			renamed.ProductID = id
			if err := im.store.Validate(renamed); err != nil {
				return MergeResult{}, fmt.Errorf("importar %s como %s: %w", c.ProductID, id, err)
			}
			reserved[id] = true
			batch = append(batch, renamed)
			counters = append(counters, &res.Renamed)
		default:
			res.Skipped++
		}
	}

	// Fase de aplicación: ya validado todo, los upserts no pueden fallar.
	for i, p := range batch {
		if err := im.store.Upsert(p); err != nil {
			return MergeResult{}, fmt.Errorf("importar %s: %w", p.ProductID, err)
		}
		*counters[i]++
	}
	return res, nil
}
