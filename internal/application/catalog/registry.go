// Package catalog contiene el estado canónico en memoria del catálogo:
// la colección de productos y ventas (RecordStore), la taxonomía de dos
// niveles (CategoryRegistry) y el asignador de identificadores.
//
// Modelo de concurrencia: una sola instancia viva por proceso y todas las
// mutaciones llegan desde el hilo lógico del event loop de la interfaz, así
// que no hay locking interno. Los guardados en segundo plano operan sobre
// Snapshot(), nunca sobre el estado vivo.
package catalog

import (
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// CategoryRegistry mantiene la taxonomía main/sub con metadatos de
// presentación. Se persiste en su propio archivo, independiente de los
// productos; RecordStore la consulta para validar pares.
type CategoryRegistry struct {
	cats []entity.Category
}

// DefaultTaxonomy devuelve la taxonomía incorporada que se usa cuando el
// archivo de categorías falta o está corrupto.
func DefaultTaxonomy() []entity.Category {
	return []entity.Category{
		{Main: "Beverages", Sub: "Hot", Color: "#b5651d", Icon: "cup"},
		{Main: "Beverages", Sub: "Cold", Color: "#4aa3df", Icon: "glass"},
		{Main: "Food", Sub: "Meals", Color: "#e67e22", Icon: "plate"},
		{Main: "Food", Sub: "Snacks", Color: "#f1c40f", Icon: "bag"},
		{Main: "Consumables", Sub: "Supplies", Color: "#27ae60", Icon: "box"},
		{Main: "Services", Sub: "General", Color: "#8e44ad", Icon: "wrench"},
		{Main: entity.UncategorizedMain, Sub: entity.UncategorizedSub, Color: "#95a5a6", Icon: "tag"},
	}
}

// NewCategoryRegistry construye el registro con los pares dados, en orden.
// El par centinela Uncategorized/Uncategorized se garantiza siempre presente.
func NewCategoryRegistry(cats []entity.Category) *CategoryRegistry {
	r := &CategoryRegistry{}
	for _, c := range cats {
		if c.Main == "" || c.Sub == "" || r.Has(c.Main, c.Sub) {
			continue
		}
		r.cats = append(r.cats, c)
	}
	if !r.Has(entity.UncategorizedMain, entity.UncategorizedSub) {
		r.cats = append(r.cats, entity.Category{
			Main: entity.UncategorizedMain, Sub: entity.UncategorizedSub,
		})
	}
	return r
}

// Has indica si el par (main, sub) existe en el registro.
func (r *CategoryRegistry) Has(main, sub string) bool {
	for _, c := range r.cats {
		if c.Main == main && c.Sub == sub {
			return true
		}
	}
	return false
}

// List devuelve los pares en orden de registro (copia).
func (r *CategoryRegistry) List() []entity.Category {
	out := make([]entity.Category, len(r.cats))
	copy(out, r.cats)
	return out
}

// Add registra un nuevo par. Main único a nivel superior no se exige (varios
// sub por main); el par completo sí debe ser único.
func (r *CategoryRegistry) Add(main, sub, color, icon string) error {
	if main == "" {
		return &domain.ValidationError{Field: "main", Reason: "no puede estar vacío"}
	}
	if sub == "" {
		return &domain.ValidationError{Field: "sub", Reason: "no puede estar vacío"}
	}
	if r.Has(main, sub) {
		return domain.ErrDuplicateCategory
	}
	r.cats = append(r.cats, entity.Category{Main: main, Sub: sub, Color: color, Icon: icon})
	return nil
}

// Rename renombra un par y propaga el cambio a todos los productos del store
// que lo referencian, como una sola transacción lógica: toda la validación
// ocurre antes de la primera mutación, así ambos cambios se aplican o ninguno.
func (r *CategoryRegistry) Rename(oldMain, oldSub, newMain, newSub string, store *RecordStore) error {
	if newMain == "" || newSub == "" {
		return &domain.ValidationError{Field: "main/sub", Reason: "el nuevo par no puede estar vacío"}
	}
	idx := r.indexOf(oldMain, oldSub)
	if idx < 0 {
		return domain.ErrNotFound
	}
	if r.Has(newMain, newSub) {
		return domain.ErrDuplicateCategory
	}
	r.cats[idx].Main = newMain
	r.cats[idx].Sub = newSub
	store.reassignCategory(oldMain, oldSub, newMain, newSub)
	return nil
}

// Remove elimina un par. Si algún producto aún lo referencia falla con
// ErrCategoryInUse, salvo que force sea true: en ese caso los productos
// afectados se reasignan al par centinela Uncategorized/Uncategorized en
// lugar de quedar colgando. El par centinela no puede eliminarse.
func (r *CategoryRegistry) Remove(main, sub string, force bool, store *RecordStore) error {
	if main == entity.UncategorizedMain && sub == entity.UncategorizedSub {
		return &domain.ValidationError{Field: "main/sub", Reason: "el par centinela no puede eliminarse"}
	}
	idx := r.indexOf(main, sub)
	if idx < 0 {
		return domain.ErrNotFound
	}
	if store.countByCategory(main, sub) > 0 {
		if !force {
			return domain.ErrCategoryInUse
		}
		store.reassignCategory(main, sub, entity.UncategorizedMain, entity.UncategorizedSub)
	}
	r.cats = append(r.cats[:idx], r.cats[idx+1:]...)
	return nil
}

func (r *CategoryRegistry) indexOf(main, sub string) int {
	for i, c := range r.cats {
		if c.Main == main && c.Sub == sub {
			return i
		}
	}
	return -1
}
