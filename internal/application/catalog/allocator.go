package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tu-usuario/punto-venta/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	prefixLen      = 4
	fallbackPrefix = "PROD"
	maxSequence    = 9999
)

// foldDiacritics descompone y elimina las marcas diacríticas para que
// "Café" derive el mismo prefijo que "Cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// IdentifierAllocator genera product_ids libres de colisión con el formato
// <PREFIJO>-<secuencia de 4 dígitos>, donde el prefijo se deriva de la
// categoría principal del producto.
type IdentifierAllocator struct {
	store *RecordStore
}

// NewIdentifierAllocator construye el asignador sobre el store dado.
func NewIdentifierAllocator(store *RecordStore) *IdentifierAllocator {
	return &IdentifierAllocator{store: store}
}

// DerivePrefix deriva el prefijo determinista de una categoría principal:
// pliega diacríticos, descarta lo no alfanumérico y toma las primeras
// cuatro letras en mayúscula. "Consumables" → "CONS".
func DerivePrefix(categoryMain string) string {
	folded, _, err := transform.String(foldDiacritics, categoryMain)
	if err != nil {
		folded = categoryMain
	}
	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			r = unicode.ToUpper(r)
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == prefixLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return fallbackPrefix
	}
	return b.String()
}

// Allocate devuelve el menor product_id libre para el prefijo de la
// categoría. Nunca reutiliza un ID aún presente en el store: un producto
// eliminado y vuelto a crear recibe el primer hueco libre, pero jamás pisa
// un ID vivo (evita fusionar datos de productos sin relación).
// Con los 9999 lugares ocupados falla con ErrAllocationExhausted.
func (a *IdentifierAllocator) Allocate(categoryMain string) (string, error) {
	return a.AllocateExcluding(categoryMain, nil)
}

// AllocateExcluding es Allocate con un conjunto extra de IDs tomados: lo usa
// el merge para reservar los IDs de un lote completo antes de aplicarlo.
func (a *IdentifierAllocator) AllocateExcluding(categoryMain string, taken map[string]bool) (string, error) {
	prefix := DerivePrefix(categoryMain)
	for seq := 1; seq <= maxSequence; seq++ {
		id := fmt.Sprintf("%s-%04d", prefix, seq)
		if !a.store.Has(id) && !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrAllocationExhausted, prefix)
}
