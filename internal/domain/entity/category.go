package entity

// UncategorizedMain y UncategorizedSub forman el par centinela al que se
// reasignan los productos cuando su categoría se elimina con force.
const (
	UncategorizedMain = "Uncategorized"
	UncategorizedSub  = "Uncategorized"
)

// Category representa un par de la taxonomía de dos niveles (main/sub).
// Main es único; Sub es único dentro de su Main. Color e Icon son metadatos
// de presentación pero deben sobrevivir el round-trip de persistencia.
type Category struct {
	Main  string
	Sub   string
	Color string
	Icon  string
}

// Pair devuelve la tupla (main, sub).
func (c Category) Pair() (string, string) {
	return c.Main, c.Sub
}
