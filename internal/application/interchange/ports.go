// Package interchange implementa el intercambio de catálogo con sistemas
// externos (IMS): staging de archivos ajenos, diff contra el store por
// product_id, merge con decisión explícita por colisión, y exportación del
// subconjunto tangible.
package interchange

import "github.com/tu-usuario/punto-venta/internal/domain/entity"

// ProductReader decodifica un archivo de productos a la forma canónica sin
// tocar el estado vivo (lo implementa la puerta de persistencia).
type ProductReader interface {
	ReadProducts(path string) ([]entity.Product, []error, error)
}

// ProductWriter escribe una colección canónica con reemplazo atómico en el
// formato que indique la extensión del destino.
type ProductWriter interface {
	WriteProducts(path string, products []entity.Product) error
}
