package entity

import "github.com/shopspring/decimal"

// Tipos de producto. Type agrupa las ventas en los reportes y decide qué
// registros participan del intercambio con el IMS (solo tangibles).
const (
	TypeProduct = "product"
	TypeService = "service"
)

// LowStockThreshold marca el punto de reposición: stock <= 5 se reporta
// como "bajo stock".
const LowStockThreshold = 5

// Product representa un producto del catálogo en su forma canónica,
// independiente del formato de archivo del que provenga.
// ProductID es inmutable una vez asignado: <PREFIJO-CATEGORIA>-<secuencia 4 dígitos>.
type Product struct {
	ProductID    string
	Name         string
	CategoryMain string
	CategorySub  string
	Type         string          // product, service
	Price        decimal.Decimal // precio de venta, nunca negativo
	Stock        int
	Unit         string
	Description  string
}

// LowStock indica si el producto necesita reposición. Propiedad derivada:
// nunca se persiste.
func (p Product) LowStock() bool {
	return p.Stock <= LowStockThreshold
}

// Tangible indica si el producto participa del intercambio IMS
// (los servicios se excluyen).
func (p Product) Tangible() bool {
	return p.Type != TypeService
}

// CategoryPair devuelve el par (main, sub) del producto.
func (p Product) CategoryPair() (string, string) {
	return p.CategoryMain, p.CategorySub
}
