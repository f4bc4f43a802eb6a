package codec

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// productRecord es la representación de transferencia del esquema completo
// (JSON/CSV). Los nombres de campo son el contrato de archivo; low_stock es
// derivado y nunca se serializa.
type productRecord struct {
	ProductID    string          `json:"product_id" csv:"product_id"`
	Name         string          `json:"name" csv:"name"`
	CategoryMain string          `json:"category_main" csv:"category_main"`
	CategorySub  string          `json:"category_sub" csv:"category_sub"`
	Type         string          `json:"type" csv:"type"`
	Price        decimal.Decimal `json:"price" csv:"price"`
	Stock        int             `json:"stock" csv:"stock"`
	Unit         string          `json:"unit,omitempty" csv:"unit"`
	Description  string          `json:"description,omitempty" csv:"description"`
}

func (r productRecord) toEntity() entity.Product {
	typ := r.Type
	if typ == "" {
		typ = entity.TypeProduct
	}
	return entity.Product{
		ProductID:    r.ProductID,
		Name:         r.Name,
		CategoryMain: r.CategoryMain,
		CategorySub:  r.CategorySub,
		Type:         typ,
		Price:        r.Price,
		Stock:        r.Stock,
		Unit:         r.Unit,
		Description:  r.Description,
	}
}

func toRecord(p entity.Product) productRecord {
	return productRecord{
		ProductID:    p.ProductID,
		Name:         p.Name,
		CategoryMain: p.CategoryMain,
		CategorySub:  p.CategorySub,
		Type:         p.Type,
		Price:        p.Price,
		Stock:        p.Stock,
		Unit:         p.Unit,
		Description:  p.Description,
	}
}

// stripComments elimina líneas en blanco y líneas de comentario (prefijo #)
// de los formatos orientados a líneas (TXT/CSV). Devuelve las líneas
// restantes junto con su número de línea original (1-based).
type numberedLine struct {
	n    int
	text string
}

func stripComments(data []byte) []numberedLine {
	var out []numberedLine
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, numberedLine{n: i + 1, text: line})
	}
	return out
}
