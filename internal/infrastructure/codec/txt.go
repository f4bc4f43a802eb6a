package codec

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// txtFieldCount es la firma del esquema TXT legado: exactamente cuatro
// campos posicionales `product_id|name|price|stock`. Extender el esquema es
// un cambio de formato incompatible y requiere una firma de detección
// distinta; nunca se mezcla con el esquema completo.
const txtFieldCount = 4

// decodeProductsTXT decodifica el TXT legado línea por línea, best-effort:
// las líneas malformadas se acumulan como FormatError con su número de línea
// y el resto del lote se carga igual.
func decodeProductsTXT(data []byte) ([]entity.Product, []*domain.FormatError, error) {
	var (
		products []entity.Product
		warns    []*domain.FormatError
	)
	for _, line := range stripComments(data) {
		fields := strings.Split(line.text, "|")
		if len(fields) != txtFieldCount {
			warns = append(warns, &domain.FormatError{
				Format: "txt",
				Line:   line.n,
				Record: -1,
				Reason: fmt.Sprintf("se esperaban %d campos, hay %d", txtFieldCount, len(fields)),
			})
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
		if err != nil {
			warns = append(warns, &domain.FormatError{
				Format: "txt",
				Line:   line.n,
				Record: -1,
				Reason: "precio inválido: " + fields[2],
			})
			continue
		}
		stock, err := cast.ToIntE(strings.TrimSpace(fields[3]))
		if err != nil {
			warns = append(warns, &domain.FormatError{
				Format: "txt",
				Line:   line.n,
				Record: -1,
				Reason: "stock inválido: " + fields[3],
			})
			continue
		}
		// El esquema legado no trae categoría ni tipo: converge al canónico
		// con el par centinela y tipo product.
		products = append(products, entity.Product{
			ProductID:    fields[0],
			Name:         fields[1],
			CategoryMain: entity.UncategorizedMain,
			CategorySub:  entity.UncategorizedSub,
			Type:         entity.TypeProduct,
			Price:        price,
			Stock:        stock,
		})
	}
	return products, warns, nil
}

// encodeProductsTXT emite una línea de cuatro campos por producto. Un campo
// que contiene el delimitador | produciría una línea que el decodificador
// rechaza, así que se rechaza al codificar para conservar el round-trip.
func encodeProductsTXT(products []entity.Product) ([]byte, error) {
	var b strings.Builder
	for i, p := range products {
		if strings.Contains(p.ProductID, "|") || strings.Contains(p.Name, "|") {
			return nil, &domain.FormatError{
				Format: "txt",
				Line:   -1,
				Record: i,
				Reason: "el campo contiene el delimitador |",
			}
		}
		fmt.Fprintf(&b, "%s|%s|%s|%d\n", p.ProductID, p.Name, p.Price.String(), p.Stock)
	}
	return []byte(b.String()), nil
}
