package codec

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// decodeProductsJSON decodifica un array JSON de productos. Un fallo de
// parseo es fatal para el archivo completo: el esquema es estructural, no
// orientado a líneas.
func decodeProductsJSON(data []byte) ([]entity.Product, []*domain.FormatError, error) {
	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, domain.NewFormatError("json", err.Error())
	}
	products := make([]entity.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toEntity())
	}
	return products, nil, nil
}

func encodeProductsJSON(products []entity.Product) ([]byte, error) {
	records := make([]productRecord, 0, len(products))
	for _, p := range products {
		records = append(records, toRecord(p))
	}
	return json.MarshalIndent(records, "", "  ")
}
