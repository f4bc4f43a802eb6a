package codec

import (
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// decodeProductsCSV decodifica un CSV con fila de encabezado que coincide
// con los nombres de campo del producto. Las líneas en blanco y los
// comentarios (#) se descartan antes de parsear. El esquema CSV es dirigido
// por encabezado (estructural): un fallo de parseo es fatal para el archivo,
// igual que JSON/YAML.
func decodeProductsCSV(data []byte) ([]entity.Product, []*domain.FormatError, error) {
	lines := stripComments(data)
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.text)
	}
	var records []productRecord
	if err := gocsv.UnmarshalString(strings.Join(texts, "\n"), &records); err != nil {
		return nil, nil, domain.NewFormatError("csv", err.Error())
	}
	products := make([]entity.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toEntity())
	}
	return products, nil, nil
}

func encodeProductsCSV(products []entity.Product) ([]byte, error) {
	records := make([]productRecord, 0, len(products))
	for _, p := range products {
		records = append(records, toRecord(p))
	}
	out, err := gocsv.MarshalString(&records)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
