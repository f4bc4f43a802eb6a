// Package codec implementa la codificación y decodificación de colecciones
// de registros entre los formatos de archivo soportados (JSON, TXT legado,
// CSV, YAML) y la forma canónica en memoria (entidades del dominio).
//
// Dos rutas de decodificación convergen en la misma forma canónica: el
// esquema legado TXT de cuatro campos posicionales y el esquema completo
// derivado de JSON (compartido por CSV y YAML). El esquema legado nunca se
// filtra al modelo canónico como campos opcionales.
package codec

import (
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// Kind identifica un formato de archivo soportado. Es un enum cerrado: la
// detección es una función pura y exhaustiva, no un registro de plugins.
type Kind int

const (
	KindUnknown Kind = iota
	KindJSON
	KindTXT
	KindCSV
	KindYAML
)

// String devuelve el nombre corto del formato (coincide con FormatError.Format).
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindTXT:
		return "txt"
	case KindCSV:
		return "csv"
	case KindYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Ext devuelve la extensión de archivo canónica del formato, con punto.
func (k Kind) Ext() string {
	switch k {
	case KindJSON:
		return ".json"
	case KindTXT:
		return ".txt"
	case KindCSV:
		return ".csv"
	case KindYAML:
		return ".yaml"
	default:
		return ""
	}
}

// DecodeProducts decodifica una colección de productos en el formato dado.
//
// TXT es orientado a líneas: las líneas malformadas se omiten y se devuelven
// como FormatError acumulados (carga parcial best-effort). JSON, YAML y CSV
// son estructurales: un fallo de parseo es fatal para el archivo completo.
func DecodeProducts(kind Kind, data []byte) ([]entity.Product, []*domain.FormatError, error) {
	switch kind {
	case KindJSON:
		return decodeProductsJSON(data)
	case KindTXT:
		return decodeProductsTXT(data)
	case KindCSV:
		return decodeProductsCSV(data)
	case KindYAML:
		return decodeProductsYAML(data)
	default:
		return nil, nil, domain.ErrUnknownFormat
	}
}

// EncodeProducts codifica la colección canónica en el formato dado.
// Es la inversa por la izquierda de DecodeProducts: decode(encode(R)) == R
// para todo conjunto válido, excluyendo propiedades derivadas (low_stock).
func EncodeProducts(kind Kind, products []entity.Product) ([]byte, error) {
	switch kind {
	case KindJSON:
		return encodeProductsJSON(products)
	case KindTXT:
		return encodeProductsTXT(products)
	case KindCSV:
		return encodeProductsCSV(products)
	case KindYAML:
		return encodeProductsYAML(products)
	default:
		return nil, domain.ErrUnknownFormat
	}
}
