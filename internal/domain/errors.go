package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("registro no encontrado")
	ErrDuplicateID         = errors.New("product_id duplicado")
	ErrUnknownCategory     = errors.New("categoría desconocida")
	ErrCategoryInUse       = errors.New("categoría en uso por productos")
	ErrDuplicateCategory   = errors.New("el par de categoría ya existe")
	ErrAllocationExhausted = errors.New("secuencia de IDs agotada para el prefijo")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrUnknownFormat       = errors.New("formato de archivo no reconocido")
	ErrEmptySale           = errors.New("la venta no tiene ítems")
	ErrInsufficientPayment = errors.New("efectivo entregado menor al total")
)

// FormatError describe contenido malformado en un archivo de datos.
// Line es 1-based para formatos orientados a líneas (TXT/CSV); Record es el
// índice 0-based del registro para formatos estructurales (JSON/YAML).
// Line o Record en -1 significa "no aplica".
type FormatError struct {
	Format string // json, txt, csv, yaml
	Line   int
	Record int
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line >= 0:
		return fmt.Sprintf("formato %s: línea %d: %s", e.Format, e.Line, e.Reason)
	case e.Record >= 0:
		return fmt.Sprintf("formato %s: registro %d: %s", e.Format, e.Record, e.Reason)
	default:
		return fmt.Sprintf("formato %s: %s", e.Format, e.Reason)
	}
}

// NewFormatError construye un FormatError estructural (sin posición).
func NewFormatError(format, reason string) *FormatError {
	return &FormatError{Format: format, Line: -1, Record: -1, Reason: reason}
}

// ValidationError describe la violación de una restricción a nivel de campo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s: %s", e.Field, e.Reason)
}
