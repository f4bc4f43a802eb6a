package codec

import (
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// categoryRecord es la representación de archivo de un par de la taxonomía
// (custom_categories.json). Color e Icon son metadatos de presentación pero
// deben sobrevivir el round-trip.
type categoryRecord struct {
	Main  string `json:"main"`
	Sub   string `json:"sub"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// DecodeCategories decodifica el archivo de categorías (array JSON).
func DecodeCategories(data []byte) ([]entity.Category, error) {
	var records []categoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewFormatError("json", err.Error())
	}
	cats := make([]entity.Category, 0, len(records))
	for _, r := range records {
		cats = append(cats, entity.Category{Main: r.Main, Sub: r.Sub, Color: r.Color, Icon: r.Icon})
	}
	return cats, nil
}

// EncodeCategories codifica la taxonomía como array JSON.
func EncodeCategories(cats []entity.Category) ([]byte, error) {
	records := make([]categoryRecord, 0, len(cats))
	for _, c := range cats {
		records = append(records, categoryRecord{Main: c.Main, Sub: c.Sub, Color: c.Color, Icon: c.Icon})
	}
	return json.MarshalIndent(records, "", "  ")
}
