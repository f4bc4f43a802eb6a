package codec

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// yamlProduct refleja productRecord para yaml.v3. El precio viaja como
// escalar string para conservar el valor decimal exacto (yaml.v3 acepta
// igualmente escalares numéricos de archivos ajenos en un campo string).
type yamlProduct struct {
	ProductID    string `yaml:"product_id"`
	Name         string `yaml:"name"`
	CategoryMain string `yaml:"category_main"`
	CategorySub  string `yaml:"category_sub"`
	Type         string `yaml:"type"`
	Price        string `yaml:"price"`
	Stock        int    `yaml:"stock"`
	Unit         string `yaml:"unit,omitempty"`
	Description  string `yaml:"description,omitempty"`
}

// decodeProductsYAML decodifica una secuencia YAML de mappings. Un fallo de
// parseo o un precio inválido es fatal para el archivo completo.
func decodeProductsYAML(data []byte) ([]entity.Product, []*domain.FormatError, error) {
	var records []yamlProduct
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, nil, domain.NewFormatError("yaml", err.Error())
	}
	products := make([]entity.Product, 0, len(records))
	for i, r := range records {
		price := decimal.Zero
		if r.Price != "" {
			var err error
			price, err = decimal.NewFromString(r.Price)
			if err != nil {
				return nil, nil, &domain.FormatError{
					Format: "yaml",
					Line:   -1,
					Record: i,
					Reason: "precio inválido: " + r.Price,
				}
			}
		}
		typ := r.Type
		if typ == "" {
			typ = entity.TypeProduct
		}
		products = append(products, entity.Product{
			ProductID:    r.ProductID,
			Name:         r.Name,
			CategoryMain: r.CategoryMain,
			CategorySub:  r.CategorySub,
			Type:         typ,
			Price:        price,
			Stock:        r.Stock,
			Unit:         r.Unit,
			Description:  r.Description,
		})
	}
	return products, nil, nil
}

func encodeProductsYAML(products []entity.Product) ([]byte, error) {
	records := make([]yamlProduct, 0, len(products))
	for _, p := range products {
		records = append(records, yamlProduct{
			ProductID:    p.ProductID,
			Name:         p.Name,
			CategoryMain: p.CategoryMain,
			CategorySub:  p.CategorySub,
			Type:         p.Type,
			Price:        p.Price.String(),
			Stock:        p.Stock,
			Unit:         p.Unit,
			Description:  p.Description,
		})
	}
	return yaml.Marshal(records)
}
