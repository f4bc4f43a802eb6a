package codec

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// saleRecord es la representación de archivo de una venta. Las ventas se
// persisten solo en JSON (array append-only, nunca reescrito salvo re-save
// completo).
type saleRecord struct {
	TransactionID string           `json:"transaction_id"`
	Timestamp     string           `json:"timestamp"`
	LineItems     []saleItemRecord `json:"line_items"`
	Payment       paymentRecord    `json:"payment"`
	Total         decimal.Decimal  `json:"total"`
}

type saleItemRecord struct {
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
}

type paymentRecord struct {
	Tendered decimal.Decimal `json:"tendered"`
	Change   decimal.Decimal `json:"change"`
	Tax      decimal.Decimal `json:"tax"`
}

// DecodeSales decodifica el archivo de ventas (array JSON). El timestamp se
// parsea como RFC 3339; para archivos ajenos con otros formatos de fecha se
// recurre a dateparse antes de declarar el registro malformado.
func DecodeSales(data []byte) ([]entity.Sale, error) {
	var records []saleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewFormatError("json", err.Error())
	}
	sales := make([]entity.Sale, 0, len(records))
	for i, r := range records {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			ts, err = dateparse.ParseAny(r.Timestamp)
			if err != nil {
				return nil, &domain.FormatError{
					Format: "json",
					Line:   -1,
					Record: i,
					Reason: "timestamp inválido: " + r.Timestamp,
				}
			}
		}
		items := make([]entity.SaleItem, 0, len(r.LineItems))
		for _, it := range r.LineItems {
			items = append(items, entity.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPriceAtSale,
			})
		}
		sales = append(sales, entity.Sale{
			TransactionID: r.TransactionID,
			Timestamp:     ts,
			Items:         items,
			Payment: entity.Payment{
				Tendered: r.Payment.Tendered,
				Change:   r.Payment.Change,
				Tax:      r.Payment.Tax,
			},
			Total: r.Total,
		})
	}
	return sales, nil
}

// EncodeSales codifica las ventas como array JSON con timestamps RFC 3339.
func EncodeSales(sales []entity.Sale) ([]byte, error) {
	records := make([]saleRecord, 0, len(sales))
	for _, s := range sales {
		items := make([]saleItemRecord, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, saleItemRecord{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitPriceAtSale: it.UnitPrice,
			})
		}
		records = append(records, saleRecord{
			TransactionID: s.TransactionID,
			Timestamp:     s.Timestamp.Format(time.RFC3339),
			LineItems:     items,
			Payment: paymentRecord{
				Tendered: s.Payment.Tendered,
				Change:   s.Payment.Change,
				Tax:      s.Payment.Tax,
			},
			Total: s.Total,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}
