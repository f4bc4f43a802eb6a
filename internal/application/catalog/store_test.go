package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newStore(t *testing.T, autoRegister bool) *catalog.RecordStore {
	t.Helper()
	registry := catalog.NewCategoryRegistry(catalog.DefaultTaxonomy())
	return catalog.NewRecordStore(registry, autoRegister)
}

func product(id string, stock int) entity.Product {
	return entity.Product{
		ProductID:    id,
		Name:         "Producto " + id,
		CategoryMain: "Beverages",
		CategorySub:  "Hot",
		Type:         entity.TypeProduct,
		Price:        decimal.RequireFromString("4.5"),
		Stock:        stock,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Upsert y validación
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsert_Valida(t *testing.T) {
	store := newStore(t, false)

	cases := []struct {
		name   string
		mutate func(*entity.Product)
		field  string
	}{
		{"sin id", func(p *entity.Product) { p.ProductID = "" }, "product_id"},
		{"sin nombre", func(p *entity.Product) { p.Name = "" }, "name"},
		{"precio negativo", func(p *entity.Product) { p.Price = decimal.RequireFromString("-1") }, "price"},
		{"stock negativo", func(p *entity.Product) { p.Stock = -1 }, "stock"},
		{"tipo desconocido", func(p *entity.Product) { p.Type = "combo" }, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := product("BEVE-0001", 10)
			tc.mutate(&p)
			err := store.Upsert(p)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Equal(t, 0, store.Len(), "ningún registro inválido debe quedar en el store")
}

func TestUpsert_CategoriaDesconocida(t *testing.T) {
	store := newStore(t, false)
	p := product("BEVE-0001", 10)
	p.CategoryMain = "Electronics"
	p.CategorySub = "Phones"

	err := store.Upsert(p)
	require.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestUpsert_AutoRegistroDeCategoria(t *testing.T) {
	// Con la política de alta implícita, un par desconocido se registra en
	// el momento en lugar de fallar.
	store := newStore(t, true)
	p := product("ELEC-0001", 10)
	p.CategoryMain = "Electronics"
	p.CategorySub = "Phones"

	require.NoError(t, store.Upsert(p))
	assert.True(t, store.Registry().Has("Electronics", "Phones"))
}

func TestUpsert_CategoriaVaciaUsaCentinela(t *testing.T) {
	store := newStore(t, false)
	p := product("BEVE-0001", 10)
	p.CategoryMain = ""
	p.CategorySub = ""

	require.NoError(t, store.Upsert(p))
	got, err := store.Find("BEVE-0001")
	require.NoError(t, err)
	assert.Equal(t, entity.UncategorizedMain, got.CategoryMain)
	assert.Equal(t, entity.UncategorizedSub, got.CategorySub)
}

func TestUpsert_MutaEnElLugar(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 10)))

	edited := product("BEVE-0001", 99)
	edited.Name = "Editado"
	require.NoError(t, store.Upsert(edited))

	assert.Equal(t, 1, store.Len(), "upsert del mismo ID no duplica")
	got, err := store.Find("BEVE-0001")
	require.NoError(t, err)
	assert.Equal(t, "Editado", got.Name)
	assert.Equal(t, 99, got.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete y BatchDelete
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchDelete_TodoONada(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 10)))
	require.NoError(t, store.Upsert(product("BEVE-0002", 10)))

	err := store.BatchDelete([]string{"BEVE-0001", "NO-EXISTE"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, store.Len(), "un ID inexistente cancela el lote completo")

	require.NoError(t, store.BatchDelete([]string{"BEVE-0001", "BEVE-0002"}))
	assert.Equal(t, 0, store.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// Bajo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestListLowStock_Umbral(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 5))) // en el umbral
	require.NoError(t, store.Upsert(product("BEVE-0002", 6))) // justo arriba
	require.NoError(t, store.Upsert(product("BEVE-0003", 0)))

	low := store.ListLowStock()
	require.Len(t, low, 2)
	assert.Equal(t, "BEVE-0001", low[0].ProductID)
	assert.Equal(t, "BEVE-0003", low[1].ProductID)
	for _, p := range low {
		assert.True(t, p.LowStock())
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordSale: chequear-luego-aplicar atómico
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_DescuentaStock(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 10)))

	sale, err := store.RecordSale(entity.Sale{
		Items: []entity.SaleItem{
			{ProductID: "BEVE-0001", Quantity: 3, UnitPrice: decimal.RequireFromString("4.5")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sale.TransactionID, "se asigna un transaction_id")
	assert.False(t, sale.Timestamp.IsZero())
	assert.True(t, decimal.RequireFromString("13.5").Equal(sale.Total))

	got, err := store.Find("BEVE-0001")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.Len(t, store.Sales(), 1)
}

func TestRecordSale_InsuficienteNoAplicaNada(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 20)))
	require.NoError(t, store.Upsert(product("BEVE-0002", 5)))

	// La segunda línea pide 10 con stock 5: la venta entera se rechaza y
	// ningún descuento (tampoco el de la primera línea) se aplica.
	_, err := store.RecordSale(entity.Sale{
		Items: []entity.SaleItem{
			{ProductID: "BEVE-0001", Quantity: 2, UnitPrice: decimal.RequireFromString("1")},
			{ProductID: "BEVE-0002", Quantity: 10, UnitPrice: decimal.RequireFromString("1")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p1, _ := store.Find("BEVE-0001")
	p2, _ := store.Find("BEVE-0002")
	assert.Equal(t, 20, p1.Stock)
	assert.Equal(t, 5, p2.Stock)
	assert.Empty(t, store.Sales())
}

func TestRecordSale_TotalNoReproducible(t *testing.T) {
	store := newStore(t, false)
	require.NoError(t, store.Upsert(product("BEVE-0001", 10)))

	_, err := store.RecordSale(entity.Sale{
		Items: []entity.SaleItem{
			{ProductID: "BEVE-0001", Quantity: 1, UnitPrice: decimal.RequireFromString("4.5")},
		},
		Total: decimal.RequireFromString("99"),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "total", verr.Field)
}

func TestRecordSale_VentaVacia(t *testing.T) {
	store := newStore(t, false)
	_, err := store.RecordSale(entity.Sale{})
	require.ErrorIs(t, err, domain.ErrEmptySale)
}
