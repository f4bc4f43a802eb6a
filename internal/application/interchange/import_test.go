package interchange_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/application/interchange"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubReader implementa interchange.ProductReader con una colección fija,
// como si viniera de un archivo IMS ya decodificado.
type stubReader struct {
	products []entity.Product
	warns    []error
	err      error
}

func (s *stubReader) ReadProducts(string) ([]entity.Product, []error, error) {
	return s.products, s.warns, s.err
}

// stubWriter implementa interchange.ProductWriter capturando lo escrito.
type stubWriter struct {
	path    string
	written []entity.Product
}

func (s *stubWriter) WriteProducts(path string, products []entity.Product) error {
	s.path = path
	s.written = products
	return nil
}

func imsProduct(id, name string) entity.Product {
	return entity.Product{
		ProductID:    id,
		Name:         name,
		CategoryMain: "Consumables",
		CategorySub:  "Supplies",
		Type:         entity.TypeProduct,
		Price:        decimal.RequireFromString("2"),
		Stock:        5,
	}
}

func testStore(t *testing.T) *catalog.RecordStore {
	t.Helper()
	store := catalog.NewRecordStore(catalog.NewCategoryRegistry(catalog.DefaultTaxonomy()), true)
	require.NoError(t, store.Upsert(imsProduct("CONS-0001", "Local")))
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Stage y diff
// ──────────────────────────────────────────────────────────────────────────────

func TestStage_NoMutaElStore(t *testing.T) {
	store := testStore(t)
	reader := &stubReader{products: []entity.Product{imsProduct("CONS-0009", "Nuevo")}}
	importer := interchange.NewImporter(reader, store)

	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)
	assert.Len(t, staging.Products, 1)
	assert.Equal(t, 1, store.Len(), "stage no aplica nada")
}

func TestDiff_SeparaFrescosDeColisiones(t *testing.T) {
	store := testStore(t)
	reader := &stubReader{products: []entity.Product{
		imsProduct("CONS-0001", "Remoto"), // colisión
		imsProduct("CONS-0002", "Fresco"),
	}}
	importer := interchange.NewImporter(reader, store)
	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)

	fresh, conflicts := importer.Diff(staging)
	require.Len(t, fresh, 1)
	assert.Equal(t, "CONS-0002", fresh[0].ProductID)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Local", conflicts[0].Current.Name)
	assert.Equal(t, "Remoto", conflicts[0].Incoming.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply: decisión explícita por colisión
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_DefaultSkipConservaLoLocal(t *testing.T) {
	store := testStore(t)
	reader := &stubReader{products: []entity.Product{
		imsProduct("CONS-0001", "Remoto"),
		imsProduct("CONS-0002", "Fresco"),
	}}
	importer := interchange.NewImporter(reader, store)
	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)

	res, err := importer.Apply(context.Background(), staging, interchange.MergePlan{})
	require.NoError(t, err)
	assert.Equal(t, interchange.MergeResult{Added: 1, Skipped: 1}, res)

	got, _ := store.Find("CONS-0001")
	assert.Equal(t, "Local", got.Name, "sin decisión explícita nunca se pisa lo local")
}

func TestApply_OverwriteYRename(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Upsert(imsProduct("CONS-0002", "Local2")))
	reader := &stubReader{products: []entity.Product{
		imsProduct("CONS-0001", "Remoto1"),
		imsProduct("CONS-0002", "Remoto2"),
	}}
	importer := interchange.NewImporter(reader, store)
	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)

	res, err := importer.Apply(context.Background(), staging, interchange.MergePlan{
		Decisions: map[string]interchange.Decision{
			"CONS-0001": interchange.DecisionOverwrite,
			"CONS-0002": interchange.DecisionRename,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, interchange.MergeResult{Overwritten: 1, Renamed: 1}, res)

	over, _ := store.Find("CONS-0001")
	assert.Equal(t, "Remoto1", over.Name)

	// El renombrado conserva ambos: el local intacto y el entrante con un
	// ID nuevo del mismo prefijo.
	local, _ := store.Find("CONS-0002")
	assert.Equal(t, "Local2", local.Name)
	renamed, err := store.Find("CONS-0003")
	require.NoError(t, err)
	assert.Equal(t, "Remoto2", renamed.Name)
}

func TestApply_RegistroInvalidoNoDejaEstadoParcial(t *testing.T) {
	// Un archivo ajeno con un registro inválido (precio negativo) rechaza el
	// merge completo: los registros válidos anteriores tampoco se aplican.
	store := catalog.NewRecordStore(catalog.NewCategoryRegistry(catalog.DefaultTaxonomy()), true)
	bad := imsProduct("CONS-0002", "Roto")
	bad.Price = decimal.RequireFromString("-1")
	reader := &stubReader{products: []entity.Product{
		imsProduct("CONS-0001", "Bueno"),
		bad,
	}}
	importer := interchange.NewImporter(reader, store)
	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)

	res, err := importer.Apply(context.Background(), staging, interchange.MergePlan{})
	require.Error(t, err)
	assert.Equal(t, interchange.MergeResult{}, res)
	assert.Equal(t, 0, store.Len(), "un merge fallido no aplica ningún registro")
}

func TestApply_CancelacionAntesDelCommit(t *testing.T) {
	store := testStore(t)
	reader := &stubReader{products: []entity.Product{imsProduct("CONS-0002", "Fresco")}}
	importer := interchange.NewImporter(reader, store)
	staging, err := importer.Stage("ims.csv")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = importer.Apply(ctx, staging, interchange.MergePlan{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.Len(), "cancelado antes del commit: nada aplicado")
}

func TestStage_PropagaErrorDeLectura(t *testing.T) {
	reader := &stubReader{err: errors.New("disco roto")}
	importer := interchange.NewImporter(reader, testStore(t))
	_, err := importer.Stage("ims.csv")
	require.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export IMS: solo ítems tangibles
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_ExcluyeServicios(t *testing.T) {
	store := testStore(t)
	service := imsProduct("SERV-0001", "Delivery")
	service.CategoryMain = "Services"
	service.CategorySub = "General"
	service.Type = entity.TypeService
	require.NoError(t, store.Upsert(service))

	writer := &stubWriter{}
	exporter := interchange.NewExporter(writer, store)
	n, err := exporter.Export("ims_export.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ims_export.csv", writer.path)
	require.Len(t, writer.written, 1)
	assert.Equal(t, "CONS-0001", writer.written[0].ProductID)
}
