package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
	"github.com/tu-usuario/punto-venta/internal/infrastructure/filestore"
	"github.com/tu-usuario/punto-venta/pkg/config"
	"github.com/tu-usuario/punto-venta/pkg/logger"
)

func testEnv(t *testing.T) (*config.Config, *filestore.Gateway, *catalog.CategoryRegistry, *catalog.RecordStore) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "development", Name: "punto-venta"},
		Data: config.DataConfig{
			Dir:            t.TempDir(),
			ProductsFile:   "products.json",
			SalesFile:      "sales.json",
			CategoriesFile: "custom_categories.json",
			BackupDir:      "backups",
			AutoRegister:   true,
		},
		Sales: config.SalesConfig{TaxRate: "0.19"},
		Log:   config.LogConfig{Level: "error"},
	}
	gateway := filestore.NewGateway(logger.Nop(), cfg.Data.BackupPath(), cfg.Data.AutoRegister)
	registry := catalog.NewCategoryRegistry(catalog.DefaultTaxonomy())
	store := catalog.NewRecordStore(registry, true)
	require.NoError(t, store.Upsert(entity.Product{
		ProductID:    "BEVE-0001",
		Name:         "Cafe Latte",
		CategoryMain: "Beverages",
		CategorySub:  "Hot",
		Type:         entity.TypeProduct,
		Price:        decimal.RequireFromString("4.5"),
		Stock:        10,
	}))
	return cfg, gateway, registry, store
}

func TestRun_Sell(t *testing.T) {
	cfg, gateway, registry, store := testEnv(t)

	err := run("sell", []string{"BEVE-0001", "2", "20"}, cfg, logger.Nop(), gateway, registry, store)
	require.NoError(t, err)

	got, err := store.Find("BEVE-0001")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
	require.Len(t, store.Sales(), 1)
	assert.True(t, decimal.RequireFromString("10.71").Equal(store.Sales()[0].Total))

	// La venta persiste catálogo e historial.
	_, err = os.Stat(cfg.Data.ProductsPath())
	require.NoError(t, err)
	_, err = os.Stat(cfg.Data.SalesPath())
	require.NoError(t, err)
}

func TestRun_Load(t *testing.T) {
	cfg, gateway, registry, store := testEnv(t)
	path := filepath.Join(cfg.Data.Dir, "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte("prod_1|Agua|1.0|50\n"), 0o644))

	err := run("load", []string{path}, cfg, logger.Nop(), gateway, registry, store)
	require.NoError(t, err)
	assert.Equal(t, path, gateway.ActiveFile())
}

func TestRun_ComandoDesconocido(t *testing.T) {
	cfg, gateway, registry, store := testEnv(t)
	err := run("nada", nil, cfg, logger.Nop(), gateway, registry, store)
	require.Error(t, err)
}
