package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/tu-usuario/punto-venta/internal/application/analytics"
	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/application/checkout"
	"github.com/tu-usuario/punto-venta/internal/application/interchange"
	"github.com/tu-usuario/punto-venta/internal/infrastructure/filestore"
	"github.com/tu-usuario/punto-venta/pkg/config"
	"github.com/tu-usuario/punto-venta/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	gateway := filestore.NewGateway(log, cfg.Data.BackupPath(), cfg.Data.AutoRegister)
	registry := gateway.LoadCategories(cfg.Data.CategoriesPath())

	store, warns, err := gateway.Load(cfg.Data.ProductsPath(), registry)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.ProductsPath()).Msg("cargar productos")
	}
	for _, w := range warns {
		log.Warn().Err(w).Msg("registro omitido en la carga")
	}
	if err := gateway.LoadSales(cfg.Data.SalesPath(), store); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.SalesPath()).Msg("cargar ventas")
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], cfg, log, gateway, registry, store); err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("comando fallido")
	}
}

func run(
	cmd string,
	args []string,
	cfg *config.Config,
	log *logger.Logger,
	gateway *filestore.Gateway,
	registry *catalog.CategoryRegistry,
	store *catalog.RecordStore,
) error {
	switch cmd {
	case "load":
		if len(args) < 1 {
			return fmt.Errorf("load requiere archivo de origen")
		}
		loaded, warns, err := gateway.Load(args[0], registry)
		if err != nil {
			return err
		}
		for _, w := range warns {
			log.Warn().Err(w).Msg("registro omitido en la carga")
		}
		fmt.Printf("%d productos cargados desde %s\n", loaded.Len(), args[0])
		return nil

	case "save":
		path := cfg.Data.ProductsPath()
		if len(args) > 0 {
			path = args[0]
		}
		return gateway.Save(store, registry, path)

	case "convert":
		if len(args) < 1 {
			return fmt.Errorf("convert requiere archivo de destino")
		}
		return gateway.Save(store, registry, args[0])

	case "sell":
		if len(args) < 3 {
			return fmt.Errorf("sell requiere producto, cantidad y efectivo")
		}
		qty, err := cast.ToIntE(args[1])
		if err != nil {
			return fmt.Errorf("cantidad inválida: %w", err)
		}
		tendered, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("efectivo inválido: %w", err)
		}
		rate, err := decimal.NewFromString(cfg.Sales.TaxRate)
		if err != nil {
			return fmt.Errorf("POS_TAX_RATE inválida: %w", err)
		}
		cart := checkout.NewCart(store)
		if err := cart.Add(args[0], qty); err != nil {
			return err
		}
		sale, err := cart.Checkout(tendered, rate)
		if err != nil {
			return err
		}
		fmt.Printf("venta %s  total=%s  vuelto=%s\n", sale.TransactionID, sale.Total, sale.Payment.Change)
		if err := gateway.Save(store, registry, cfg.Data.ProductsPath()); err != nil {
			return err
		}
		return gateway.SaveSales(cfg.Data.SalesPath(), store)

	case "low-stock":
		for _, p := range store.ListLowStock() {
			fmt.Printf("%s  %-30s stock=%d\n", p.ProductID, p.Name, p.Stock)
		}
		return nil

	case "import":
		if len(args) < 1 {
			return fmt.Errorf("import requiere archivo de origen")
		}
		importer := interchange.NewImporter(gateway, store)
		staging, err := importer.Stage(args[0])
		if err != nil {
			return err
		}
		for _, w := range staging.Warnings {
			log.Warn().Err(w).Msg("registro omitido en staging")
		}
		res, err := importer.Apply(context.Background(), staging, interchange.MergePlan{
			Default: interchange.DecisionSkip,
		})
		if err != nil {
			return err
		}
		log.Info().
			Int("added", res.Added).
			Int("skipped", res.Skipped).
			Msg("import aplicado")
		if err := gateway.Save(store, registry, cfg.Data.ProductsPath()); err != nil {
			return err
		}
		return gateway.SaveCategories(cfg.Data.CategoriesPath(), registry)

	case "export-ims":
		if len(args) < 1 {
			return fmt.Errorf("export-ims requiere archivo de destino")
		}
		exporter := interchange.NewExporter(gateway, store)
		n, err := exporter.Export(args[0])
		if err != nil {
			return err
		}
		log.Info().Int("records", n).Str("path", args[0]).Msg("export IMS emitido")
		return nil

	case "report":
		agg := analytics.NewAggregator(store.Snapshot())
		fmt.Println("Top ventas:")
		for _, s := range agg.TopSellers(10) {
			fmt.Printf("  %-12s %-30s x%-5d %s\n", s.ProductID, s.Name, s.Quantity, s.Revenue)
		}
		fmt.Println("Ventas por tipo:")
		for _, s := range agg.SalesByType() {
			fmt.Printf("  %-10s x%-5d %s\n", s.Type, s.Quantity, s.Revenue)
		}
		fmt.Println("Ventas por día (UTC):")
		for _, s := range agg.SalesByDay() {
			fmt.Printf("  %s  ventas=%-4d %s\n", s.Date, s.Count, s.Revenue)
		}
		return nil

	case "tax-rate":
		// chequeo rápido de la tasa configurada
		rate, err := decimal.NewFromString(cfg.Sales.TaxRate)
		if err != nil {
			return fmt.Errorf("POS_TAX_RATE inválida: %w", err)
		}
		fmt.Println(rate)
		return nil

	default:
		usage()
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `uso: pos <comando> [args]

comandos:
  load <archivo>        carga un archivo de productos y lo deja activo
  save [archivo]        guarda el catálogo (por defecto el archivo activo)
  convert <archivo>     guarda el catálogo en otro formato según extensión
  sell <id> <cant> <efectivo>  cierra una venta en efectivo
  low-stock             lista productos en punto de reposición
  import <archivo>      importa un archivo ajeno (colisiones: skip)
  export-ims <archivo>  exporta los ítems tangibles para el IMS
  report                resúmenes de ventas
  tax-rate              muestra la tasa de impuesto configurada`)
}
