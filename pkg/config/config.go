package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	Data  DataConfig
	Sales SalesConfig
	Log   LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DataConfig rutas y políticas de la capa de persistencia.
type DataConfig struct {
	Dir            string // directorio base de datos
	ProductsFile   string // archivo activo inicial de productos
	SalesFile      string // historial de ventas (JSON append-only)
	CategoriesFile string // taxonomía (custom_categories.json)
	BackupDir      string // respaldos con timestamp
	AutoRegister   bool   // alta implícita de categorías en upsert
}

// SalesConfig parámetros del cierre de venta.
type SalesConfig struct {
	TaxRate string // tasa de impuesto como decimal, ej. "0.19"
}

// LogConfig configuración del logger.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// ProductsPath devuelve la ruta absoluta del archivo de productos.
func (c DataConfig) ProductsPath() string {
	return filepath.Join(c.Dir, c.ProductsFile)
}

// SalesPath devuelve la ruta absoluta del historial de ventas.
func (c DataConfig) SalesPath() string {
	return filepath.Join(c.Dir, c.SalesFile)
}

// CategoriesPath devuelve la ruta absoluta del archivo de categorías.
func (c DataConfig) CategoriesPath() string {
	return filepath.Join(c.Dir, c.CategoriesFile)
}

// BackupPath devuelve la ruta absoluta del directorio de respaldos.
func (c DataConfig) BackupPath() string {
	return filepath.Join(c.Dir, c.BackupDir)
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad. Nombres esperados:
// APP_ENV, POS_DATA_DIR, POS_PRODUCTS_FILE, POS_TAX_RATE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "punto-venta"),
		},
		Data: DataConfig{
			Dir:            getString(v, "POS_DATA_DIR", "data"),
			ProductsFile:   getString(v, "POS_PRODUCTS_FILE", "products.json"),
			SalesFile:      getString(v, "POS_SALES_FILE", "sales.json"),
			CategoriesFile: getString(v, "POS_CATEGORIES_FILE", "custom_categories.json"),
			BackupDir:      getString(v, "POS_BACKUP_DIR", "backups"),
			AutoRegister:   getBool(v, "POS_AUTO_REGISTER_CATEGORY", true),
		},
		Sales: SalesConfig{
			TaxRate: getString(v, "POS_TAX_RATE", "0"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return cast.ToBool(v.Get(key))
	}
	return def
}
