// Package filestore implementa la puerta de persistencia sobre disco local:
// detección de formato, ciclos load/save con reemplazo atómico, respaldo con
// timestamp antes de sobrescribir, y el estado de sesión "archivo activo".
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tu-usuario/punto-venta/internal/application/catalog"
	"github.com/tu-usuario/punto-venta/internal/domain"
	"github.com/tu-usuario/punto-venta/internal/domain/entity"
	"github.com/tu-usuario/punto-venta/internal/infrastructure/codec"
	"github.com/tu-usuario/punto-venta/pkg/logger"
)

// Gateway orquesta los ciclos de carga y guardado. ActiveFile es estado de
// sesión explícito: la ruta del último load o save de productos exitoso,
// reseteado solo por esas dos operaciones.
type Gateway struct {
	log          *logger.Logger
	backupDir    string
	autoRegister bool
	activeFile   string
}

// NewGateway construye la puerta. autoRegister es la política de alta
// implícita de categorías que heredan los stores creados por Load.
func NewGateway(log *logger.Logger, backupDir string, autoRegister bool) *Gateway {
	return &Gateway{log: log, backupDir: backupDir, autoRegister: autoRegister}
}

// ActiveFile devuelve la ruta de productos actualmente activa, vacía si
// todavía no hubo load ni save exitoso.
func (g *Gateway) ActiveFile() string {
	return g.activeFile
}

// ReadProducts decodifica un archivo de productos sin tocar ningún store:
// detecta el formato y devuelve la colección canónica junto con los errores
// por registro recolectados (líneas TXT malformadas).
func (g *Gateway) ReadProducts(path string) ([]entity.Product, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("leer %s: %w", path, err)
	}
	kind, err := codec.Detect(path, data)
	if err != nil {
		return nil, nil, fmt.Errorf("detectar formato de %s: %w", path, err)
	}
	products, formatWarns, err := codec.DecodeProducts(kind, data)
	if err != nil {
		return nil, nil, err
	}
	warns := make([]error, 0, len(formatWarns))
	for _, w := range formatWarns {
		warns = append(warns, w)
	}
	return products, warns, nil
}

// WriteProducts codifica la colección en el formato que indica la extensión
// de la ruta y la escribe con reemplazo atómico y respaldo previo.
func (g *Gateway) WriteProducts(path string, products []entity.Product) error {
	kind, err := codec.Detect(path, nil)
	if err != nil {
		return fmt.Errorf("formato de destino de %s: %w", path, err)
	}
	data, err := codec.EncodeProducts(kind, products)
	if err != nil {
		return err
	}
	return g.writeAtomic(path, data)
}

// Load carga un archivo de productos en un RecordStore nuevo validado contra
// el registro dado. Las líneas malformadas y los registros que no pasan
// validación (incluidos product_id duplicados dentro del archivo) se
// recolectan como warnings con su contexto; solo un fallo estructural
// (JSON/YAML/CSV inválido) aborta la carga completa.
func (g *Gateway) Load(path string, registry *catalog.CategoryRegistry) (*catalog.RecordStore, []error, error) {
	products, warns, err := g.ReadProducts(path)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewRecordStore(registry, g.autoRegister)
	for i, p := range products {
		if store.Has(p.ProductID) {
			warns = append(warns, fmt.Errorf("registro %d: %w: %s", i, domain.ErrDuplicateID, p.ProductID))
			continue
		}
		if err := store.Upsert(p); err != nil {
			warns = append(warns, fmt.Errorf("registro %d (%s): %w", i, p.ProductID, err))
		}
	}
	g.activeFile = path
	g.log.Info().Str("path", path).Int("products", store.Len()).Int("warnings", len(warns)).
		Msg("archivo de productos cargado")
	return store, warns, nil
}

// Save serializa el snapshot del store al destino con reemplazo atómico.
// El snapshot se toma al invocar, así un guardado en segundo plano no corre
// contra una edición en proceso. Todo par de categoría referenciado debe
// existir en el registro al momento del guardado: una referencia huérfana
// (por ejemplo tras recargar la taxonomía a mitad de sesión) rechaza el save
// completo antes de tocar el disco. Ante cualquier error de validación,
// codificación o escritura el archivo original queda intacto.
func (g *Gateway) Save(store *catalog.RecordStore, registry *catalog.CategoryRegistry, path string) error {
	products, _ := store.Snapshot()
	for _, p := range products {
		if !registry.Has(p.CategoryMain, p.CategorySub) {
			return fmt.Errorf("guardar %s: %w: %s/%s (referencia huérfana de %s)",
				path, domain.ErrUnknownCategory, p.CategoryMain, p.CategorySub, p.ProductID)
		}
	}
	if err := g.WriteProducts(path, products); err != nil {
		return err
	}
	g.activeFile = path
	g.log.Info().Str("path", path).Int("products", len(products)).Msg("archivo de productos guardado")
	return nil
}

// LoadSales hidrata la secuencia de ventas del store desde el archivo JSON.
// Un archivo inexistente no es un error: el historial arranca vacío.
func (g *Gateway) LoadSales(path string, store *catalog.RecordStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("leer %s: %w", path, err)
	}
	sales, err := codec.DecodeSales(data)
	if err != nil {
		return err
	}
	store.RestoreSales(sales)
	return nil
}

// SaveSales escribe el historial completo de ventas (re-save total; el
// archivo nunca se reescribe parcialmente) con la misma semántica atómica.
func (g *Gateway) SaveSales(path string, store *catalog.RecordStore) error {
	_, sales := store.Snapshot()
	data, err := codec.EncodeSales(sales)
	if err != nil {
		return err
	}
	return g.writeAtomic(path, data)
}

// LoadCategories carga la taxonomía desde su archivo propio. Un archivo
// faltante o corrupto no es fatal: se cae a la taxonomía incorporada y se
// deja una advertencia recuperable en el log.
func (g *Gateway) LoadCategories(path string) *catalog.CategoryRegistry {
	data, err := os.ReadFile(path)
	if err != nil {
		g.log.Warn().Err(err).Str("path", path).
			Msg("archivo de categorías no disponible, usando taxonomía por defecto")
		return catalog.NewCategoryRegistry(catalog.DefaultTaxonomy())
	}
	cats, err := codec.DecodeCategories(data)
	if err != nil {
		g.log.Warn().Err(err).Str("path", path).
			Msg("archivo de categorías corrupto, usando taxonomía por defecto")
		return catalog.NewCategoryRegistry(catalog.DefaultTaxonomy())
	}
	return catalog.NewCategoryRegistry(cats)
}

// SaveCategories persiste la taxonomía en su archivo propio.
func (g *Gateway) SaveCategories(path string, registry *catalog.CategoryRegistry) error {
	data, err := codec.EncodeCategories(registry.List())
	if err != nil {
		return err
	}
	return g.writeAtomic(path, data)
}

// writeAtomic escribe en una ruta temporal del mismo directorio y renombra
// sobre el destino solo cuando la escritura completó. Si el destino ya
// existe se produce antes una copia de respaldo con timestamp; un fallo del
// respaldo se registra pero no bloquea el guardado.
func (g *Gateway) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pos-save-*")
	if err != nil {
		return fmt.Errorf("crear temporal en %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("escribir %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cerrar %s: %w", tmpName, err)
	}
	// CreateTemp crea el archivo 0600; el destino es un archivo de datos
	// normal y no debe quedar con permisos restringidos tras el rename.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("permisos de %s: %w", tmpName, err)
	}

	if _, err := os.Stat(path); err == nil {
		if backupPath, err := g.backup(path); err != nil {
			g.log.Warn().Err(err).Str("path", path).Msg("no se pudo crear el respaldo")
		} else {
			g.log.Debug().Str("backup", backupPath).Msg("respaldo creado")
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("reemplazar %s: %w", path, err)
	}
	return nil
}

// backup copia el archivo existente a backupDir con nombre timestamped
// (backup_YYYYMMDD_HHMMSS<ext>).
func (g *Gateway) backup(path string) (string, error) {
	if err := os.MkdirAll(g.backupDir, 0o755); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("backup_%s%s", time.Now().Format("20060102_150405"), filepath.Ext(path))
	backupPath := filepath.Join(g.backupDir, name)
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", err
	}
	return backupPath, nil
}
