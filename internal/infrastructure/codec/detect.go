package codec

import (
	"path/filepath"
	"strings"

	"github.com/tu-usuario/punto-venta/internal/domain"
	"gopkg.in/yaml.v3"
)

// Detect resuelve el formato de un archivo. Primero por extensión explícita;
// con extensión ausente o ambigua, olfatea el contenido en orden fijo:
// `{` o `[` inicial implica JSON, una línea con exactamente cuatro campos
// separados por | implica el TXT legado, una fila de encabezado con comas
// implica CSV, y como último recurso se intenta un parseo YAML.
func Detect(path string, content []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindJSON, nil
	case ".txt":
		return KindTXT, nil
	case ".csv":
		return KindCSV, nil
	case ".yaml", ".yml":
		return KindYAML, nil
	}
	return sniff(content)
}

func sniff(content []byte) (Kind, error) {
	lines := stripComments(content)
	if len(lines) == 0 {
		return KindUnknown, domain.ErrUnknownFormat
	}
	first := strings.TrimSpace(lines[0].text)

	if strings.HasPrefix(first, "{") || strings.HasPrefix(first, "[") {
		return KindJSON, nil
	}
	if len(strings.Split(first, "|")) == txtFieldCount {
		return KindTXT, nil
	}
	if strings.Contains(first, ",") {
		return KindCSV, nil
	}
	var probe any
	if err := yaml.Unmarshal(content, &probe); err == nil {
		return KindYAML, nil
	}
	return KindUnknown, domain.ErrUnknownFormat
}
