// internal/catalog/load.go
package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"army-list-builder-backend/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultPath - путь к таблице юнитов внутри встроенной файловой системы
const DefaultPath = "data/units.yaml"

//go:embed data/units.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Factions []models.Faction `yaml:"factions"`
	Units    []models.Unit    `yaml:"units"`
}

// LoadEmbedded загружает каталог, собранный вместе с бинарником
func LoadEmbedded() (*Catalog, error) {
	return Load(embeddedFS, DefaultPath)
}

// Load читает YAML-таблицу из fsys и проверяет её
func Load(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML-таблицу каталога
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Factions) == 0 {
		return nil, fmt.Errorf("parse catalog: no factions defined")
	}
	return New(file.Factions, file.Units)
}
