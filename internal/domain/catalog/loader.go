package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

// File is the on-disk shape of a catalog.
type File struct {
	Conditions  []entities.Condition `yaml:"conditions"`
	ImageLabels []string             `yaml:"image_labels"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid catalog yaml: %v", err))
	}
	return New(file.Conditions, file.ImageLabels)
}

// Load returns the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
