package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

var ErrUnsupportedManifest = errors.New("unsupported manifest format")

// Manifest is the on-disk shape of a registry file
type Manifest struct {
	Apps []types.ApplicationDescriptor `json:"apps" yaml:"apps" toml:"apps"`
}

// LoadManifest reads application descriptors from a .yaml, .yml, .toml or .json file
func LoadManifest(path string) ([]types.ApplicationDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest, err := ParseManifest(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return manifest.Apps, nil
}

// ParseManifest decodes manifest bytes according to a file extension
func ParseManifest(ext string, data []byte) (*Manifest, error) {
	var manifest Manifest

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return nil, err
		}
	case ".json":
		if err := sonic.Unmarshal(data, &manifest); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedManifest, ext)
	}

	return &manifest, nil
}
