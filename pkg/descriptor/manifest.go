package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"
)

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Manifest is the on-disk list of descriptors written by the adapter generator.
type Manifest struct {
	Adapters []AdapterDescriptor `json:"adapters"`
}

// FormatFromPath picks the manifest format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadManifest reads the descriptors from a YAML or JSON manifest file.
// Each descriptor's Origin is set to the manifest path.
func LoadManifest(path string) ([]AdapterDescriptor, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	adapters, err := ParseManifest(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range adapters {
		adapters[i].Origin = path
	}
	return adapters, nil
}

// ParseManifest decodes a manifest. Unknown fields are rejected.
func ParseManifest(data []byte, format Format) ([]AdapterDescriptor, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &m); err != nil {
			return nil, fmt.Errorf("decoding yaml manifest: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decoding json manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return m.Adapters, nil
}

// WriteManifest encodes the store, in GeneratedName order, as a manifest.
func WriteManifest(w io.Writer, store Store, format Format) error {
	m := Manifest{Adapters: store.Sorted()}

	var (
		out []byte
		err error
	)
	switch format {
	case FormatYAML:
		out, err = yaml.Marshal(m)
	case FormatJSON:
		out, err = json.MarshalIndent(m, "", "  ")
		out = append(out, '\n')
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	_, err = w.Write(out)
	return err
}
