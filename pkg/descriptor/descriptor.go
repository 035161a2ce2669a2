package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const ImageKey = "image"

var ErrUnsupportedFormat = errors.New("unsupported descriptor format")

// Descriptor is a metadata record with a distinguished image entry. Image is
// a content locator (contains "://"); AssetRef is a local file name taken
// from the same key. At most one of them is set.
type Descriptor struct {
	Image    string
	AssetRef string
	Fields   map[string]any
}

// HasImage reports whether the descriptor already points at published content.
func (d *Descriptor) HasImage() bool {
	return d != nil && strings.TrimSpace(d.Image) != ""
}

// SetImage records a published locator, replacing any local reference.
func (d *Descriptor) SetImage(locator string) {
	d.Image = locator
	d.AssetRef = ""
}

func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	clone := &Descriptor{Image: d.Image, AssetRef: d.AssetRef}
	if d.Fields != nil {
		clone.Fields = cloneValue(d.Fields).(map[string]any)
	}
	return clone
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(d.Fields)+1)
	for key, value := range d.Fields {
		payload[key] = value
	}
	switch {
	case strings.TrimSpace(d.Image) != "":
		payload[ImageKey] = d.Image
	case strings.TrimSpace(d.AssetRef) != "":
		payload[ImageKey] = d.AssetRef
	}
	return json.Marshal(payload)
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSON(data)
	if err != nil {
		return err
	}
	parsed, err := fromMap(raw)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// Load reads a descriptor from path. The format follows the extension:
// .json, .yaml or .yml.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}
	descriptor, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	return descriptor, nil
}

// Parse decodes data according to ext.
func Parse(data []byte, ext string) (*Descriptor, error) {
	var raw map[string]any
	switch strings.ToLower(ext) {
	case ".json":
		decoded, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		raw = decoded
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if raw == nil {
		return nil, fmt.Errorf("descriptor must be an object")
	}
	return fromMap(raw)
}

// decodeJSON keeps numbers as json.Number so integers beyond float64
// precision are re-emitted unchanged.
func decodeJSON(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after descriptor object")
	}
	return raw, nil
}

func fromMap(raw map[string]any) (*Descriptor, error) {
	descriptor := &Descriptor{Fields: make(map[string]any, len(raw))}
	for key, value := range raw {
		if key != ImageKey {
			descriptor.Fields[key] = normalizeValue(value)
			continue
		}
		if value == nil {
			continue
		}
		image, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("descriptor %q must be a string", ImageKey)
		}
		image = strings.TrimSpace(image)
		if strings.Contains(image, "://") {
			descriptor.Image = image
		} else {
			descriptor.AssetRef = image
		}
	}
	return descriptor, nil
}

// IsDescriptorFile reports whether name carries a descriptor extension.
func IsDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// List returns the descriptor files in dir in listing order (sorted by
// name). Subdirectories are not traversed.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptors in %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsDescriptorFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Stem is the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// yaml.v3 decodes nested mappings with non-string keys as map[any]any;
// normalizeValue turns them into JSON-encodable values.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = normalizeValue(nested)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, nested := range typed {
			out[index] = normalizeValue(nested)
		}
		return out
	default:
		return value
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, nested := range typed {
			out[index] = cloneValue(nested)
		}
		return out
	default:
		return value
	}
}
