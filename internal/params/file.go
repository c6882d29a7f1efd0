package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadPatch reads a parameter file. The format follows the extension:
// .yaml/.yml, .toml, anything else is JSON. Fields missing from the file
// stay nil so the result can be merged onto a known full set.
func LoadPatch(path string) (Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, fmt.Errorf("params: read %s: %w", path, err)
	}
	p, err := DecodePatch(data, filepath.Ext(path))
	if err != nil {
		return Patch{}, fmt.Errorf("params: parse %s: %w", path, err)
	}
	return p, nil
}

// DecodePatch decodes data in the format named by ext.
func DecodePatch(data []byte, ext string) (Patch, error) {
	var p Patch
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".toml":
		err = toml.Unmarshal(data, &p)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	}
	return p, err
}

// Load reads a parameter file and merges it onto Defaults.
func Load(path string) (Tree, error) {
	p, err := LoadPatch(path)
	if err != nil {
		return Tree{}, err
	}
	return Merge(Defaults(), p)
}

// Save writes t in the format named by the extension of path.
func Save(path string, t Tree) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(t)
	case ".toml":
		data, err = toml.Marshal(t)
	default:
		data, err = json.MarshalIndent(t, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("params: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("params: write %s: %w", path, err)
	}
	return nil
}
