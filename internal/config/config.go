// Package config holds the paths and render settings shared by the
// command-line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"proctree-renderer/internal/material"
	"proctree-renderer/internal/postprocess"
	"proctree-renderer/internal/texture"
	"proctree-renderer/internal/viewmatrix"
)

// NoTexture disables the twig texture when used as LeafTexture.
const NoTexture = "none"

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	AssetDir   string `json:"asset_dir" yaml:"asset_dir" toml:"asset_dir"`
	ParamsFile string `json:"params_file" yaml:"params_file" toml:"params_file"`
	OutputDir  string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`

	// Render settings
	RenderSize  int     `json:"render_size" yaml:"render_size" toml:"render_size"`
	Supersample int     `json:"supersample" yaml:"supersample" toml:"supersample"`
	FillRatio   float64 `json:"fill_ratio" yaml:"fill_ratio" toml:"fill_ratio"`
	Workers     int     `json:"workers" yaml:"workers" toml:"workers"`
	RotateY     float64 `json:"rotate_y" yaml:"rotate_y" toml:"rotate_y"`
	Perspective bool    `json:"perspective" yaml:"perspective" toml:"perspective"`
	FOV         float64 `json:"fov" yaml:"fov" toml:"fov"`
	TopView     bool    `json:"top_view" yaml:"top_view" toml:"top_view"`

	// Materials
	BarkColor   string `json:"bark_color" yaml:"bark_color" toml:"bark_color"`
	LeafColor   string `json:"leaf_color" yaml:"leaf_color" toml:"leaf_color"`
	LeafTexture string `json:"leaf_texture" yaml:"leaf_texture" toml:"leaf_texture"`
}

// Load reads a config file; the format follows the extension (.json,
// .yaml/.yml, .toml). Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir    string
	AssetDir   string
	ParamsFile string
	OutputDir  string
	Size       int
	Workers    int
	RotateY    *float64
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.ParamsFile != "" {
		c.ParamsFile = flags.ParamsFile
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.RotateY != nil {
		c.RotateY = *flags.RotateY
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Relative paths hang off the base dir.
	if c.BaseDir != "" {
		c.AssetDir = under(c.BaseDir, c.AssetDir, "assets")
		c.OutputDir = under(c.BaseDir, c.OutputDir, "renders")
		if c.ParamsFile != "" {
			c.ParamsFile = under(c.BaseDir, c.ParamsFile, "")
		}
	} else if c.OutputDir == "" {
		c.OutputDir = "renders"
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = postprocess.DefaultFillRatio
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.BarkColor == "" {
		c.BarkColor = material.Hex(material.FromHex(material.DefaultBark))
	}
	if c.LeafColor == "" {
		c.LeafColor = material.Hex(material.FromHex(material.DefaultLeaf))
	}
	if c.LeafTexture == "" {
		c.LeafTexture = texture.OptionA.Stem()
	}
}

// Materials builds the bark and leaf materials from the color and texture
// settings.
func (c *Config) Materials() (material.Config, error) {
	m := material.Defaults()
	var err error
	if c.BarkColor != "" {
		if m.Bark.Color, err = material.ParseHex(c.BarkColor); err != nil {
			return material.Config{}, fmt.Errorf("config: bark_color: %w", err)
		}
	}
	if c.LeafColor != "" {
		if m.Leaf.Color, err = material.ParseHex(c.LeafColor); err != nil {
			return material.Config{}, fmt.Errorf("config: leaf_color: %w", err)
		}
	}
	switch strings.ToLower(c.LeafTexture) {
	case "":
	case NoTexture:
		m.Leaf.Texture = nil
	default:
		opt, err := texture.ParseOption(c.LeafTexture)
		if err != nil {
			return material.Config{}, fmt.Errorf("config: leaf_texture: %w", err)
		}
		m.Leaf.Texture = &opt
	}
	return m, nil
}

// Camera returns the preview camera.
func (c *Config) Camera() viewmatrix.Camera {
	return viewmatrix.Camera{RotateY: c.RotateY, Perspective: c.Perspective, FOV: c.FOV, Top: c.TopView}
}

func under(base, p, def string) string {
	if p == "" {
		return filepath.Join(base, def)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// detectBaseDir looks for an assets directory next to the executable or in
// the working directory.
func detectBaseDir() string {
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if isDir(filepath.Join(base, "assets")) {
				return base
			}
		}
	}

	cwd, _ := os.Getwd()
	if cwd != "" && isDir(filepath.Join(cwd, "assets")) {
		return cwd
	}
	return ""
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
