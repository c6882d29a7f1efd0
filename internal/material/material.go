// Package material describes how the trunk and twig meshes are shaded when
// rendered.
package material

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"proctree-renderer/internal/texture"
)

// Default colors.
const (
	DefaultBark = 0x9d7362
	DefaultLeaf = 0x00550f
)

// Material is a flat tint optionally multiplied by a texture.
type Material struct {
	Color color.NRGBA
	// Texture is nil for untextured materials.
	Texture *texture.Option
	// Pixels whose final alpha is below AlphaTest are discarded.
	AlphaTest uint8
}

// Config holds both tree materials.
type Config struct {
	Bark Material
	Leaf Material
}

// Defaults returns brown untextured bark and green twigs using the first
// twig texture with a 0.9 alpha cutoff.
func Defaults() Config {
	leaf := texture.OptionA
	return Config{
		Bark: Material{Color: FromHex(DefaultBark), AlphaTest: 8},
		Leaf: Material{Color: FromHex(DefaultLeaf), Texture: &leaf, AlphaTest: 230},
	}
}

// FromHex converts 0xRRGGBB into an opaque color.
func FromHex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ParseHex accepts "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseHex(s string) (color.NRGBA, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	if len(v) == 0 || len(v) > 6 {
		return color.NRGBA{}, fmt.Errorf("material: bad color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("material: bad color %q: %w", s, err)
	}
	return FromHex(uint32(n)), nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
