package pdftools

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGB colour with components in [0,1].
type Color struct {
	R, G, B float64
}

// Red is the default watermark colour.
var Red = Color{R: 1}

// ParseColor accepts "#RRGGBB", "RRGGBB", "#RGB", "RGB", or an explicit
// triple "r,g,b" / "r g b" of floats in [0,1].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, ", ") {
		return parseTriple(s)
	}
	return parseHex(s)
}

func parseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("%w: colour %q must be #RRGGBB or #RGB", ErrInvalidArgument, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: colour %q is not hexadecimal", ErrInvalidArgument, s)
	}
	return Color{
		R: float64(v>>16&0xFF) / 255,
		G: float64(v>>8&0xFF) / 255,
		B: float64(v&0xFF) / 255,
	}, nil
}

func parseTriple(s string) (Color, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: colour %q must have three components", ErrInvalidArgument, s)
	}

	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || v > 1 {
			return Color{}, fmt.Errorf("%w: colour component %q must be between 0 and 1", ErrInvalidArgument, p)
		}
		c[i] = v
	}
	return Color{R: c[0], G: c[1], B: c[2]}, nil
}

// Validate checks that every component is in [0,1].
func (c Color) Validate() error {
	for _, v := range []float64{c.R, c.G, c.B} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: colour %v out of range", ErrInvalidArgument, c)
		}
	}
	return nil
}

// Hex renders the colour as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
