package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DeviceMax is the top of the 16-bit range lights use for hue, saturation,
// brightness and power.
const DeviceMax = 65535

// ErrInvalidHex is returned when a color string is not of the form #RRGGBB
var ErrInvalidHex = errors.New("invalid hex color")

// DeviceScale selects how 16-bit device channels are normalized before
// converting to RGB.
type DeviceScale int

const (
	// ScaleCanonical divides by 65535.
	ScaleCanonical DeviceScale = iota
	// ScaleLegacy computes (v-1)/65564, matching the web page bundled with
	// the registry. Only useful when colors must match it exactly.
	ScaleLegacy
)

// normalize maps a 16-bit device value into roughly [0,1]
func (s DeviceScale) normalize(v int) float64 {
	if s == ScaleLegacy {
		return float64(v-1) / 65564.0
	}
	return float64(v) / DeviceMax
}

func (s DeviceScale) String() string {
	if s == ScaleLegacy {
		return "legacy"
	}
	return "canonical"
}

// DeviceColor is a color in the light's native 16-bit HSBK encoding
type DeviceColor struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

// HexToRGB parses a #RRGGBB string into byte channels
func HexToRGB(hex string) (r, g, b uint8, err error) {
	if len(hex) != 7 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

// RGBToHex formats byte channels as a lowercase #rrggbb string
func RGBToHex(r, g, b uint8) string {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	return c.Hex()
}

// RGBToHSVNormalized converts RGB to HSV with every component in [0,1].
// Hue is 0 for achromatic input.
func RGBToHSVNormalized(r, g, b uint8) (h, s, v float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	v = max / 255.0
	if max != 0 {
		s = delta / max
	}

	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case rf:
		h = gf - bf
		if gf < bf {
			h += 6 * delta
		}
	case gf:
		h = bf - rf + 2*delta
	default:
		h = rf - gf + 4*delta
	}
	h /= 6 * delta

	if h < 0 {
		h++
	}
	if h >= 1 {
		h--
	}

	return h, s, v
}

// HSVNormalizedToRGB is the inverse of RGBToHSVNormalized
func HSVNormalizedToRGB(h, s, v float64) (r, g, b uint8) {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	sector := int(i) % 6
	if sector < 0 {
		sector += 6
	}

	var rf, gf, bf float64
	switch sector {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}

	return roundByte(rf * 255), roundByte(gf * 255), roundByte(bf * 255)
}

// DeviceHSVToHex renders 16-bit device channels as an uppercase #RRGGBB
// string using canonical scaling.
func DeviceHSVToHex(hue, sat, bri int) string {
	return DeviceHSVToHexScaled(ScaleCanonical, hue, sat, bri)
}

// DeviceHSVToHexScaled renders device channels with the given normalization.
// Out-of-range input is clamped, never rejected.
func DeviceHSVToHexScaled(scale DeviceScale, hue, sat, bri int) string {
	h := scale.normalize(hue) * 360.0
	s := scale.normalize(sat)
	v := scale.normalize(bri)

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case 0 <= h && h < 60:
		r, g, b = c, x, 0
	case 60 <= h && h < 120:
		r, g, b = x, c, 0
	case 120 <= h && h < 180:
		r, g, b = 0, c, x
	case 180 <= h && h < 240:
		r, g, b = 0, x, c
	case 240 <= h && h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return "#" + hexByte(roundByte((r+m)*255)) + hexByte(roundByte((g+m)*255)) + hexByte(roundByte((b+m)*255))
}

// DeviceColorFromHex converts a picked #RRGGBB color into device channels,
// carrying kelvin through untouched.
func DeviceColorFromHex(hex string, kelvin uint16) (DeviceColor, error) {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		return DeviceColor{}, err
	}

	h, s, v := RGBToHSVNormalized(r, g, b)
	return DeviceColor{
		Hue:        toDevice(h),
		Saturation: toDevice(s),
		Brightness: toDevice(v),
		Kelvin:     kelvin,
	}, nil
}

// toDevice scales a [0,1] value to the 16-bit range, flooring
func toDevice(f float64) uint16 {
	d := math.Floor(f * DeviceMax)
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	if d > DeviceMax {
		return DeviceMax
	}
	return uint16(d)
}

// roundByte rounds to the nearest integer and clamps to 0-255
func roundByte(value float64) uint8 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	value = math.Round(value)
	if value > 255 {
		return 255
	}
	return uint8(value)
}

func hexByte(b uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0x0F]})
}
