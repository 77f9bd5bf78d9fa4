package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/angristan/lifx-tui/internal/models"
	"github.com/angristan/lifx-tui/internal/tui/styles"
)

// Channel is one axis of the color picker
type Channel int

const (
	ChannelHue Channel = iota
	ChannelSaturation
	ChannelValue
)

// Step sizes for one key press
const (
	HueStep = 1.0 / 36 // 10°
	SatStep = 0.05
	ValStep = 0.05
)

// ColorPicker is a keyboard color picker working in normalized HSV.
// It keeps its own hue so that desaturating to gray and back does not
// lose the color.
type ColorPicker struct {
	H, S, V float64
}

// NewColorPicker starts a picker at the given #RRGGBB color. Unparseable
// input starts at black.
func NewColorPicker(hex string) ColorPicker {
	r, g, b, err := models.HexToRGB(hex)
	if err != nil {
		return ColorPicker{}
	}
	h, s, v := models.RGBToHSVNormalized(r, g, b)
	return ColorPicker{H: h, S: s, V: v}
}

// Hex returns the picked color as #rrggbb
func (p ColorPicker) Hex() string {
	r, g, b := models.HSVNormalizedToRGB(p.H, p.S, p.V)
	return models.RGBToHex(r, g, b)
}

// Nudge moves one channel by delta. Hue wraps around, the others clamp.
func (p ColorPicker) Nudge(ch Channel, delta float64) ColorPicker {
	switch ch {
	case ChannelHue:
		p.H = math.Mod(p.H+delta+1, 1)
	case ChannelSaturation:
		p.S = clamp01(p.S + delta)
	case ChannelValue:
		p.V = clamp01(p.V + delta)
	}
	return p
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// View renders the three channel sliders
func (p ColorPicker) View(width int) string {
	if width < 10 {
		width = 10
	}

	hueDeg := p.H * 360
	var b strings.Builder

	b.WriteString(styles.StyleTextMuted.Render("Hue: "))
	b.WriteString(fmt.Sprintf("%d°\n", int(math.Round(hueDeg))%360))
	b.WriteString(renderHueBar(hueDeg, width))
	b.WriteString("\n\n")

	b.WriteString(styles.StyleTextMuted.Render("Saturation: "))
	b.WriteString(fmt.Sprintf("%d%%\n", pct(p.S)))
	b.WriteString(renderSatBar(p.S, hueDeg, width))
	b.WriteString("\n\n")

	b.WriteString(styles.StyleTextMuted.Render("Brightness: "))
	b.WriteString(fmt.Sprintf("%d%%\n", pct(p.V)))
	b.WriteString(RenderBrightnessBar(pct(p.V), width))

	return b.String()
}

func pct(f float64) int {
	return int(math.Round(f * 100))
}

func sliderPos(f float64, width int) int {
	pos := int(f * float64(width))
	if pos >= width {
		pos = width - 1
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func renderHueBar(hueDeg float64, width int) string {
	pos := sliderPos(hueDeg/360, width)

	var bar strings.Builder
	for i := 0; i < width; i++ {
		// Rainbow gradient
		c := colorful.Hsv(float64(i)/float64(width)*360, 1, 1)

		char := "─"
		if i == pos {
			char = "●"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(char))
	}
	return bar.String()
}

func renderSatBar(sat, hueDeg float64, width int) string {
	pos := sliderPos(sat, width)

	var bar strings.Builder
	for i := 0; i < width; i++ {
		// Gradient from white to full color
		c := colorful.Hsv(hueDeg, float64(i)/float64(width), 1)

		char := "─"
		if i == pos {
			char = "●"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(char))
	}
	return bar.String()
}

// RenderBrightnessBar renders a 0-100 brightness bar
func RenderBrightnessBar(brightness int, width int) string {
	if brightness <= 0 {
		return styles.StyleSliderTrack.Render(strings.Repeat("─", width))
	}

	segments := (brightness * width) / 100
	if segments == 0 {
		segments = 1
	}

	var b strings.Builder
	for i := 1; i <= width; i++ {
		if i <= segments {
			color := getBrightnessColorForSegment(i, width, brightness)
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		} else {
			b.WriteString(styles.StyleSliderTrack.Render("─"))
		}
	}
	return b.String()
}

// getBrightnessColorForSegment returns the color for a specific segment
func getBrightnessColorForSegment(segment, total, brightness int) lipgloss.Color {
	// Map segment to 1-10 scale
	mappedSegment := (segment * 10) / total
	if mappedSegment < 1 {
		mappedSegment = 1
	}
	if mappedSegment > 10 {
		mappedSegment = 10
	}

	return styles.GetBrightnessColor(mappedSegment, brightness)
}
