package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/robinovitch61/itemview/internal/dev"
)

// defaultBackground is assumed until the terminal reports its background color
var defaultBackground color.Color = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}

type Styles struct {
	Regular    lipgloss.Style
	Bold       lipgloss.Style
	Inverse    lipgloss.Style
	CurrentRow lipgloss.Style
	Highlight  lipgloss.Style
	Section    lipgloss.Style
	Banner     lipgloss.Style
	Removing   lipgloss.Style
	Footer     lipgloss.Style
	TopBar     lipgloss.Style
	Toast      lipgloss.Style
	Error      lipgloss.Style
	KeyHelp    lipgloss.Style
}

func DefaultStyles() Styles {
	return NewStyles(defaultBackground)
}

// NewStyles derives the styles from the terminal's background color
func NewStyles(background color.Color) Styles {
	backgroundHex := toHex(background)
	isDark := IsDark(background)
	lightDark := lipgloss.LightDark(isDark)
	foreground := lightDark(lipgloss.Color("#1a1a1a"), lipgloss.Color("#e4e4e4"))
	foregroundHex := toHex(foreground)
	altForeground := lipgloss.Color(adjustColor(foregroundHex, lightDarkFactor(isDark, 1.7, 0.1)))
	altBackground := lipgloss.Color(adjustColor(backgroundHex, lightDarkFactor(isDark, 0.1, 1.7)))
	dev.Debug("styles", "background", backgroundHex, "dark", isDark, "foreground", foregroundHex)

	regular := lipgloss.NewStyle().Foreground(foreground)
	bold := regular.Bold(true)
	inverse := regular.Foreground(background).Background(foreground)
	return Styles{
		Regular:    regular,
		Bold:       bold,
		Inverse:    inverse,
		CurrentRow: inverse,
		Highlight:  inverse.Background(altForeground),
		Section:    bold.Underline(true),
		Banner:     bold.Foreground(altForeground),
		Removing:   regular.Faint(true).Strikethrough(true),
		Footer:     bold,
		TopBar:     bold.Background(altBackground),
		Toast:      inverse.Padding(0, 1),
		Error:      bold.Foreground(lipgloss.Color("#FD2C4C")),
		KeyHelp:    bold.Foreground(background).Background(foreground).Underline(true),
	}
}

// IsDark reports whether c has less than half lightness
func IsDark(c color.Color) bool {
	return rgbaToHSL(hexToRGBA(toHex(c))).L < 0.5
}

func lightDarkFactor(isDark bool, light, dark float64) float64 {
	if isDark {
		return dark
	}
	return light
}

func toHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return rgbaToHex(color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

type hsl struct {
	H, S, L float64
}

func hexToRGBA(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		panic(fmt.Sprintf("invalid hex color: %s", hex))
	}

	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)

	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func rgbaToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func rgbaToHSL(rgba color.RGBA) hsl {
	r := float64(rgba.R) / 255
	g := float64(rgba.G) / 255
	b := float64(rgba.B) / 255

	mx := math.Max(math.Max(r, g), b)
	mn := math.Min(math.Min(r, g), b)
	l := (mx + mn) / 2

	var h, s float64
	if mx == mn {
		h, s = 0, 0 // achromatic
	} else {
		d := mx - mn
		if l > 0.5 {
			s = d / (2 - mx - mn)
		} else {
			s = d / (mx + mn)
		}
		switch mx {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		case b:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return hsl{h, s, l}
}

func hslToRGBA(hsl hsl) color.RGBA {
	var r, g, b float64

	if hsl.S == 0 {
		r, g, b = hsl.L, hsl.L, hsl.L
	} else {
		var q float64
		if hsl.L < 0.5 {
			q = hsl.L * (1 + hsl.S)
		} else {
			q = hsl.L + hsl.S - hsl.L*hsl.S
		}
		p := 2*hsl.L - q

		r = hueToRGB(p, q, hsl.H+1.0/3.0)
		g = hueToRGB(p, q, hsl.H)
		b = hueToRGB(p, q, hsl.H-1.0/3.0)
	}

	return color.RGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func adjustColor(hexColor string, factor float64) string {
	rgba := hexToRGBA(hexColor)
	hsl := rgbaToHSL(rgba)

	// lightness
	adjustmentFactor := (factor - 1) * 0.1
	hsl.L = math.Max(0, math.Min(1, hsl.L+adjustmentFactor))

	// saturation for non-grayscale colors
	if hsl.S > 0 {
		hsl.S = math.Max(0, math.Min(1, hsl.S*factor))
	}

	return rgbaToHex(hslToRGBA(hsl))
}
