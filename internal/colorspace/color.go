package colorspace

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents an sRGB color with 8-bit components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Lab represents a color in CIE L*a*b* space (D65).
//
// L is perceptual lightness in [0,100]; A runs green (-) to red (+) and B
// runs blue (-) to yellow (+).
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// go-colorful scales L to [0,1]; this module uses the conventional [0,100].
const labScale = 100.0

// Hex returns the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ToLab converts an sRGB color to Lab.
func ToLab(c RGB) Lab {
	l, a, b := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Lab()
	return Lab{L: l * labScale, A: a * labScale, B: b * labScale}
}

// ToRGB converts a Lab color to sRGB, clamping to the sRGB gamut before
// quantizing each channel to a byte.
func ToRGB(lab Lab) RGB {
	c := colorful.Lab(lab.L/labScale, lab.A/labScale, lab.B/labScale).Clamped()
	return RGB{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B)}
}

// Distance returns the squared Euclidean distance between two Lab colors.
//
// The squared form is monotonic with the true distance, which is all the
// nearest-color searches need.
func Distance(x, y Lab) float64 {
	dl := x.L - y.L
	da := x.A - y.A
	db := x.B - y.B
	return dl*dl + da*da + db*db
}

// Add returns the channel-wise sum of two Lab colors.
func (lab Lab) Add(o Lab) Lab {
	return Lab{L: lab.L + o.L, A: lab.A + o.A, B: lab.B + o.B}
}

// Scale returns lab with every channel multiplied by f.
func (lab Lab) Scale(f float64) Lab {
	return Lab{L: lab.L * f, A: lab.A * f, B: lab.B * f}
}

// ClampChannel clamps a floating-point channel value to [0,255] and rounds
// it to the nearest byte. NaN maps to 0.
func ClampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// toByte maps a unit-interval channel to 0-255 with rounding.
func toByte(v float64) uint8 {
	return ClampChannel(v * 255.0)
}
