package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// HueFamilies lists the 10 Munsell hue families in circle order.
// The order is cyclic: RP wraps back around to R.
var HueFamilies = []string{"R", "YR", "Y", "GY", "G", "BG", "B", "PB", "P", "RP"}

// Two-letter suffixes come first so "5YR" doesn't stop at "Y".
var hueTokenPattern = regexp.MustCompile(`^(\d*\.?\d+)(YR|GY|BG|PB|RP|R|Y|G|B|P)$`)

var hueFamilyIndex = func() map[string]int {
	m := make(map[string]int, len(HueFamilies))
	for i, f := range HueFamilies {
		m[f] = i
	}
	return m
}()

// Hue is a point on the cyclic 100-point Munsell hue circle. 0 and 100
// are the same point and "5R" sits at 0, so each hue family owns a
// 10-point arc centered on its x=5 token. Because the type is circular,
// it is normalized to [0, 100) and should not be treated as a plain
// linear number when comparing across the wrap point.
type Hue float64

// NewHue normalizes any point onto the hue circle.
func NewHue(point float64) Hue {
	return Hue(normalizeHuePoint(point))
}

// HueFromDegrees converts an angle in degrees to a hue point.
func HueFromDegrees(degrees float64) Hue {
	return NewHue(degrees * (100.0 / 360.0))
}

// ParseHue parses a hue token such as "5R", "2.5YR" or "10GY" into its
// point on the hue circle. The magnitude must lie in (0, 10].
func ParseHue(token string) (Hue, error) {
	m := hueTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, fmt.Errorf("unrecognized hue token %q", token)
	}

	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hue magnitude in %q: %v", token, err)
	}
	if magnitude <= 0 || magnitude > 10 {
		return 0, fmt.Errorf("hue magnitude %v in %q outside (0, 10]", magnitude, token)
	}

	family := hueFamilyIndex[m[2]]
	return NewHue(float64(family)*10.0 + magnitude - 5.0), nil
}

// Point returns the normalized position on the 100-point circle.
func (h Hue) Point() float64 {
	return normalizeHuePoint(float64(h))
}

// Degrees returns the hue as an angle in [0, 360).
func (h Hue) Degrees() float64 {
	return h.Point() * (360.0 / 100.0)
}

// Family returns the hue family suffix the point falls in. A family
// boundary point ("10R", equivalently written "0YR" on some charts)
// belongs to the clockwise family, YR in that example.
func (h Hue) Family() string {
	return HueFamilies[h.FamilyIndex()]
}

// FamilyIndex returns the position of the hue's family in HueFamilies.
func (h Hue) FamilyIndex() int {
	return int(math.Floor(normalizeHuePoint(h.Point()+5.0)/10.0)) % len(HueFamilies)
}

func (h Hue) String() string {
	hp := normalizeHuePoint(h.Point() + 5.0)
	hn := math.Mod(hp, 10.0)
	index := int((hp-hn)/10.0) % len(HueFamilies)
	return fmt.Sprintf("%1.2f%s", hn, HueFamilies[index])
}

func normalizeHuePoint(point float64) float64 {
	return point - math.Floor(point/100.0)*100.0
}

// Munsell is a full hue/value/chroma coordinate.
type Munsell struct {
	Hue    Hue     `json:"hue"`
	Value  float64 `json:"value"`
	Chroma float64 `json:"chroma"`
}

func (m Munsell) String() string {
	return fmt.Sprintf("%s %.1f/%.1f", m.Hue, m.Value, m.Chroma)
}
