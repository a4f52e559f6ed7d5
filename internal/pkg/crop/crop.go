package crop

import "math"

// Preset identifies an aspect-ratio constraint for the crop tool.
type Preset string

const (
	PresetFree      Preset = "free"
	PresetOriginal  Preset = "original"
	PresetSquare    Preset = "1:1"
	PresetPortrait  Preset = "4:5"
	PresetClassic   Preset = "3:2"
	PresetWide      Preset = "16:9"
	PresetGolden    Preset = "golden"
)

// GoldenRatio is the width/height ratio of the golden preset.
const GoldenRatio = 1.6180339887498949

// rectTolerance is the float tolerance below which a rect counts as the
// full-image rect.
const rectTolerance = 1e-3

// Rect is a sub-region of an image, all coordinates normalized to [0,1]
// relative to the already-transformed image.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Crop is the per-item crop setting. Active alone does not make the crop
// effective, the rect also has to differ from the full-image rect.
type Crop struct {
	Active bool   `json:"active"`
	Preset Preset `json:"preset"`
	Rect   Rect   `json:"rect"`
}

// FullRect returns the rect covering the whole image.
func FullRect() Rect {
	return Rect{X: 0, Y: 0, Width: 1, Height: 1}
}

// Default returns the materialized default crop for a freshly imported item.
func Default() Crop {
	return Crop{Active: false, Preset: PresetFree, Rect: FullRect()}
}

// IsFull reports whether the rect covers (within tolerance) the whole image.
func (r Rect) IsFull() bool {
	return math.Abs(r.X) < rectTolerance &&
		math.Abs(r.Y) < rectTolerance &&
		math.Abs(r.Width-1) < rectTolerance &&
		math.Abs(r.Height-1) < rectTolerance
}

// Equal reports structural equality of two rects.
func (r Rect) Equal(o Rect) bool {
	return r.X == o.X && r.Y == o.Y && r.Width == o.Width && r.Height == o.Height
}

// Equal reports structural equality of two crops.
func (c Crop) Equal(o Crop) bool {
	return c.Active == o.Active && c.Preset == o.Preset && c.Rect.Equal(o.Rect)
}

// Clone returns an independent copy. Rect is a value type so the copy can
// never alias the source, callers may mutate-then-store freely.
func (c Crop) Clone() Crop {
	return c
}

// IsActive reports whether the crop actually removes anything: the flag is
// set and the rect is not the full-image rect.
func IsActive(c Crop) bool {
	return c.Active && !c.Rect.IsFull()
}

// AspectRatioFor resolves a preset to a width/height ratio for an image of
// the given pixel dimensions. ok is false when the preset does not constrain
// the rect: always for free, and for original since the full image already
// has its own ratio.
func AspectRatioFor(preset Preset, width, height int) (float64, bool) {
	switch preset {
	case PresetSquare:
		return 1, true
	case PresetPortrait:
		return 4.0 / 5.0, true
	case PresetClassic:
		return 3.0 / 2.0, true
	case PresetWide:
		return 16.0 / 9.0, true
	case PresetGolden:
		return GoldenRatio, true
	default:
		// free, original and unknown presets leave the rect unconstrained
		return 0, false
	}
}

// CenteredRect constructs the largest rect with the given pixel aspect ratio
// centered in the unit square of an image with the given dimensions, clamped
// so it never exceeds [0,1].
func CenteredRect(aspectRatio float64, width, height int) Rect {
	if aspectRatio <= 0 || width <= 0 || height <= 0 {
		return FullRect()
	}

	imageRatio := float64(width) / float64(height)

	rect := FullRect()
	if aspectRatio >= imageRatio {
		// limited by image width: full width, reduced height
		rect.Height = clamp01(imageRatio / aspectRatio)
		rect.Y = (1 - rect.Height) / 2
	} else {
		// limited by image height: full height, reduced width
		rect.Width = clamp01(aspectRatio / imageRatio)
		rect.X = (1 - rect.Width) / 2
	}

	return rect
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
