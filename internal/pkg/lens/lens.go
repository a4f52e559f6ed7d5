package lens

import (
	"math"

	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// MinSize is the smallest normalized lens dimension. A lens can never shrink
// below 1% of the image on either axis.
const MinSize = 0.01

// fullCoverageThreshold is the normalized size above which the lens counts as
// covering the whole image and the overlay is suppressed.
const fullCoverageThreshold = 0.999

// Position is the draggable viewport selecting the region shown at 1:1 pixel
// scale in the detail preview. Coordinates are normalized to [0,1] relative
// to the un-cropped image.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRegion is an integer pixel region in the transformed coordinate space.
type PixelRegion struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Centered places a lens of the given normalized size in the middle of the
// image, clamped to the valid size range.
func Centered(normWidth, normHeight float64) Position {
	p := Position{
		Width:  clampSize(normWidth),
		Height: clampSize(normHeight),
	}
	p.X = (1 - p.Width) / 2
	p.Y = (1 - p.Height) / 2
	return p
}

// DimensionsFor computes the normalized lens size so that, at 1:1 pixel
// mapping, the captured region exactly fills a detail panel of
// panelWidth×panelHeight. The image dimensions are mapped through the
// transform first since the panel shows the already-oriented image.
func DimensionsFor(originalWidth, originalHeight, panelWidth, panelHeight int, t transform.Transform) (float64, float64) {
	w, h := t.DimensionsAfter(originalWidth, originalHeight)
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return clampSize(float64(panelWidth) / float64(w)), clampSize(float64(panelHeight) / float64(h))
}

// ScreenToNormalized converts an on-screen pixel rect into a normalized lens
// position given the displayed image's pixel size.
func ScreenToNormalized(x, y, width, height, displayWidth, displayHeight float64) Position {
	if displayWidth <= 0 || displayHeight <= 0 {
		return Centered(1, 1)
	}
	p := Position{
		X:      x / displayWidth,
		Y:      y / displayHeight,
		Width:  width / displayWidth,
		Height: height / displayHeight,
	}
	return p.Clamp()
}

// NormalizedToScreen converts a lens position back into on-screen pixels for
// an image displayed at the given pixel size.
func NormalizedToScreen(p Position, displayWidth, displayHeight float64) (x, y, width, height float64) {
	return p.X * displayWidth, p.Y * displayHeight, p.Width * displayWidth, p.Height * displayHeight
}

// PixelRegionFor converts a lens position into an integer pixel region in the
// transformed coordinate space. The region is rounded, clamped to the image
// bounds and never has a zero dimension.
func PixelRegionFor(p Position, originalWidth, originalHeight int, t transform.Transform) PixelRegion {
	w, h := t.DimensionsAfter(originalWidth, originalHeight)

	region := PixelRegion{
		Left:   int(math.Round(p.X * float64(w))),
		Top:    int(math.Round(p.Y * float64(h))),
		Width:  int(math.Round(p.Width * float64(w))),
		Height: int(math.Round(p.Height * float64(h))),
	}

	if region.Width < 1 {
		region.Width = 1
	}
	if region.Height < 1 {
		region.Height = 1
	}
	if region.Width > w {
		region.Width = w
	}
	if region.Height > h {
		region.Height = h
	}
	if region.Left < 0 {
		region.Left = 0
	}
	if region.Top < 0 {
		region.Top = 0
	}
	if region.Left+region.Width > w {
		region.Left = w - region.Width
	}
	if region.Top+region.Height > h {
		region.Top = h - region.Height
	}

	return region
}

// Move translates the lens by the given normalized delta, clamped so it can
// never leave the image.
func (p Position) Move(dx, dy float64) Position {
	p.X += dx
	p.Y += dy
	return p.Clamp()
}

// Clamp forces the lens back into [0,1] on both axes and its size into the
// valid range.
func (p Position) Clamp() Position {
	p.Width = clampSize(p.Width)
	p.Height = clampSize(p.Height)
	p.X = math.Min(1-p.Width, math.Max(0, p.X))
	p.Y = math.Min(1-p.Height, math.Max(0, p.Y))
	return p
}

// IsFullCoverage reports whether the lens effectively shows the whole image.
func (p Position) IsFullCoverage() bool {
	return p.Width >= fullCoverageThreshold && p.Height >= fullCoverageThreshold
}

// Equal reports structural equality within floating tolerance.
func (p Position) Equal(other Position) bool {
	const tol = 1e-9
	return math.Abs(p.X-other.X) < tol &&
		math.Abs(p.Y-other.Y) < tol &&
		math.Abs(p.Width-other.Width) < tol &&
		math.Abs(p.Height-other.Height) < tol
}

func clampSize(v float64) float64 {
	return math.Min(1, math.Max(MinSize, v))
}
