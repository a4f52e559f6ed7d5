package lens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixmill/PixMill/internal/pkg/lens"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

func TestCentered(t *testing.T) {
	p := lens.Centered(0.5, 0.25)

	assert.InDelta(t, 0.25, p.X, 1e-9)
	assert.InDelta(t, 0.375, p.Y, 1e-9)
	assert.InDelta(t, 0.5, p.Width, 1e-9)
	assert.InDelta(t, 0.25, p.Height, 1e-9)
}

func TestCenteredClampsSize(t *testing.T) {
	p := lens.Centered(0.0001, 4)
	assert.InDelta(t, lens.MinSize, p.Width, 1e-9)
	assert.InDelta(t, 1.0, p.Height, 1e-9)
}

func TestDimensionsFor(t *testing.T) {
	// a 400x300 panel over a 4000x3000 image captures 10% per axis
	w, h := lens.DimensionsFor(4000, 3000, 400, 300, transform.Identity())
	assert.InDelta(t, 0.1, w, 1e-9)
	assert.InDelta(t, 0.1, h, 1e-9)
}

func TestDimensionsForUsesTransformedDimensions(t *testing.T) {
	rotated := transform.Identity().RotateCW()

	// after rotation the panel sees a 3000x4000 image
	w, h := lens.DimensionsFor(4000, 3000, 300, 400, rotated)
	assert.InDelta(t, 0.1, w, 1e-9)
	assert.InDelta(t, 0.1, h, 1e-9)
}

func TestDimensionsForPanelLargerThanImage(t *testing.T) {
	w, h := lens.DimensionsFor(200, 100, 400, 300, transform.Identity())
	assert.InDelta(t, 1.0, w, 1e-9, "lens never exceeds the image")
	assert.InDelta(t, 1.0, h, 1e-9)
}

func TestScreenRoundTrip(t *testing.T) {
	p := lens.ScreenToNormalized(100, 50, 200, 100, 1000, 500)
	assert.InDelta(t, 0.1, p.X, 1e-9)
	assert.InDelta(t, 0.1, p.Y, 1e-9)
	assert.InDelta(t, 0.2, p.Width, 1e-9)
	assert.InDelta(t, 0.2, p.Height, 1e-9)

	x, y, w, h := lens.NormalizedToScreen(p, 1000, 500)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, 200, w, 1e-9)
	assert.InDelta(t, 100, h, 1e-9)
}

func TestPixelRegionFor(t *testing.T) {
	p := lens.Position{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}
	region := lens.PixelRegionFor(p, 400, 200, transform.Identity())

	assert.Equal(t, lens.PixelRegion{Left: 100, Top: 50, Width: 200, Height: 100}, region)
}

func TestPixelRegionForRotated(t *testing.T) {
	p := lens.Position{X: 0, Y: 0, Width: 0.5, Height: 0.5}
	region := lens.PixelRegionFor(p, 400, 200, transform.Identity().RotateCW())

	// rotated image is 200x400
	assert.Equal(t, lens.PixelRegion{Left: 0, Top: 0, Width: 100, Height: 200}, region)
}

func TestPixelRegionNeverZeroOrOutOfBounds(t *testing.T) {
	tiny := lens.Position{X: 0.999, Y: 0.999, Width: 0.0001, Height: 0.0001}
	region := lens.PixelRegionFor(tiny, 100, 100, transform.Identity())

	assert.GreaterOrEqual(t, region.Width, 1, "width floor of 1px")
	assert.GreaterOrEqual(t, region.Height, 1, "height floor of 1px")
	assert.LessOrEqual(t, region.Left+region.Width, 100)
	assert.LessOrEqual(t, region.Top+region.Height, 100)
	assert.GreaterOrEqual(t, region.Left, 0)
	assert.GreaterOrEqual(t, region.Top, 0)
}

func TestMoveClampsToImage(t *testing.T) {
	p := lens.Position{X: 0.4, Y: 0.4, Width: 0.2, Height: 0.2}

	moved := p.Move(10, 10)
	assert.InDelta(t, 0.8, moved.X, 1e-9)
	assert.InDelta(t, 0.8, moved.Y, 1e-9)

	moved = p.Move(-10, -10)
	assert.InDelta(t, 0.0, moved.X, 1e-9)
	assert.InDelta(t, 0.0, moved.Y, 1e-9)

	moved = p.Move(0.1, -0.1)
	assert.InDelta(t, 0.5, moved.X, 1e-9)
	assert.InDelta(t, 0.3, moved.Y, 1e-9)
}

func TestEqual(t *testing.T) {
	a := lens.Position{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}
	assert.True(t, a.Equal(lens.Position{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}))
	assert.False(t, a.Equal(lens.Position{X: 0.1, Y: 0.2, Width: 0.31, Height: 0.4}))
}

func TestIsFullCoverage(t *testing.T) {
	assert.True(t, lens.Position{Width: 1, Height: 1}.IsFullCoverage())
	assert.True(t, lens.Position{Width: 0.9995, Height: 0.9993}.IsFullCoverage())
	assert.False(t, lens.Position{Width: 0.9995, Height: 0.5}.IsFullCoverage())
}
