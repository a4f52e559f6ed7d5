package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/lens"
	"github.com/pixmill/PixMill/internal/pkg/session"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

func TestLazyDefaults(t *testing.T) {
	store := session.NewStore()

	assert.Equal(t, crop.Default(), store.Crop("unknown"))
	assert.True(t, store.Transform("unknown").IsIdentity())
	assert.Equal(t, lens.Centered(1, 1), store.Lens("unknown"))
}

func TestCropIsStoredAsCopy(t *testing.T) {
	store := session.NewStore()

	c := crop.Crop{Active: true, Rect: crop.Rect{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5}}
	store.SetCrop("a", c)

	// mutating the caller's value must not leak into the store
	c.Rect.X = 0.9
	assert.InDelta(t, 0.1, store.Crop("a").Rect.X, 1e-12)

	// mutating a returned value must not leak either
	got := store.Crop("a")
	got.Rect.Width = 0.99
	assert.InDelta(t, 0.5, store.Crop("a").Rect.Width, 1e-12)
}

func TestSetTransformNormalizesRotation(t *testing.T) {
	store := session.NewStore()

	store.SetTransform("a", transform.Transform{RotateSteps: 5})
	assert.Equal(t, 1, store.Transform("a").RotateSteps)

	store.SetTransform("a", transform.Transform{RotateSteps: -1})
	assert.Equal(t, 3, store.Transform("a").RotateSteps)
}

func TestSetLensClamps(t *testing.T) {
	store := session.NewStore()

	store.SetLens("a", lens.Position{X: 0.9, Y: 0.9, Width: 0.5, Height: 0.5})
	p := store.Lens("a")
	assert.LessOrEqual(t, p.X+p.Width, 1.0+1e-9)
	assert.LessOrEqual(t, p.Y+p.Height, 1.0+1e-9)
}

func TestRemoveAndClear(t *testing.T) {
	store := session.NewStore()

	store.SetCrop("a", crop.Crop{Active: true, Rect: crop.FullRect()})
	store.SetTransform("a", transform.Transform{RotateSteps: 1})
	store.SetLens("a", lens.Position{X: 0, Y: 0, Width: 0.5, Height: 0.5})
	store.SetTransform("b", transform.Transform{FlipH: true})

	store.Remove("a")
	assert.False(t, store.Crop("a").Active)
	assert.True(t, store.Transform("a").IsIdentity())
	assert.False(t, store.Transform("b").IsIdentity(), "removing one item leaves the rest alone")

	store.Clear()
	assert.True(t, store.Transform("b").IsIdentity())
}
