package targetsize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixmill/PixMill/internal/pkg/targetsize"
)

// linearProbe pretends every pixel costs half a byte, which makes the probed
// size strictly monotone in scale.
func linearProbe(_ context.Context, width, height, _ int) (int64, error) {
	return int64(float64(width) * float64(height) * 0.5), nil
}

func TestFindHitsToleranceBand(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 2000, SourceHeight: 2000, TargetMiB: 0.5, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, linearProbe)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Less(t, res.Scale, 1.0)

	target := 0.5 * targetsize.BytesPerMiB
	assert.GreaterOrEqual(t, float64(res.Bytes), target*(1-targetsize.Tolerance))
	assert.LessOrEqual(t, float64(res.Bytes), target*(1+targetsize.Tolerance))
	assert.LessOrEqual(t, res.Iterations, targetsize.MaxIterations)
	assert.Empty(t, res.Warning)
}

func TestFindRejectsNonPositiveTarget(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 800, SourceHeight: 600, TargetMiB: 0, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, func(context.Context, int, int, int) (int64, error) {
		t.Fatal("probe must not be called for a non-positive target")
		return 0, nil
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "target size must be greater than 0", res.Warning)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 600, res.Height)
	assert.InDelta(t, 1.0, res.Scale, 1e-9)
	assert.Zero(t, res.Iterations)
}

func TestFindDoesNotUpscaleSmallSource(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 100, SourceHeight: 100, TargetMiB: 1, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, linearProbe)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.InDelta(t, 1.0, res.Scale, 1e-9)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, 1, res.Iterations, "the full-size probe already settles it")
	assert.Contains(t, res.Warning, "not upscaling")
}

func TestFindReachableTargetNearFloor(t *testing.T) {
	// 90x90 source: half the bracket already sits below the 48px floor, but
	// the budget is still reachable at a scale above it.
	opts := targetsize.Options{
		SourceWidth:  90,
		SourceHeight: 90,
		TargetMiB:    1984.0 / targetsize.BytesPerMiB,
		Quality:      85,
	}

	res, err := targetsize.Find(context.Background(), opts, linearProbe)
	require.NoError(t, err)

	assert.True(t, res.Success, "warning: %s", res.Warning)
	assert.GreaterOrEqual(t, res.Width, targetsize.MinDimension)
	assert.GreaterOrEqual(t, res.Height, targetsize.MinDimension)
	assert.GreaterOrEqual(t, float64(res.Bytes), 1984*(1-targetsize.Tolerance))
	assert.LessOrEqual(t, float64(res.Bytes), 1984*(1+targetsize.Tolerance))
	assert.LessOrEqual(t, res.Iterations, targetsize.MaxIterations)
}

func TestFindSourceAlreadyAtFloor(t *testing.T) {
	// a 48px side cannot shrink at all, so an oversized result is final
	opts := targetsize.Options{SourceWidth: 48, SourceHeight: 48, TargetMiB: 0.0001, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, func(_ context.Context, w, h, _ int) (int64, error) {
		return int64(w * h), nil
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Warning, "minimum dimension")
	assert.Equal(t, 48, res.Width, "source below the floor is never upscaled")
	assert.Equal(t, 48, res.Height)
	assert.InDelta(t, 1.0, res.Scale, 1e-9)
	assert.Equal(t, 1, res.Iterations, "only the full-size probe runs")
}

func TestFindStopsAtMinimumDimension(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 100, SourceHeight: 100, TargetMiB: 0.0001, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, func(_ context.Context, w, h, _ int) (int64, error) {
		return int64(w * h), nil
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Warning, "minimum dimension")
	assert.Equal(t, targetsize.MinDimension, res.Width, "smaller side is clamped to the floor")
	assert.Equal(t, targetsize.MinDimension, res.Height)
	assert.InDelta(t, 0.48, res.Scale, 1e-9)
	assert.Equal(t, int64(48*48), res.Bytes, "floor dimensions still get probed")
}

func TestFindFloorKeepsAspectRatio(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 100, SourceHeight: 200, TargetMiB: 0.0001, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, func(_ context.Context, w, h, _ int) (int64, error) {
		return int64(w * h), nil
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, targetsize.MinDimension, res.Width)
	assert.Equal(t, 96, res.Height)
}

func TestFindExhaustsIterationBudget(t *testing.T) {
	// The probed size jumps over the tolerance band around w=1400, so the
	// bisection can narrow the bracket forever without ever landing inside.
	opts := targetsize.Options{SourceWidth: 2000, SourceHeight: 2000, TargetMiB: 0.5, Quality: 85}

	res, err := targetsize.Find(context.Background(), opts, func(_ context.Context, w, _, _ int) (int64, error) {
		if w > 1400 {
			return 600000, nil
		}
		return 400000, nil
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, targetsize.MaxIterations, res.Iterations)
	assert.Contains(t, res.Warning, "no output size within tolerance")
	assert.Equal(t, int64(600000), res.Bytes, "the closest probe wins")
}

func TestFindPropagatesProbeError(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 2000, SourceHeight: 2000, TargetMiB: 0.5, Quality: 85}
	probeErr := errors.New("encoder exploded")

	_, err := targetsize.Find(context.Background(), opts, func(context.Context, int, int, int) (int64, error) {
		return 0, probeErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, probeErr)
}

func TestFindProbesSequentially(t *testing.T) {
	opts := targetsize.Options{SourceWidth: 2000, SourceHeight: 2000, TargetMiB: 0.5, Quality: 85}

	inFlight := false
	calls := 0
	res, err := targetsize.Find(context.Background(), opts, func(ctx context.Context, w, h, q int) (int64, error) {
		require.False(t, inFlight, "probes must never overlap")
		inFlight = true
		defer func() { inFlight = false }()
		calls++
		return linearProbe(ctx, w, h, q)
	})
	require.NoError(t, err)

	assert.Equal(t, calls, res.Iterations)
	assert.Equal(t, 2, calls, "full-size probe plus one midpoint")
}

func TestEstimateFileSize(t *testing.T) {
	assert.Zero(t, targetsize.EstimateFileSize(0, 100, 85))
	assert.Zero(t, targetsize.EstimateFileSize(100, -1, 85))

	low := targetsize.EstimateFileSize(1000, 1000, 40)
	high := targetsize.EstimateFileSize(1000, 1000, 100)
	assert.Greater(t, high, low, "higher quality estimates more bytes")

	small := targetsize.EstimateFileSize(500, 500, 85)
	large := targetsize.EstimateFileSize(1000, 1000, 85)
	assert.Greater(t, large, small)
}

func TestEstimateDimensionsForTarget(t *testing.T) {
	w, h, scale := targetsize.EstimateDimensionsForTarget(targetsize.Options{
		SourceWidth: 4000, SourceHeight: 3000, TargetMiB: 0.5, Quality: 85,
	})
	assert.Less(t, scale, 1.0)
	assert.Less(t, w, 4000)
	assert.Less(t, h, 3000)
	assert.InDelta(t, 4.0/3.0, float64(w)/float64(h), 0.01, "aspect ratio preserved")

	// a generous budget never upscales
	w, h, scale = targetsize.EstimateDimensionsForTarget(targetsize.Options{
		SourceWidth: 200, SourceHeight: 100, TargetMiB: 100, Quality: 85,
	})
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.InDelta(t, 1.0, scale, 1e-9)
}
