package targetsize

import (
	"context"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2/log"
)

const (
	// BytesPerMiB is the unit used for target-size budgets.
	BytesPerMiB = 1024 * 1024

	// Tolerance is the relative band around the target within which a probed
	// size counts as a hit.
	Tolerance = 0.10

	// MinDimension is the hard floor for the smaller output side. Below this
	// the search gives up instead of producing thumbnail-sized output.
	MinDimension = 48

	// MaxIterations caps the number of encode probe calls per search.
	MaxIterations = 20
)

// Options describes one target-size request.
type Options struct {
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	TargetMiB    float64 `json:"target_mib"`
	Quality      int     `json:"quality"`
}

// Result is the outcome of a search. Warning carries a human-readable reason
// whenever Success is false or the result needs a caveat; Iterations counts
// the probe calls made.
type Result struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Scale      float64 `json:"scale"`
	Bytes      int64   `json:"bytes"`
	Success    bool    `json:"success"`
	Warning    string  `json:"warning,omitempty"`
	Iterations int     `json:"iterations"`
}

// Probe reports the encoded byte size for the given output dimensions and
// quality. It is assumed (not verified) to be monotonically non-decreasing in
// width, height and quality for a fixed image.
type Probe func(ctx context.Context, width, height, quality int) (int64, error)

// Find runs a bisection on a uniform scale factor until the probed encoded
// size lands within ±10% of the target budget. The aspect ratio is always
// preserved and probes are strictly sequential: each midpoint depends on the
// previous probe's outcome. A probe error aborts the search; expected edge
// conditions (non-positive target, unreachable target, source already under
// target) are reported through Result, never as errors.
func Find(ctx context.Context, opts Options, probe Probe) (Result, error) {
	if opts.TargetMiB <= 0 {
		return Result{
			Width:   opts.SourceWidth,
			Height:  opts.SourceHeight,
			Scale:   1,
			Warning: "target size must be greater than 0",
		}, nil
	}

	target := opts.TargetMiB * BytesPerMiB
	lower := target * (1 - Tolerance)
	upper := target * (1 + Tolerance)

	iterations := 0
	probeAt := func(scale float64) (int, int, int64, error) {
		w, h := dimensionsAt(opts.SourceWidth, opts.SourceHeight, scale)
		bytes, err := probe(ctx, w, h, opts.Quality)
		iterations++
		return w, h, bytes, err
	}

	// Full size first: the image may already fit the budget.
	w, h, bytes, err := probeAt(1)
	if err != nil {
		return Result{}, fmt.Errorf("target size probe failed: %w", err)
	}
	if float64(bytes) <= upper {
		res := Result{Width: w, Height: h, Scale: 1, Bytes: bytes, Success: true, Iterations: iterations}
		if float64(bytes) < lower {
			res.Warning = "source image is already smaller than the target size, not upscaling"
		}
		return res, nil
	}

	best := Result{Width: w, Height: h, Scale: 1, Bytes: bytes, Iterations: iterations}
	bestDistance := math.Abs(float64(bytes) - target)

	fw, fh, fs := floorDimensions(opts.SourceWidth, opts.SourceHeight)
	unreachable := func(floorBytes int64) Result {
		return Result{
			Width:      fw,
			Height:     fh,
			Scale:      fs,
			Bytes:      floorBytes,
			Warning:    fmt.Sprintf("target of %.2f MiB is not reachable without going below the %dpx minimum dimension", opts.TargetMiB, MinDimension),
			Iterations: iterations,
		}
	}

	minSide := opts.SourceWidth
	if opts.SourceHeight < minSide {
		minSide = opts.SourceHeight
	}

	// The bracket starts at the scale that puts the smaller side exactly on
	// the floor, so no midpoint ever probes dimensions the result could not
	// legally have.
	lo, hi := 1.0, 1.0
	if minSide > MinDimension {
		lo = float64(MinDimension) / float64(minSide)
	}
	if lo >= hi {
		// The source is already at the floor, no smaller output exists.
		return unreachable(bytes), nil
	}

	for iterations < MaxIterations {
		mid := (lo + hi) / 2

		var cb int64
		w, h, cb, err = probeAt(mid)
		if err != nil {
			return Result{}, fmt.Errorf("target size probe failed: %w", err)
		}

		if distance := math.Abs(float64(cb) - target); distance < bestDistance {
			best = Result{Width: w, Height: h, Scale: mid, Bytes: cb}
			bestDistance = distance
		}

		if float64(cb) >= lower && float64(cb) <= upper {
			return Result{Width: w, Height: h, Scale: mid, Bytes: cb, Success: true, Iterations: iterations}, nil
		}

		if float64(cb) > upper {
			if w <= fw && h <= fh {
				// Even the floor-sized output overshoots the budget.
				return unreachable(cb), nil
			}
			hi = mid
		} else {
			lo = mid
		}
	}

	log.Warnf("[TargetSize] Iteration budget exhausted after %d probes (best %d bytes for %.2f MiB target)", iterations, best.Bytes, opts.TargetMiB)
	best.Iterations = iterations
	best.Warning = fmt.Sprintf("no output size within tolerance found after %d probes", iterations)
	return best, nil
}

// dimensionsAt applies a uniform scale to the source dimensions, rounded to
// the nearest pixel with a floor of 1.
func dimensionsAt(width, height int, scale float64) (int, int) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// floorDimensions clamps the smaller side to exactly MinDimension and scales
// the other side proportionally, rounded. A source already at or below the
// floor is returned unchanged, it is never upscaled.
func floorDimensions(width, height int) (int, int, float64) {
	if width <= 0 || height <= 0 {
		return MinDimension, MinDimension, 1
	}
	if width <= MinDimension || height <= MinDimension {
		return width, height, 1
	}

	var scale float64
	if width <= height {
		scale = float64(MinDimension) / float64(width)
		return MinDimension, int(math.Round(float64(height) * scale)), scale
	}
	scale = float64(MinDimension) / float64(height)
	return int(math.Round(float64(width) * scale)), MinDimension, scale
}
