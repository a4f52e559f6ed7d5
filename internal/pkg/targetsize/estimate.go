package targetsize

import "math"

// Empirically calibrated bytes-per-pixel model for JPEG-class encoders. The
// value grows roughly linearly from ~0.1 B/px at quality 40 to ~0.8 B/px at
// quality 100.
const (
	estimateMinQuality       = 40
	estimateMaxQuality       = 100
	estimateBytesPerPixelLow = 0.1
	estimateBytesPerPixelTop = 0.8
)

// EstimateFileSize returns a cheap analytic approximation of the encoded
// byte size for the given dimensions and quality. It never calls an encode
// probe and is meant for live UI display only, it is not authoritative.
func EstimateFileSize(width, height, quality int) int64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return int64(float64(width) * float64(height) * bytesPerPixel(quality))
}

// EstimateDimensionsForTarget inverts the bytes-per-pixel model to guess the
// output dimensions for a target budget, aspect ratio preserved and never
// upscaled.
func EstimateDimensionsForTarget(opts Options) (int, int, float64) {
	if opts.SourceWidth <= 0 || opts.SourceHeight <= 0 || opts.TargetMiB <= 0 {
		return opts.SourceWidth, opts.SourceHeight, 1
	}

	targetBytes := opts.TargetMiB * BytesPerMiB
	wantPixels := targetBytes / bytesPerPixel(opts.Quality)
	havePixels := float64(opts.SourceWidth) * float64(opts.SourceHeight)

	scale := math.Sqrt(wantPixels / havePixels)
	if scale >= 1 {
		return opts.SourceWidth, opts.SourceHeight, 1
	}

	w, h := dimensionsAt(opts.SourceWidth, opts.SourceHeight, scale)
	return w, h, scale
}

func bytesPerPixel(quality int) float64 {
	if quality < estimateMinQuality {
		quality = estimateMinQuality
	}
	if quality > estimateMaxQuality {
		quality = estimateMaxQuality
	}

	span := float64(estimateMaxQuality - estimateMinQuality)
	return estimateBytesPerPixelLow + (float64(quality-estimateMinQuality)/span)*(estimateBytesPerPixelTop-estimateBytesPerPixelLow)
}
