package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/pixmill/PixMill/internal/pkg/targetsize"
)

// countingWriter discards encoded bytes and keeps only their count.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// NewEncodeProbe returns a target-size probe for one source image. The file
// is decoded once up front; each call resizes and encodes to a counting
// writer, so the probe reports real encoded sizes without touching disk.
func NewEncodeProbe(filePath, format string) (targetsize.Probe, error) {
	src, err := imaging.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening image for probing: %w", err)
	}

	return func(ctx context.Context, width, height, quality int) (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		resized := imaging.Resize(src, width, height, imaging.Lanczos)

		var counter countingWriter
		if err := encodeTo(&counter, resized, format, quality); err != nil {
			return 0, err
		}
		return counter.n, nil
	}, nil
}

func encodeTo(w *countingWriter, img image.Image, format string, quality int) error {
	switch format {
	case FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
		if err != nil {
			return fmt.Errorf("error creating encoder options: %w", err)
		}
		return webp.Encode(w, img, options)
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG, "":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported probe format: %s", format)
	}
}
