package imageprocessor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// DefaultQuality is used when a config carries no quality.
const DefaultQuality = 85

// Export runs the full per-item pipeline: orient, crop, resize, encode. The
// geometry packages never touch pixels; this is the one place where the
// resolved parameters are applied to actual image data.
func Export(ctx context.Context, item *models.Image, cfg ExportConfig, outputDir string) ItemResult {
	if err := ctx.Err(); err != nil {
		return ItemResult{Status: ResultCanceled, Error: err.Error()}
	}

	SetExportStatus(item.UUID, StatusProcessing)

	img, err := imaging.Open(item.FilePath)
	if err != nil {
		return failed(item, fmt.Errorf("error opening source image: %w", err))
	}

	img = applyTransform(img, cfg.Transform)

	if crop.IsActive(cfg.Crop) {
		img, err = applyCrop(img, cfg.Crop.Rect)
		if err != nil {
			return failed(item, err)
		}
	}

	if cfg.Width > 0 || cfg.Height > 0 {
		img = imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return ItemResult{Status: ResultCanceled, Error: err.Error()}
	}

	outputPath := filepath.Join(outputDir, outputFileName(item, cfg.Format))
	if err := save(img, outputPath, cfg.Format, quality(cfg)); err != nil {
		return failed(item, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return failed(item, fmt.Errorf("error reading exported file: %w", err))
	}

	SetExportStatus(item.UUID, StatusCompleted)
	log.Infof("[ImageProcessor] Exported %s to %s (%d bytes)", item.UUID, outputPath, info.Size())

	return ItemResult{
		Status:      ResultCompleted,
		OutputPath:  outputPath,
		OutputBytes: info.Size(),
	}
}

// ReadDimensions fills in the pixel dimensions of an item from its file.
func ReadDimensions(item *models.Image) error {
	img, err := imaging.Open(item.FilePath)
	if err != nil {
		return fmt.Errorf("error opening image to get dimensions: %w", err)
	}
	item.Width = img.Bounds().Dx()
	item.Height = img.Bounds().Dy()
	return nil
}

func failed(item *models.Image, err error) ItemResult {
	log.Errorf("[ImageProcessor] Export of %s failed: %v", item.UUID, err)
	SetExportStatus(item.UUID, StatusFailed)
	return ItemResult{Status: ResultFailed, Error: err.Error()}
}

// applyTransform orients the image: clockwise 90° steps first, then flips.
// imaging's Rotate90/Rotate270 turn counter-clockwise, hence the inversion.
func applyTransform(img image.Image, t transform.Transform) image.Image {
	switch t.RotateSteps % 4 {
	case 1:
		img = imaging.Rotate270(img)
	case 2:
		img = imaging.Rotate180(img)
	case 3:
		img = imaging.Rotate90(img)
	}

	if t.FlipH {
		img = imaging.FlipH(img)
	}
	if t.FlipV {
		img = imaging.FlipV(img)
	}
	return img
}

// applyCrop cuts the normalized rect out of the already-oriented image.
func applyCrop(img image.Image, r crop.Rect) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	x := int(math.Round(r.X * float64(w)))
	y := int(math.Round(r.Y * float64(h)))
	cw := int(math.Round(r.Width * float64(w)))
	ch := int(math.Round(r.Height * float64(h)))

	rect := image.Rect(x, y, x+cw, y+ch).Intersect(image.Rect(0, 0, w, h))
	if rect.Empty() {
		return nil, errors.New("crop rectangle is outside the image bounds")
	}

	return imaging.Crop(img, rect.Add(bounds.Min)), nil
}

func save(img image.Image, outputPath, format string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	switch format {
	case FormatWebP:
		return saveWebP(img, outputPath, quality)
	case FormatPNG:
		return imaging.Save(img, outputPath)
	case FormatJPEG, "":
		return imaging.Save(img, outputPath, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// saveWebP saves an image in WebP format at the given quality.
func saveWebP(img image.Image, outputPath string, quality int) error {
	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating WebP file: %w", err)
	}
	defer output.Close()

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("error creating encoder options: %w", err)
	}

	if err := webp.Encode(output, img, options); err != nil {
		return fmt.Errorf("error encoding WebP image: %w", err)
	}
	return nil
}

func quality(cfg ExportConfig) int {
	if cfg.Quality <= 0 {
		return DefaultQuality
	}
	return cfg.Quality
}

func outputFileName(item *models.Image, format string) string {
	base := strings.TrimSuffix(item.FileName, filepath.Ext(item.FileName))
	if base == "" {
		base = item.UUID
	}

	ext := ".jpg"
	switch format {
	case FormatPNG:
		ext = ".png"
	case FormatWebP:
		ext = ".webp"
	}
	return base + ext
}
