package imageprocessor

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// ExtractMetadata extracts EXIF metadata from an image file into the item.
// Files without EXIF data are not an error.
func ExtractMetadata(item *models.Image, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening image file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		log.Infof("[ImageProcessor] No EXIF data found for item %s: %v", item.UUID, err)
		return nil
	}

	// Camera model (strip quotes)
	if m, err := x.Get(exif.Model); err == nil {
		s := strings.TrimSpace(strings.Trim(m.String(), `"`))
		item.CameraModel = &s
	}

	if dt, err := x.DateTime(); err == nil {
		item.TakenAt = &dt
	}

	if lat, long, err := x.LatLong(); err == nil {
		item.Latitude = &lat
		item.Longitude = &long
	}

	if expTag, err := x.Get(exif.ExposureTime); err == nil {
		s := strings.Trim(expTag.String(), `"`)
		item.ExposureTime = &s
	}

	if fTag, err := x.Get(exif.FNumber); err == nil {
		if floatVal, err := fTag.Float(0); err == nil {
			s := fmt.Sprintf("f/%.1f", floatVal)
			item.Aperture = &s
		}
	}

	if isoTag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if isoVal, err := isoTag.Int(0); err == nil {
			iso := int(isoVal)
			item.ISO = &iso
		}
	}

	if flTag, err := x.Get(exif.FocalLength); err == nil {
		if floatVal, err := flTag.Float(0); err == nil {
			s := fmt.Sprintf("%.1fmm", floatVal)
			item.FocalLength = &s
		}
	}

	return nil
}

// OrientationTransform maps the file's EXIF orientation tag to the transform
// that shows the image upright, so imported photos start correctly oriented.
func OrientationTransform(filePath string) transform.Transform {
	f, err := os.Open(filePath)
	if err != nil {
		return transform.Identity()
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return transform.Identity()
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return transform.Identity()
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return transform.Identity()
	}

	switch orientation {
	case 2:
		return transform.Transform{FlipH: true}
	case 3:
		return transform.Transform{RotateSteps: 2}
	case 4:
		return transform.Transform{FlipV: true}
	case 5:
		return transform.Transform{RotateSteps: 1, FlipH: true}
	case 6:
		return transform.Transform{RotateSteps: 1}
	case 7:
		return transform.Transform{RotateSteps: 1, FlipV: true}
	case 8:
		return transform.Transform{RotateSteps: 3}
	default:
		return transform.Identity()
	}
}
