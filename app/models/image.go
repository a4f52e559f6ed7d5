package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is one imported item in the current editing session. Items are held
// in memory only and live until they are removed or the session is cleared.
type Image struct {
	UUID       string    `json:"uuid"`
	FilePath   string    `json:"file_path"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"` // file extension (.jpg, .png, ...)
	Format     string    `json:"format"`    // detected format (jpeg, png, webp, ...)
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	ImportedAt time.Time `json:"imported_at"`

	// EXIF metadata, nil when the file carries none
	CameraModel  *string    `json:"camera_model,omitempty"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	ExposureTime *string    `json:"exposure_time,omitempty"`
	Aperture     *string    `json:"aperture,omitempty"`
	ISO          *int       `json:"iso,omitempty"`
	FocalLength  *string    `json:"focal_length,omitempty"`
}

// NewImage creates an item with a fresh UUID and import timestamp.
func NewImage(filePath, fileName string) *Image {
	return &Image{
		UUID:       uuid.New().String(),
		FilePath:   filePath,
		FileName:   fileName,
		ImportedAt: time.Now(),
	}
}
