package imageprocessor

import (
	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// Format names for encoded output.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ExportConfig carries everything the exporter needs for one item. The
// geometry core computes these parameters; the exporter only consumes them.
type ExportConfig struct {
	Transform transform.Transform `json:"transform"`
	Crop      crop.Crop           `json:"crop"`

	// Output dimensions after transform and crop. Zero keeps the source
	// dimension; a single zero preserves the aspect ratio.
	Width  int `json:"width"`
	Height int `json:"height"`

	Format  string `json:"format"`
	Quality int    `json:"quality"` // 40..100
}

// ResultStatus is the terminal status of a single-item export.
type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
	ResultCanceled  ResultStatus = "canceled"
)

// ItemResult reports the outcome of exporting one item.
type ItemResult struct {
	Status      ResultStatus `json:"status"`
	OutputPath  string       `json:"output_path,omitempty"`
	OutputBytes int64        `json:"output_bytes,omitempty"`
	Error       string       `json:"error,omitempty"`
}
