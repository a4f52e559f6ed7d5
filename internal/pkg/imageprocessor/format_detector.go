package imageprocessor

import (
	"bytes"
	"fmt"
	"os"
)

// DetectFormat sniffs the image format from the file's magic bytes. The
// extension is not trusted: renamed files are common in batch imports.
func DetectFormat(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("error opening file for format detection: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := f.Read(header)
	if err != nil {
		return "", fmt.Errorf("error reading file header: %w", err)
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG, nil
	case bytes.HasPrefix(header, []byte{0x89, 0x50, 0x4E, 0x47}):
		return FormatPNG, nil
	case bytes.HasPrefix(header, []byte("GIF8")):
		return "gif", nil
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return FormatWebP, nil
	case bytes.HasPrefix(header, []byte("BM")):
		return "bmp", nil
	case bytes.HasPrefix(header, []byte{0x49, 0x49, 0x2A, 0x00}),
		bytes.HasPrefix(header, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return "tiff", nil
	default:
		return "", fmt.Errorf("unrecognized image format")
	}
}
