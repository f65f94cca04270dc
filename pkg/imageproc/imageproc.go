package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Processor normalises uploaded images before they are stored: EXIF
// orientation is applied and the image is shrunk to fit the bounds.
type Processor struct {
	maxWidth  int
	maxHeight int
}

// New creates a Processor. Non-positive bounds disable resizing.
func New(maxWidth, maxHeight int) *Processor {
	return &Processor{maxWidth: maxWidth, maxHeight: maxHeight}
}

// Normalize decodes data, applies orientation and bounds, and re-encodes it
// in the format implied by filename. It returns the encoded bytes and their
// content type.
func (p *Processor) Normalize(data []byte, filename string) ([]byte, string, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if p.maxWidth > 0 && p.maxHeight > 0 {
		b := img.Bounds()
		if b.Dx() > p.maxWidth || b.Dy() > p.maxHeight {
			img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
		}
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, format); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), ContentType(filename), nil
}

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
