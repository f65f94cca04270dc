package form

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

var decoder = newDecoder()

// Limits bounds a multipart upload.
type Limits struct {
	MaxBody  int64
	MaxImage int64
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		v, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(v)
	})

	return d
}

// ParseMultipart parses a multipart body of at most maxBody bytes and decodes
// its text fields into dst.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBody int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", errs.ErrValidation, tooLarge.Limit)
		}

		return fmt.Errorf("%w: invalid multipart form: %w", errs.ErrValidation, err)
	}

	if err := decoder.Decode(dst, r.MultipartForm.Value); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	return nil
}

// Image returns the image uploaded under field, or nil when there is none.
// ParseMultipart must be called first.
func Image(r *http.Request, field string, maxSize int64) (*upload.File, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	f, err := readImage(headers[0], maxSize)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// Images returns up to maxCount images uploaded under field.
func Images(r *http.Request, field string, maxSize int64, maxCount int) ([]upload.File, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) > maxCount {
		return nil, fmt.Errorf("%w: at most %d files are allowed in %s", errs.ErrValidation, maxCount, field)
	}

	files := make([]upload.File, 0, len(headers))
	for _, h := range headers {
		f, err := readImage(h, maxSize)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

func readImage(h *multipart.FileHeader, maxSize int64) (upload.File, error) {
	contentType := h.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return upload.File{}, fmt.Errorf("%w: invalid image type %q", errs.ErrValidation, contentType)
	}
	if h.Size > maxSize {
		return upload.File{}, fmt.Errorf("%w: %s exceeds %d bytes", errs.ErrValidation, h.Filename, maxSize)
	}

	src, err := h.Open()
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to open %s: %w", h.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to read %s: %w", h.Filename, err)
	}

	return upload.File{
		Filename:    h.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
