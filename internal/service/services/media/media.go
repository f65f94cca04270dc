package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"github.com/corray333/backend-labs/shop/pkg/imageproc"
	"github.com/google/uuid"
)

type storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type processor interface {
	Normalize(data []byte, filename string) ([]byte, string, error)
}

// Store normalizes uploaded images and keeps them in object storage.
type Store struct {
	storage   storage
	processor processor
	newKey    func(filename string) string
}

// NewStore creates a new image store.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func NewStore(storage storage, processor processor) *Store {
	return &Store{
		storage:   storage,
		processor: processor,
		newKey:    randomKey,
	}
}

func randomKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// Save stores the image under a fresh key and returns its URL.
func (s *Store) Save(ctx context.Context, f upload.File) (string, error) {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return "", fmt.Errorf("%w: %s is not an image", errs.ErrValidation, f.Filename)
	}

	data, contentType, err := s.processor.Normalize(f.Data, f.Filename)
	if errors.Is(err, imageproc.ErrUnsupportedFormat) {
		return "", fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errs.ErrValidation, f.Filename, err)
	}

	url, err := s.storage.Put(ctx, s.newKey(f.Filename), data, contentType)
	if err != nil {
		return "", err
	}

	return url, nil
}

// Remove deletes the object behind url. Failures are logged and dropped.
func (s *Store) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}

	if err := s.storage.Delete(ctx, s.storage.KeyFromURL(url)); err != nil {
		slog.Error("Failed to delete image", "error", err, "url", url)
	}
}
