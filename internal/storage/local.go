// Package storage keeps generated artifacts on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sentinel errors for stored files.
var (
	ErrNotFound   = errors.New("stored file not found")
	ErrInvalidRef = errors.New("invalid file reference")
)

// LocalStorage stores files under a root directory, bucketed by year and
// month. References returned by Save are slash-separated paths relative to
// the root.
type LocalStorage struct {
	root string
	now  func() time.Time
	log  zerolog.Logger
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root string, log zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", root, err)
	}
	return &LocalStorage{
		root: root,
		now:  time.Now,
		log:  log.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Save writes r to a new file whose name starts with prefix and ends with
// ext. The file only becomes visible once completely written.
func (s *LocalStorage) Save(ctx context.Context, prefix, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now().UTC()
	dir := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())))
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	if prefix == "" {
		prefix = uuid.New().String()
	}
	ref := path.Join(dir, fmt.Sprintf("%s-%d%s", prefix, now.UnixNano(), ext))
	dest, err := s.resolve(ref)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return "", fmt.Errorf("move file into place: %w", err)
	}

	s.log.Debug().Str("ref", ref).Msg("File stored")
	return ref, nil
}

// Open returns a reader for a stored file. The caller closes it.
func (s *LocalStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve maps a reference to a path inside the root, refusing anything that
// would escape it.
func (s *LocalStorage) resolve(ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "\\") {
		return "", ErrInvalidRef
	}
	clean := path.Clean(ref)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
