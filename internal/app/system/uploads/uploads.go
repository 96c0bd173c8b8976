// Package uploads stores and removes content images in a file storage backend.
//
// Each content kind owns one flat directory. Stored names follow the
// "<unix-millis>-<original filename>" convention so records reference
// images by filename only.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// Storage is the subset of a waffle storage backend the manager needs.
// Local and S3 stores from pantry/storage satisfy it.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// File is one uploaded file.
type File struct {
	Filename    string // original client filename
	ContentType string
	Reader      io.Reader
}

// RemoveFailure describes an image that could not be removed.
type RemoveFailure struct {
	Filename    string
	StoragePath string
	Err         error
}

// Manager saves and removes images under a single directory.
type Manager struct {
	store  Storage
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for filename prefixes.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager writing under dir in the given storage.
func New(store Storage, dir string, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:  store,
		dir:    strings.Trim(dir, "/"),
		now:    time.Now,
		logger: logger,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Dir returns the directory images are stored in.
func (m *Manager) Dir() string {
	return m.dir
}

// StoredName returns the storage filename for an original filename.
// Any client-supplied directory components are dropped.
func (m *Manager) StoredName(original string) string {
	return fmt.Sprintf("%d-%s", m.now().UnixMilli(), baseName(original))
}

// Path returns the storage path for a stored filename.
func (m *Manager) Path(name string) string {
	if m.dir == "" {
		return baseName(name)
	}
	return m.dir + "/" + baseName(name)
}

// URL returns the public URL for a stored filename.
func (m *Manager) URL(name string) string {
	return m.store.URL(m.Path(name))
}

// Save writes each file to storage and returns the stored names in input
// order. If any write fails, files already written by this call are
// removed and the error is returned.
func (m *Manager) Save(ctx context.Context, files []File) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, f := range files {
		name := m.StoredName(f.Filename)
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := m.store.Put(ctx, m.Path(name), f.Reader, &storage.PutOptions{ContentType: contentType}); err != nil {
			for _, failure := range m.Remove(ctx, names) {
				m.logger.Warn("failed to roll back uploaded image",
					zap.String("path", failure.StoragePath),
					zap.Error(failure.Err))
			}
			return nil, fmt.Errorf("store image %q: %w", f.Filename, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes each named image. It never fails as a whole; individual
// failures are logged and returned so callers can report them. A file that
// is already gone is logged but not returned since nothing is left behind.
func (m *Manager) Remove(ctx context.Context, names []string) []RemoveFailure {
	var failures []RemoveFailure
	for _, name := range names {
		p := m.Path(name)
		if err := m.store.Delete(ctx, p); err != nil {
			if IsMissing(err) {
				m.logger.Warn("image already missing",
					zap.String("path", p))
				continue
			}
			m.logger.Warn("failed to delete image",
				zap.String("path", p),
				zap.Error(err))
			failures = append(failures, RemoveFailure{
				Filename:    baseName(name),
				StoragePath: p,
				Err:         err,
			})
		}
	}
	return failures
}

// IsMissing reports whether err means the file is already gone. waffle
// backends return storage.ErrNotFound; fs.ErrNotExist covers plain
// filesystem implementations.
func IsMissing(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// baseName strips directory components, including Windows-style ones
// some browsers send.
func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	b := path.Base(name)
	if b == "." || b == "/" || b == ".." {
		return ""
	}
	return b
}
