// Package storage persists product images and resolves the references stored on products.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrNotLocal means the reference points at storage this service does not host.
	ErrNotLocal       = errors.New("reference is not hosted by this service")
	ErrInvalidName    = errors.New("invalid file name")
	ErrObjectNotFound = errors.New("object not found")
)

// AllowedExtensions is the image extension allow-list, lowercase without the dot.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "svg", "webp"}

const fallbackContentType = "application/octet-stream"

// Upload is an incoming file.
type Upload struct {
	Filename    string
	Body        io.Reader
	Size        int64
	ContentType string
}

// Object is a stored file opened for reading. Callers close Body.
type Object struct {
	Name        string
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Backend is a place uploads live. Names are flat, with no path separators.
type Backend interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes name. A missing object is not an error.
	Delete(ctx context.Context, name string) error
	Open(ctx context.Context, name string) (*Object, error)
	// NameFromRef extracts the object name when ref points into this backend.
	NameFromRef(ref string) (string, bool)
}

// Manager applies naming and allow-list rules on top of a Backend.
type Manager struct {
	backend Backend
	log     *zap.Logger
}

func NewManager(backend Backend, log *zap.Logger) *Manager {
	return &Manager{backend: backend, log: log}
}

// Store saves up under a randomized name and returns its public URL.
func (m *Manager) Store(ctx context.Context, up *Upload) (string, error) {
	ext, ok := AllowedExtension(up.Filename)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, up.Filename)
	}

	safe := SanitizeFilename(up.Filename)
	if safe == "" {
		safe = "image." + ext
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "_" + safe

	ct := ContentTypeFor(name)
	if ct == fallbackContentType && up.ContentType != "" {
		ct = up.ContentType
	}

	ref, err := m.backend.Put(ctx, name, up.Body, up.Size, ct)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	m.log.Info("Stored upload", zap.String("name", name), zap.Int64("size", up.Size))
	return ref, nil
}

// Replace stores up and then removes the file behind oldRef if this service hosts it.
// Failing to remove the old file is logged, never returned.
func (m *Manager) Replace(ctx context.Context, oldRef string, up *Upload) (string, error) {
	ref, err := m.Store(ctx, up)
	if err != nil {
		return "", err
	}
	m.Delete(ctx, oldRef)
	return ref, nil
}

// Delete removes the file behind ref. Remote references are ignored.
func (m *Manager) Delete(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	name, ok := m.backend.NameFromRef(ref)
	if !ok {
		m.log.Debug("Skipping delete of remote image", zap.String("ref", ref))
		return
	}
	if !validName(name) {
		m.log.Warn("Refusing to delete invalid upload name", zap.String("ref", ref))
		return
	}
	if err := m.backend.Delete(ctx, name); err != nil {
		m.log.Warn("Failed to delete upload", zap.String("name", name), zap.Error(err))
	}
}

// Open returns the stored file for a reference URL or a bare upload name.
func (m *Manager) Open(ctx context.Context, refOrName string) (*Object, error) {
	name := refOrName
	if strings.Contains(refOrName, "://") {
		n, ok := m.backend.NameFromRef(refOrName)
		if !ok {
			return nil, ErrNotLocal
		}
		name = n
	}
	if !validName(name) {
		return nil, ErrInvalidName
	}
	return m.backend.Open(ctx, name)
}

// AllowedExtension returns the lowercase extension of filename and whether it is allowed.
func AllowedExtension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	return ext, lo.Contains(AllowedExtensions, ext)
}

// SanitizeFilename reduces name to ASCII letters, digits, '_', '-' and '.'.
// Whitespace becomes '_' and leading dots or underscores are removed.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// ContentTypeFor guesses a MIME type from the file extension.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return fallbackContentType
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\") && !strings.Contains(name, "..")
}
