package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend keeps uploads in a directory served at <baseURL>/uploads/.
type LocalBackend struct {
	root      string
	urlPrefix string
}

func NewLocalBackend(root, publicBaseURL string) *LocalBackend {
	return &LocalBackend{
		root:      root,
		urlPrefix: strings.TrimRight(publicBaseURL, "/") + "/uploads/",
	}
}

func (b *LocalBackend) Put(_ context.Context, name string, body io.Reader, _ int64, _ string) (string, error) {
	if err := os.MkdirAll(b.root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(filepath.Join(b.root, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return b.urlPrefix + name, nil
}

func (b *LocalBackend) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(b.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (b *LocalBackend) Open(_ context.Context, name string) (*Object, error) {
	f, err := os.Open(filepath.Join(b.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrObjectNotFound
	}
	return &Object{Name: name, Body: f, Size: info.Size(), ContentType: ContentTypeFor(name)}, nil
}

func (b *LocalBackend) NameFromRef(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, b.urlPrefix)
	return name, ok && name != ""
}
