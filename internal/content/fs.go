package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSBackend keeps items as files directly inside Root.
type FSBackend struct {
	Root string
}

// NewFSBackend resolves root to an absolute path and creates it if missing.
func NewFSBackend(root string) (*FSBackend, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("content: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("content: create root: %w", err)
	}
	return &FSBackend{Root: abs}, nil
}

// path joins name under Root and rejects anything that would leave it.
func (b *FSBackend) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("content: invalid item name %q", name)
	}
	p := filepath.Join(b.Root, name)
	if filepath.Dir(p) != filepath.Clean(b.Root) {
		return "", fmt.Errorf("content: item name %q escapes root", name)
	}
	return p, nil
}

func (b *FSBackend) Read(_ context.Context, name string) ([]byte, error) {
	p, err := b.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

func (b *FSBackend) Exists(_ context.Context, name string) (bool, error) {
	p, err := b.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (b *FSBackend) Create(_ context.Context, name string, data []byte) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return ErrExist
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return err
	}
	return f.Close()
}

// Write goes through a temp file in Root and a rename so readers never see
// a half written item.
func (b *FSBackend) Write(_ context.Context, name string, data []byte) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.Root, ".pe-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

func (b *FSBackend) Remove(_ context.Context, name string) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotExist
	}
	return err
}

func (b *FSBackend) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		return nil, err
	}
	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Object{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	return out, nil
}

func (b *FSBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("content: root %s is not a directory", b.Root)
	}
	return nil
}
