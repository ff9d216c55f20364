// Package local implements connectors.FileStore on directories. Ids are
// absolute file paths and folders are directory paths.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"edoparser/internal"
	"edoparser/internal/connectors"
)

const maxNameAttempts = 10000

type Store struct{}

func New() *Store { return &Store{} }

// List returns the non-hidden PDFs directly inside folder, sorted by name
// ignoring case.
func (s *Store) List(ctx context.Context, folder string) ([]internal.SourceFile, error) {
	dir, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %s: %w", dir, connectors.ErrNotFound)
		}
		return nil, err
	}

	out := make([]internal.SourceFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		out = append(out, internal.SourceFile{
			ID:       filepath.Join(dir, name),
			Name:     name,
			MimeType: "application/pdf",
			Parents:  []string{dir},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) Download(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", id, connectors.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Move renames id into folder. An existing target name gets a "-(n)" suffix
// before the extension.
func (s *Store) Move(ctx context.Context, id, folder, newName string) (string, error) {
	if _, err := os.Stat(id); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("move %s: %w", id, connectors.ErrNotFound)
		}
		return "", err
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	if newName == "" {
		newName = filepath.Base(id)
	}
	target, err := freePath(folder, newName)
	if err != nil {
		return "", err
	}
	if err := os.Rename(id, target); err != nil {
		return "", fmt.Errorf("move %s: %w", id, err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}
	return abs, nil
}

func (s *Store) PreviewLink(id string) string {
	abs, err := filepath.Abs(id)
	if err != nil {
		abs = id
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

func freePath(folder, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := filepath.Join(folder, name)
	for n := 1; n <= maxNameAttempts; n++ {
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		candidate = filepath.Join(folder, fmt.Sprintf("%s-(%d)%s", base, n, ext))
	}
	return "", fmt.Errorf("no free name for %s in %s", name, folder)
}
