package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var mimeByExtension = map[string]string{
	".epub": "application/epub+zip",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
}

// LocalAdapter is the filesystem implementation of the file port. Its
// capability is fixed when it is constructed: a readable root
// directory grants directory scanning, otherwise only explicit paths
// work.
type LocalAdapter struct {
	root       string
	capability Capability
}

// NewLocalAdapter creates an adapter rooted at dir. An empty or
// unreadable dir yields a path-only adapter.
func NewLocalAdapter(dir string) *LocalAdapter {
	capability := CapabilityPathOnly
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			capability = CapabilityDirectoryScan
		}
	}
	return &LocalAdapter{root: dir, capability: capability}
}

func (a *LocalAdapter) Capability() Capability {
	return a.capability
}

// OpenFile reads one file. Relative names resolve against the adapter
// root when one is configured.
func (a *LocalAdapter) OpenFile(_ context.Context, name string, opts OpenOptions) (*File, error) {
	path := name
	if !filepath.IsAbs(path) && a.root != "" {
		path = filepath.Join(a.root, path)
	}

	if !accepted(path, opts.Accept) {
		return nil, fmt.Errorf("%w: %s", ErrRejectedExtension, filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return &File{
		Name: filepath.Base(path),
		Data: data,
		Size: int64(len(data)),
		Type: mimeFor(path),
	}, nil
}

// OpenMultipleFiles reads every accepted file directly under the root,
// sorted by name for deterministic import order.
func (a *LocalAdapter) OpenMultipleFiles(ctx context.Context, opts OpenOptions) ([]File, error) {
	if a.capability != CapabilityDirectoryScan {
		return nil, fmt.Errorf("%w: directory scan", ErrUnsupported)
	}

	entries, err := os.ReadDir(a.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", a.root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !accepted(entry.Name(), opts.Accept) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	result := make([]File, 0, len(names))
	for _, name := range names {
		file, err := a.OpenFile(ctx, name, opts)
		if err != nil {
			return nil, err
		}
		result = append(result, *file)
	}
	return result, nil
}

// SaveFile writes data into the output directory, creating it if
// needed.
func (a *LocalAdapter) SaveFile(_ context.Context, data []byte, filename string, opts SaveOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = a.root
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save file %s: %w", path, err)
	}
	return nil
}

// ListCandidates enumerates accepted file names under the root without
// reading them. Used by the library scanner to decide what to enqueue.
func (a *LocalAdapter) ListCandidates(opts OpenOptions) ([]string, error) {
	if a.capability != CapabilityDirectoryScan {
		return nil, fmt.Errorf("%w: directory scan", ErrUnsupported)
	}

	entries, err := os.ReadDir(a.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", a.root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !accepted(entry.Name(), opts.Accept) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func accepted(name string, accept []string) bool {
	if len(accept) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range accept {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

func mimeFor(name string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return "application/octet-stream"
}
