// Package files declares the file port: opening and saving binary
// files without assuming where they come from.
package files

import (
	"context"
	"errors"
)

// ErrRejectedExtension is returned when a file does not match the
// accept filter.
var ErrRejectedExtension = errors.New("file extension not accepted")

// ErrUnsupported is returned when the adapter lacks the capability an
// operation needs.
var ErrUnsupported = errors.New("operation not supported by this adapter")

// OpenOptions filters which files an open call accepts.
type OpenOptions struct {
	// Accept lists allowed extensions including the dot, e.g. ".epub".
	// Empty accepts everything.
	Accept []string
}

// SaveOptions controls where a saved file lands.
type SaveOptions struct {
	// Dir overrides the adapter's default output directory.
	Dir string
}

// File is an opened binary file.
type File struct {
	Name string
	Data []byte
	Size int64
	Type string // MIME type inferred from the extension
}

// Capability is decided once at adapter construction, never probed per
// call.
type Capability string

const (
	// CapabilityDirectoryScan means the adapter owns a readable
	// directory and can enumerate candidate files itself.
	CapabilityDirectoryScan Capability = "directory_scan"
	// CapabilityPathOnly means callers must name explicit paths.
	CapabilityPathOnly Capability = "path_only"
)

// Adapter is the file port.
type Adapter interface {
	// Capability reports what this adapter can do.
	Capability() Capability

	// OpenFile reads one named file, enforcing the accept filter.
	OpenFile(ctx context.Context, name string, opts OpenOptions) (*File, error)

	// OpenMultipleFiles enumerates and reads all accepted files.
	// Requires CapabilityDirectoryScan.
	OpenMultipleFiles(ctx context.Context, opts OpenOptions) ([]File, error)

	// SaveFile writes data under the given filename.
	SaveFile(ctx context.Context, data []byte, filename string, opts SaveOptions) error
}
