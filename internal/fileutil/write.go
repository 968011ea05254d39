package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	hxerrors "github.com/KeSHaMI/hexaframe/pkg/errors"
)

// Mode selects what WriteFile does when the target already exists.
type Mode int

const (
	// KeepExisting leaves an existing file untouched and reports it as skipped.
	KeepExisting Mode = iota
	// FailIfExists returns a conflict error for an existing file.
	FailIfExists
	// Overwrite replaces an existing file.
	Overwrite
)

// Outcome reports what WriteFile did.
type Outcome int

const (
	Created Outcome = iota
	Replaced
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Replaced:
		return "replaced"
	default:
		return "skipped"
	}
}

// WriteFile writes data to path, creating parent directories. mode decides
// what happens when path already exists.
func WriteFile(path string, data []byte, mode Mode) (Outcome, error) {
	const op = "fileutil.WriteFile"

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return Skipped, hxerrors.IOWrap(statErr, op, "failed to stat "+path)
	}

	if exists {
		switch mode {
		case KeepExisting:
			return Skipped, nil
		case FailIfExists:
			return Skipped, hxerrors.Conflict(op, "file exists: "+path).WithDetail("path", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Skipped, hxerrors.IOWrap(err, op, "failed to create directory for "+path)
	}
	if err := AtomicWriteFile(path, data, 0o644); err != nil {
		return Skipped, hxerrors.IOWrap(err, op, "failed to write "+path)
	}
	if exists {
		return Replaced, nil
	}
	return Created, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
