// Package fileutil provides the guarded file writes used by the hexa
// generators.
package fileutil

import (
	"io"
	"os"
	"path/filepath"

	hxerrors "github.com/KeSHaMI/hexaframe/pkg/errors"
)

// tempFile is the subset of *os.File an atomic write needs.
type tempFile interface {
	Name() string
	Chmod(os.FileMode) error
	Write([]byte) (int, error)
	Sync() error
	Close() error
}

// fsOps lets tests fail individual steps of an atomic write.
type fsOps struct {
	createTemp func(dir, pattern string) (tempFile, error)
	rename     func(oldpath, newpath string) error
	remove     func(path string) error
}

var osOps = fsOps{
	createTemp: func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) },
	rename:     os.Rename,
	remove:     os.Remove,
}

// ReadFileLimited returns the content of path, or an IO error when the file
// is larger than maxSize bytes.
func ReadFileLimited(path string, maxSize int64) ([]byte, error) {
	const op = "fileutil.ReadFileLimited"

	f, err := os.Open(path) // #nosec G304 -- paths come from the project root
	if err != nil {
		return nil, hxerrors.IOWrap(err, op, "failed to open "+path)
	}
	defer f.Close()

	// One extra byte tells an exact fit apart from an oversized file.
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, hxerrors.IOWrap(err, op, "failed to read "+path)
	}
	if int64(len(data)) > maxSize {
		return nil, hxerrors.IO(op, "file exceeds maximum size").
			WithDetail("path", path).
			WithDetail("max_bytes", maxSize)
	}
	return data, nil
}

// AtomicWriteFile writes data next to path and renames it into place, so a
// reader never observes a half-written file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return atomicWriteFile(path, data, perm, osOps)
}

func atomicWriteFile(path string, data []byte, perm os.FileMode, ops fsOps) (err error) {
	const op = "fileutil.AtomicWriteFile"

	tmp, err := ops.createTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return hxerrors.IOWrap(err, op, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = ops.remove(tmpPath)
		}
	}()

	steps := []struct {
		what string
		run  func() error
	}{
		{"chmod", func() error { return tmp.Chmod(perm) }},
		{"write", func() error { _, werr := tmp.Write(data); return werr }},
		{"sync", tmp.Sync},
		{"close", tmp.Close},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return hxerrors.IOWrap(err, op, s.what+" failed for "+tmpPath)
		}
	}
	if err := ops.rename(tmpPath, path); err != nil {
		// Close already ran; only the leftover temp file needs removing.
		_ = ops.remove(tmpPath)
		committed = true
		return hxerrors.IOWrap(err, op, "failed to move temp file into place")
	}
	committed = true
	return nil
}
