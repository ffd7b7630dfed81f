// Package fileutil provides shared filesystem helpers for cfgtools.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for freshly created
// configuration files (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for configuration files
// intended to be read by the host control stack.
const ReadableByAll os.FileMode = 0o644

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so an interrupted write never leaves a
// half-written file at path.
//
// When path already exists its permission bits are preserved; otherwise the
// file is created with ReadableByAll. The temporary file is removed on every
// error path.
func WriteFileAtomic(path string, data []byte) error {
	mode := ReadableByAll
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fileutil: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: replacing %s: %w", path, err)
	}
	return nil
}
