package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileAccessError reports a target that could not be read or written.
type FileAccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// File holds a loaded data file.
type File struct {
	Path string
	Hash string // "sha256:<hex>"
	Raw  string
	Mode os.FileMode
}

// Load reads a data file from disk and hashes its content.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	return &File{
		Path: path,
		Hash: Hash(data),
		Raw:  string(data),
		Mode: info.Mode().Perm(),
	}, nil
}

// Hash returns the "sha256:<hex>" digest of data.
func Hash(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// Save replaces path with content. Either the whole content lands or the
// target is left as it was: content goes to a temp file in the same
// directory which is then renamed over the target. An existing target that
// is not writable is rejected before anything is written.
// A symlinked target is written through: the file it points to is replaced
// and the link is kept.
func Save(path, content string, mode os.FileMode) error {
	if err := CheckWritable(path); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	dest, err := resolveLink(path)
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err := writeAtomic(dest, []byte(content), mode); err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// CheckWritable opens an existing target for writing without truncating it.
// A missing target is fine; it will be created.
func CheckWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return f.Close()
}

// resolveLink follows symlinks so the rename lands on the real file.
// A missing target resolves to itself.
func resolveLink(path string) (string, error) {
	dest, err := filepath.EvalSymlinks(path)
	if errors.Is(err, os.ErrNotExist) {
		return path, nil
	}
	return dest, err
}

func writeAtomic(dest string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".mockfix-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
