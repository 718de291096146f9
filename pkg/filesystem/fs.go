package filesystem

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface required by the tools
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}

// Exists reports whether name resolves to an existing file, following symlinks
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// CopyFile copies src to dst, overwriting dst, and carries over the
// permission bits and modification time of src.
func CopyFile(fsys FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrInvalid}
	}

	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}

	if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}

	// WriteFile keeps the permissions of an existing destination
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
}
