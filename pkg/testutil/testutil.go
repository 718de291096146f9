package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// Workspace is a temporary directory tree, removed when the test completes
type Workspace struct {
	t    *testing.T
	Root string
}

// NewWorkspace creates an empty workspace
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{t: t, Root: t.TempDir()}
}

// Path joins name onto the workspace root
func (w *Workspace) Path(name ...string) string {
	return filepath.Join(append([]string{w.Root}, name...)...)
}

// WriteFile creates a file and its parent directories, returning its path
func (w *Workspace) WriteFile(name, content string) string {
	w.t.Helper()

	path := w.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		w.t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// Mkdir creates a directory and its parents, returning its path
func (w *Workspace) Mkdir(name string) string {
	w.t.Helper()

	path := w.Path(name)
	if err := os.MkdirAll(path, 0755); err != nil {
		w.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// Symlink creates link pointing at the literal target text
func (w *Workspace) Symlink(target, link string) {
	w.t.Helper()

	path := w.Path(link)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.t.Fatalf("Failed to create parent directory for symlink %s: %v", path, err)
	}
	if err := os.Symlink(target, path); err != nil {
		w.t.Fatalf("Failed to create symlink %s -> %s: %v", path, target, err)
	}
}

// ReadFile returns the content of a workspace file
func (w *Workspace) ReadFile(name string) string {
	w.t.Helper()

	content, err := os.ReadFile(w.Path(name))
	if err != nil {
		w.t.Fatalf("Failed to read file %s: %v", name, err)
	}
	return string(content)
}

// AssertFileContent checks that path is a regular file holding expected
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		t.Fatalf("File %s does not exist", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if string(content) != expected {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, expected, string(content))
	}
}

// AssertSymlink checks that link is a symlink with the given target text
func AssertSymlink(t *testing.T, link, expectedTarget string) {
	t.Helper()

	info, err := os.Lstat(link)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		t.Fatalf("Symlink %s does not exist", link)
	}

	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Failed to read symlink %s: %v", link, err)
	}
	if target != expectedTarget {
		t.Errorf("Symlink %s target mismatch\nExpected: %s\nActual: %s", link, expectedTarget, target)
	}
}

// AssertNoFile checks that nothing exists at path, dangling symlinks included
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("File %s exists but should not", path)
	}
}

// AssertMode checks the permission bits of path
func AssertMode(t *testing.T, path string, expected fs.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	if info.Mode().Perm() != expected.Perm() {
		t.Errorf("File %s mode mismatch\nExpected: %o\nActual: %o", path, expected.Perm(), info.Mode().Perm())
	}
}

// SkipOnWindows skips tests relying on POSIX symlinks and modes
func SkipOnWindows(t *testing.T) {
	t.Helper()

	if os.PathSeparator == '\\' {
		t.Skip("Test not supported on Windows")
	}
}
