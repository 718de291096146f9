// Package filesystem provides the filesystem abstraction used by the
// generator and the supplementary tools.
//
// NewOS talks to the real filesystem. NewAferoFS adapts any afero.Fs, which
// gives tests an in-memory tree through NewMemory. Symlinks are only
// available when the afero backend supports them (the OS backend does,
// MemMapFs does not).
package filesystem
