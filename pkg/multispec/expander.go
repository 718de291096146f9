package multispec

import (
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
)

// Expander turns a multispec file into its combinations
type Expander interface {
	ExpandCombinations(path string) ([]Combination, error)
}

// FileExpander expands multispec files read from a filesystem
type FileExpander struct {
	FS filesystem.FS
}

// NewFileExpander creates an Expander over fsys
func NewFileExpander(fsys filesystem.FS) *FileExpander {
	return &FileExpander{FS: fsys}
}

// ExpandCombinations loads the multispec at path and expands it
func (e *FileExpander) ExpandCombinations(path string) ([]Combination, error) {
	ms, err := Load(e.FS, path)
	if err != nil {
		return nil, err
	}
	return ms.Combinations(), nil
}

var _ Expander = (*FileExpander)(nil)
