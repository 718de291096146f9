// Package quay publishes repository descriptions to quay.io.
package quay

import (
	"path/filepath"
	"strings"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
)

const (
	descriptionHeading = "Description"
	// the heading is followed by its underline and an empty line
	headingLines = 3
)

// ExtractDescription returns the part of a README after its Description
// heading
func ExtractDescription(readme string) (string, bool) {
	lines := strings.SplitAfter(readme, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, descriptionHeading) {
			continue
		}
		if i+headingLines >= len(lines) {
			return "", true
		}
		return strings.Join(lines[i+headingLines:], ""), true
	}
	return "", false
}

// LoadReadmeDescription reads <dir>/README.md and extracts its description
func LoadReadmeDescription(fsys filesystem.FS, dir string) (string, error) {
	path := filepath.Join(dir, "README.md")
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrReadme, "failed to read %s", path)
	}
	description, ok := ExtractDescription(string(data))
	if !ok {
		return "", errors.Newf(errors.ErrReadme, "%s has no %s section", path, descriptionHeading)
	}
	return description, nil
}
