package versiontable

import (
	"regexp"

	"github.com/charmbracelet/glamour"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
)

var tableBlock = regexp.MustCompile(`(?s)(<!--\nTable start\n-->\n).*?(<!--\nTable end\n-->\n)`)

// Splice replaces the text between the table markers of readme with
// table. It returns the number of marker pairs found; readme is only
// changed when there is exactly one.
func Splice(readme, table string) (string, int) {
	matches := tableBlock.FindAllStringSubmatchIndex(readme, -1)
	if len(matches) != 1 {
		return readme, len(matches)
	}
	loc := matches[0]
	return readme[:loc[3]] + table + readme[loc[4]:], 1
}

// UpdateReadme splices table into the README at path and returns the
// number of marker pairs found. The file is only written for exactly one.
func UpdateReadme(fsys filesystem.FS, path, table string) (int, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrReadme, "failed to open %s", path)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrReadme, "failed to read %s", path)
	}

	updated, pairs := Splice(string(data), table)
	if pairs != 1 {
		return pairs, nil
	}
	if err := fsys.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return pairs, errors.Wrapf(err, errors.ErrReadme, "failed to write %s", path)
	}
	return pairs, nil
}

// Preview renders markdown for the terminal
func Preview(markdown string, width int) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
