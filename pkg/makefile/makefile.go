// Package makefile reads simple variable assignments from a Makefile.
//
// Only plain assignments are understood: NAME = a b c, with :=, ?= and
// backslash continuations. Nothing is expanded.
package makefile

import (
	"regexp"
	"strings"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
)

// Lookup returns the whitespace separated words assigned to name. The
// first assignment wins.
func Lookup(data []byte, name string) ([]string, bool) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `\s*[:?]?=\s*(.*)$`)

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		match := pattern.FindStringSubmatch(lines[i])
		if match == nil {
			continue
		}

		value := match[1]
		for strings.HasSuffix(value, `\`) && i+1 < len(lines) {
			i++
			value = strings.TrimSuffix(value, `\`) + " " + lines[i]
		}
		value = strings.TrimSuffix(value, `\`)
		if idx := strings.Index(value, "#"); idx >= 0 {
			value = value[:idx]
		}
		return strings.Fields(value), true
	}
	return nil, false
}

// LoadVar reads the Makefile at path and returns the words of variable name
func LoadVar(fsys filesystem.FS, path, name string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	words, ok := Lookup(data, name)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no %s variable in %s", name, path).
			WithDetail("variable", name)
	}
	return words, nil
}
