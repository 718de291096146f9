// Package versiontable renders the README table listing which distro
// images exist for every image version.
package versiontable

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sclorg/container-common-scripts/pkg/config"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

const (
	dockerfileMarker = "Dockerfile."
	excludeMarker    = ".exclude-"
	checkMark        = "✓"
)

// Distro is one table column
type Distro struct {
	Key   string
	Name  string
	Image string
}

// Table is the scanned availability of distro images per version
type Table struct {
	// Name is the image name, e.g. python
	Name     string
	Distros  []Distro
	Versions []string
	// Available maps version to the distro keys built for it
	Available map[string]map[string]bool
	// Unsupported maps version to Dockerfile distros missing from the
	// configured distros
	Unsupported map[string][]string
}

// Scanner builds tables from version directories
type Scanner struct {
	FS      filesystem.FS
	Distros map[string]config.DistroInfo
	logger  zerolog.Logger
}

// NewScanner creates a scanner knowing the given distros
func NewScanner(fsys filesystem.FS, distros map[string]config.DistroInfo) *Scanner {
	return &Scanner{FS: fsys, Distros: distros, logger: logging.GetLogger("versiontable")}
}

// Scan reads <root>/<version> for every version. A version offers a distro
// when it has Dockerfile.<distro> and no .exclude-<distro> file.
func (s *Scanner) Scan(root, name string, versions []string) (*Table, error) {
	if len(versions) == 0 {
		return nil, errors.New(errors.ErrUsage, "no versions to build the table for")
	}

	table := &Table{
		Name:        name,
		Versions:    versions,
		Available:   make(map[string]map[string]bool),
		Unsupported: make(map[string][]string),
	}
	used := make(map[string]bool)

	for _, version := range versions {
		dir := filepath.Join(root, version)
		entries, err := s.FS.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list version directory %s", dir)
		}

		dockerfiles := make(map[string]bool)
		excluded := make(map[string]bool)
		for _, entry := range entries {
			if d, ok := after(entry.Name(), dockerfileMarker); ok {
				dockerfiles[d] = true
			}
			if d, ok := after(entry.Name(), excludeMarker); ok {
				excluded[d] = true
			}
		}

		table.Available[version] = make(map[string]bool)
		for d := range dockerfiles {
			if _, known := s.Distros[d]; !known {
				table.Unsupported[version] = append(table.Unsupported[version], d)
				continue
			}
			used[d] = true
			if !excluded[d] {
				table.Available[version][d] = true
			}
		}

		if unsupported := table.Unsupported[version]; len(unsupported) > 0 {
			sort.Strings(unsupported)
			s.logger.Warn().
				Str("version", version).
				Strs("distros", unsupported).
				Msg("Dockerfiles for unsupported distros should be deleted")
		}
	}

	keys := make([]string, 0, len(used))
	for d := range used {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return NaturalLess(keys[i], keys[j]) })

	for _, key := range keys {
		info := s.Distros[key]
		table.Distros = append(table.Distros, Distro{Key: key, Name: info.Name, Image: info.Image})
	}

	return table, nil
}

// after returns what follows the first marker in name
func after(name, marker string) (string, bool) {
	idx := strings.Index(name, marker)
	if idx < 0 || idx+len(marker) == len(name) {
		return "", false
	}
	return name[idx+len(marker):], true
}

// ImageRef returns the image reference of distro for version
func (t *Table) ImageRef(d Distro, version string) string {
	return fmt.Sprintf(d.Image, t.Name+"-"+strings.ReplaceAll(version, ".", ""))
}

// Markdown renders the table
func (t *Table) Markdown() string {
	var b strings.Builder

	names := make([]string, 0, len(t.Distros))
	for _, d := range t.Distros {
		names = append(names, d.Name)
	}
	fmt.Fprintf(&b, "||%s|\n", strings.Join(names, "|"))
	fmt.Fprintf(&b, "|:--|%s\n", strings.Repeat(":--:|", len(t.Distros)))

	for _, version := range t.Versions {
		b.WriteString("|" + version)
		for _, d := range t.Distros {
			b.WriteString("|")
			if t.Available[version][d.Key] {
				fmt.Fprintf(&b, "<details><summary>%s</summary>`%s`</details>", checkMark, t.ImageRef(d, version))
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}
