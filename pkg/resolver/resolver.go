// Package resolver maps destination files and versions to the distro config
// they are rendered with.
package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
)

// VersionDistroMap maps a version to the distinct distro configs valid for it
type VersionDistroMap map[string][]string

// Distros returns a sorted copy of the distro configs registered for version
func (m VersionDistroMap) Distros(version string) []string {
	distros := append([]string(nil), m[version]...)
	sort.Strings(distros)
	return distros
}

// suffixRule maps a filename suffix with a numeric release to a distro config
type suffixRule struct {
	pattern *regexp.Regexp
	format  string
}

// Checked in order, first match wins
var suffixRules = []suffixRule{
	{regexp.MustCompile(`\.rhel(\d+)$`), "rhel-%s-x86_64.yaml"},
	{regexp.MustCompile(`\.c(\d+)s$`), "centos-stream-%s-x86_64.yaml"},
	{regexp.MustCompile(`\.centos(\d+)$`), "centos-%s-x86_64.yaml"},
}

const (
	fedoraSuffix = ".fedora"
	fedoraPrefix = "fedora"
)

// BuildVersionDistroMap collects the distinct distro configs per version
func BuildVersionDistroMap(combinations []multispec.Combination) VersionDistroMap {
	m := make(VersionDistroMap)
	seen := make(map[string]map[string]bool)
	for _, c := range combinations {
		if seen[c.Version] == nil {
			seen[c.Version] = make(map[string]bool)
		}
		if seen[c.Version][c.Distro] {
			continue
		}
		seen[c.Version][c.Distro] = true
		m[c.Version] = append(m[c.Version], c.Distro)
	}
	return m
}

// ResolveDistroForFilename returns the distro config a per-distro file such
// as Dockerfile.rhel8 is rendered from. An empty result with a nil error
// means the version has no Fedora combination.
func ResolveDistroForFilename(filename, version string, m VersionDistroMap) (string, error) {
	for _, rule := range suffixRules {
		if match := rule.pattern.FindStringSubmatch(filename); match != nil {
			return strings.Replace(rule.format, "%s", match[1], 1), nil
		}
	}

	if !strings.HasSuffix(filename, fedoraSuffix) {
		return "", errors.Newf(errors.ErrUnknownSuffix,
			"%s does not match any of .rhelN, .cNs, .centosN or .fedora", filename).
			WithDetail("filename", filename)
	}

	var fedora []string
	for _, distro := range m.Distros(version) {
		if strings.HasPrefix(distro, fedoraPrefix) {
			fedora = append(fedora, distro)
		}
	}

	switch len(fedora) {
	case 0:
		return "", nil
	case 1:
		return fedora[0], nil
	default:
		return "", errors.Newf(errors.ErrAmbiguousDistro,
			"version %s has more than one fedora distro config for %s: %s",
			version, filename, strings.Join(fedora, ", ")).
			WithDetail("version", version).
			WithDetail("distros", fedora)
	}
}

// ResolveDistroForSingleRender picks the distro config used by rules whose
// output does not vary per distro: the lexicographically greatest one.
func ResolveDistroForSingleRender(version string, m VersionDistroMap) (string, error) {
	distros := m.Distros(version)
	if len(distros) == 0 {
		return "", errors.Newf(errors.ErrNoDistro, "no distro config registered for version %s", version).
			WithDetail("version", version)
	}
	return distros[len(distros)-1], nil
}
