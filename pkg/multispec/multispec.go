package multispec

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

const (
	// DistroGroup is the spec group listing distro configs
	DistroGroup = "distroinfo"

	// VersionGroup is the spec group selected by --multispec-selector version=<v>
	VersionGroup = "version"

	distrosKey   = "distros"
	distroSuffix = ".yaml"
)

// Combination is one valid (version, distro config) pair
type Combination struct {
	// Distro is the distro config file name, e.g. rhel-9-x86_64.yaml
	Distro string
	// Version is the key selected from the version group, empty if the
	// multispec has no version group
	Version string
	// Selectors holds the selected key of every non-distro group
	Selectors map[string]string
}

// Multispec is a parsed multispec file
type Multispec struct {
	Version int
	// Groups maps group name to its entry keys (sorted), distroinfo excluded
	Groups map[string][]string
	// Distros maps a distroinfo entry to its normalized distro configs
	Distros map[string][]string
	Exclude []Rule
}

// Rule is one matrix exclude entry: group name to the keys it matches.
// The "distros" key holds normalized distro configs.
type Rule map[string][]string

// selector accepts a scalar or a list of scalars, keeping the literal text
// so "3.10" is not read as the float 3.1
type selector []string

func (s *selector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = selector{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(selector, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a scalar", item.Line)
			}
			out = append(out, item.Value)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", value.Line)
	}
}

type rawEntry struct {
	Distros selector `yaml:"distros"`
}

type rawMultispec struct {
	Version int                             `yaml:"version"`
	Specs   map[string]map[string]yaml.Node `yaml:"specs"`
	Matrix  struct {
		Exclude []map[string]selector `yaml:"exclude"`
	} `yaml:"matrix"`
}

// Parse decodes and validates a multispec document
func Parse(data []byte) (*Multispec, error) {
	var raw rawMultispec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse multispec")
	}

	distroInfo, ok := raw.Specs[DistroGroup]
	if !ok || len(distroInfo) == 0 {
		return nil, errors.Newf(errors.ErrConfigInvalid, "multispec has no %q spec group", DistroGroup)
	}

	ms := &Multispec{
		Version: raw.Version,
		Groups:  make(map[string][]string),
		Distros: make(map[string][]string),
	}

	for name, node := range distroInfo {
		var entry rawEntry
		if err := node.Decode(&entry); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid %s entry %q", DistroGroup, name)
		}
		if len(entry.Distros) == 0 {
			return nil, errors.Newf(errors.ErrConfigInvalid, "%s entry %q lists no distros", DistroGroup, name)
		}
		for _, distro := range entry.Distros {
			ms.Distros[name] = append(ms.Distros[name], NormalizeDistro(distro))
		}
	}

	for group, entries := range raw.Specs {
		if group == DistroGroup {
			continue
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		ms.Groups[group] = keys
	}

	for i, entry := range raw.Matrix.Exclude {
		rule := make(Rule, len(entry))
		for key, values := range entry {
			if key == distrosKey {
				for _, distro := range values {
					rule[key] = append(rule[key], NormalizeDistro(distro))
				}
				continue
			}
			if _, known := ms.Groups[key]; !known {
				return nil, errors.Newf(errors.ErrConfigInvalid,
					"matrix exclude entry %d refers to unknown spec group %q", i, key)
			}
			rule[key] = values
		}
		ms.Exclude = append(ms.Exclude, rule)
	}

	return ms, nil
}

// Load reads and parses the multispec at path
func Load(fsys filesystem.FS, path string) (*Multispec, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read multispec %s", path)
	}
	ms, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err), "multispec %s", path)
	}
	return ms, nil
}

// NormalizeDistro appends the .yaml suffix distgen expects on distro configs
func NormalizeDistro(distro string) string {
	if strings.HasSuffix(distro, distroSuffix) {
		return distro
	}
	return distro + distroSuffix
}

// Combinations expands the spec groups into every non-excluded
// combination, sorted by distro and then by selectors.
func (m *Multispec) Combinations() []Combination {
	logger := logging.GetLogger("multispec")

	distros := m.allDistros()

	groups := make([]string, 0, len(m.Groups))
	for group := range m.Groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	var combinations []Combination
	excluded := 0
	for _, distro := range distros {
		for _, selectors := range m.product(groups) {
			if m.isExcluded(distro, selectors) {
				excluded++
				continue
			}
			combinations = append(combinations, Combination{
				Distro:    distro,
				Version:   selectors[VersionGroup],
				Selectors: selectors,
			})
		}
	}

	logger.Debug().
		Int("distros", len(distros)).
		Int("combinations", len(combinations)).
		Int("excluded", excluded).
		Msg("Expanded multispec")

	return combinations
}

// allDistros returns the distinct distro configs across distroinfo entries
func (m *Multispec) allDistros() []string {
	seen := make(map[string]bool)
	var distros []string
	for _, list := range m.Distros {
		for _, distro := range list {
			if !seen[distro] {
				seen[distro] = true
				distros = append(distros, distro)
			}
		}
	}
	sort.Strings(distros)
	return distros
}

// product builds the cartesian product of one key per group
func (m *Multispec) product(groups []string) []map[string]string {
	result := []map[string]string{{}}
	for _, group := range groups {
		keys := m.Groups[group]
		if len(keys) == 0 {
			return nil
		}
		next := make([]map[string]string, 0, len(result)*len(keys))
		for _, partial := range result {
			for _, key := range keys {
				combo := make(map[string]string, len(partial)+1)
				for k, v := range partial {
					combo[k] = v
				}
				combo[group] = key
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}

func (m *Multispec) isExcluded(distro string, selectors map[string]string) bool {
	for _, rule := range m.Exclude {
		if len(rule) > 0 && rule.matches(distro, selectors) {
			return true
		}
	}
	return false
}

func (r Rule) matches(distro string, selectors map[string]string) bool {
	for key, values := range r {
		actual := distro
		if key != distrosKey {
			actual = selectors[key]
		}
		if !contains(values, actual) {
			return false
		}
	}
	return true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
