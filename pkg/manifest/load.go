// Package manifest loads generator manifests into typed rules.
//
// A manifest is a YAML mapping of section name to a list of rules. Every
// rule of a known section is validated when the file is read, so a typo in
// one is reported before any rule runs. Other sections are only counted.
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

const (
	keySrc          = "src"
	keyDest         = "dest"
	keyMode         = "mode"
	keyCheckSymlink = "check_symlink"
)

// Load reads and parses the manifest at path
func Load(fsys filesystem.FS, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err), "manifest %s", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("path", path).
		Int("sections", len(m.Sections)).
		Int("rules", m.RuleCount()).
		Msg("Loaded manifest")

	return m, nil
}

// Parse decodes a manifest, keeping sections in document order. All
// problems found are reported together in one ErrConfigInvalid.
func Parse(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse manifest")
	}

	m := &Manifest{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigInvalid,
			"line %d: manifest must be a mapping of section name to rules", root.Line)
	}

	p := &parser{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		m.Sections = append(m.Sections, p.section(name, root.Content[i+1]))
	}

	if len(p.problems) > 0 {
		return nil, errors.Newf(errors.ErrConfigInvalid,
			"manifest is invalid:\n  - %s", strings.Join(p.problems, "\n  - ")).
			WithDetail("problems", p.problems)
	}
	return m, nil
}

type parser struct {
	problems []string
}

func (p *parser) addf(node *yaml.Node, format string, args ...interface{}) {
	p.problems = append(p.problems, fmt.Sprintf("line %d: ", node.Line)+fmt.Sprintf(format, args...))
}

func (p *parser) section(name string, node *yaml.Node) Section {
	section := Section{Name: name}

	// unrecognized sections are extension points and are not validated
	if !IsKnownSection(name) {
		if node.Kind == yaml.SequenceNode {
			section.Entries = len(node.Content)
		}
		return section
	}

	// an empty section is written as "COPY_RULES:" with no value
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return section
	}
	if node.Kind != yaml.SequenceNode {
		p.addf(node, "section %s must be a list of rules", name)
		return section
	}

	for _, item := range node.Content {
		if rule, ok := p.rule(name, item); ok {
			section.Rules = append(section.Rules, rule)
		}
	}
	return section
}

func (p *parser) rule(section string, node *yaml.Node) (Rule, bool) {
	if node.Kind != yaml.MappingNode {
		p.addf(node, "%s entry must be a mapping with src and dest", section)
		return nil, false
	}

	entry := Entry{Line: node.Line}
	checkSymlink := true
	hasSrc, hasDest := false, false
	before := len(p.problems)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case keySrc:
			hasSrc = true
			entry.Src = p.path(section, key.Value, value)
		case keyDest:
			hasDest = true
			entry.Dest = p.path(section, key.Value, value)
			if entry.Dest != "" {
				p.checkDest(section, value, entry.Dest)
			}
		case keyMode:
			entry.Mode = p.mode(section, value)
		case keyCheckSymlink:
			if section != SectionSymlink {
				p.addf(key, "%s entry: %s is only valid in %s", section, keyCheckSymlink, SectionSymlink)
				continue
			}
			if err := value.Decode(&checkSymlink); err != nil || value.Kind != yaml.ScalarNode {
				p.addf(value, "%s entry: %s must be true or false", section, keyCheckSymlink)
			}
		default:
			p.addf(key, "%s entry: unknown key %q", section, key.Value)
		}
	}

	if !hasSrc {
		p.addf(node, "%s entry: missing %s", section, keySrc)
	}
	if !hasDest {
		p.addf(node, "%s entry: missing %s", section, keyDest)
	}
	if len(p.problems) > before {
		return nil, false
	}

	switch section {
	case SectionCopy:
		return CopyRule{entry}, true
	case SectionSymlink:
		return SymlinkRule{Entry: entry, CheckSymlink: checkSymlink}, true
	case SectionDistgen:
		return DistgenRule{entry}, true
	default:
		return DistgenMultiRule{entry}, true
	}
}

func (p *parser) path(section, key string, value *yaml.Node) string {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		p.addf(value, "%s entry: %s must be a string", section, key)
		return ""
	}
	if strings.TrimSpace(value.Value) == "" {
		p.addf(value, "%s entry: %s must not be empty", section, key)
		return ""
	}
	return value.Value
}

func (p *parser) checkDest(section string, node *yaml.Node, dest string) {
	if filepath.IsAbs(dest) {
		p.addf(node, "%s entry: dest %q must be relative", section, dest)
		return
	}
	clean := filepath.Clean(dest)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		p.addf(node, "%s entry: dest %q escapes the version directory", section, dest)
	}
}

// mode reads octal digits, quoted or not: "0755", 0755 and 755 are equal
func (p *parser) mode(section string, value *yaml.Node) *fs.FileMode {
	if value.Kind != yaml.ScalarNode {
		p.addf(value, "%s entry: mode must be octal digits", section)
		return nil
	}
	text := strings.TrimPrefix(strings.TrimPrefix(value.Value, "0o"), "0O")
	perm, err := strconv.ParseUint(text, 8, 32)
	if err != nil || text == "" || perm > 0o7777 {
		p.addf(value, "%s entry: mode %q is not an octal file mode", section, value.Value)
		return nil
	}
	mode := fs.FileMode(perm & 0o777)
	if perm&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if perm&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if perm&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return &mode
}
