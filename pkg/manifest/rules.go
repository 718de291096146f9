package manifest

import (
	"io/fs"
)

// Known section names
const (
	SectionCopy         = "COPY_RULES"
	SectionSymlink      = "SYMLINK_RULES"
	SectionDistgen      = "DISTGEN_RULES"
	SectionDistgenMulti = "DISTGEN_MULTI_RULES"
)

// Entry holds the fields shared by every rule
type Entry struct {
	Src  string
	Dest string
	// Mode is applied to the destination after the rule ran, when set
	Mode *fs.FileMode
	// Line is the manifest line the rule starts on
	Line int
}

// Rule is one manifest entry, typed by the section it came from
type Rule interface {
	// Spec returns the common rule fields
	Spec() Entry
	// Tag is the short label printed when the rule is applied
	Tag() string
}

// CopyRule copies Src to Dest
type CopyRule struct{ Entry }

// SymlinkRule links Dest to the literal Src text
type SymlinkRule struct {
	Entry
	// CheckSymlink removes the link when it does not resolve. Defaults to true.
	CheckSymlink bool
}

// DistgenRule renders Src once per version with a single distro config
type DistgenRule struct{ Entry }

// DistgenMultiRule renders Src with the distro config named by Dest's suffix
type DistgenMultiRule struct{ Entry }

func (r CopyRule) Spec() Entry         { return r.Entry }
func (r SymlinkRule) Spec() Entry      { return r.Entry }
func (r DistgenRule) Spec() Entry      { return r.Entry }
func (r DistgenMultiRule) Spec() Entry { return r.Entry }

func (CopyRule) Tag() string         { return "CP" }
func (SymlinkRule) Tag() string      { return "LN" }
func (DistgenRule) Tag() string      { return "DG" }
func (DistgenMultiRule) Tag() string { return "DGM" }

// Section is a named, ordered group of rules. Sections with an
// unrecognized name keep no rules, only the number of entries they list.
type Section struct {
	Name    string
	Rules   []Rule
	Entries int
}

// Known reports whether the section name is one the generator acts on
func (s Section) Known() bool {
	return IsKnownSection(s.Name)
}

// IsKnownSection reports whether name is one of the four rule sections
func IsKnownSection(name string) bool {
	switch name {
	case SectionCopy, SectionSymlink, SectionDistgen, SectionDistgenMulti:
		return true
	}
	return false
}

// Manifest is the ordered list of sections as they appear in the file
type Manifest struct {
	Sections []Section
}

// RuleCount returns the number of rules across all sections
func (m *Manifest) RuleCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Rules)
	}
	return n
}
