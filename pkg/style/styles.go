// Package style renders the short status tags and warnings the tools print.
//
// Styles are defined in the embedded styles.yaml by semantic name. When
// colors are disabled every Render call returns its input unchanged, so
// piped output stays byte-for-byte plain.
package style

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var embeddedStyles []byte

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition referring to colors by name
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

// Definitions is the parsed styles.yaml
type Definitions struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// ParseDefinitions decodes a styles document
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}
	for name, def := range defs.Styles {
		if def.Foreground == "" {
			continue
		}
		if _, ok := defs.Colors[def.Foreground]; !ok {
			return nil, fmt.Errorf("style %s uses undefined color %s", name, def.Foreground)
		}
	}
	return &defs, nil
}

// Styles renders text with named styles
type Styles struct {
	enabled bool
	styles  map[string]lipgloss.Style
}

// New creates styles writing to w. With enabled false all rendering is a
// no-op.
func New(w io.Writer, enabled bool) *Styles {
	s := &Styles{enabled: enabled, styles: make(map[string]lipgloss.Style)}
	if !enabled {
		return s
	}

	renderer := lipgloss.NewRenderer(w)
	if f, ok := w.(*os.File); !ok || !Enabled(f) {
		// forced colors on a pipe: nothing to query, assume a dark terminal
		renderer.SetColorProfile(termenv.ANSI256)
		renderer.SetHasDarkBackground(true)
	}

	defs, err := ParseDefinitions(embeddedStyles)
	if err != nil {
		// the embedded file is covered by tests; fall back to plain text
		s.enabled = false
		return s
	}

	for name, def := range defs.Styles {
		st := renderer.NewStyle().Bold(def.Bold).Underline(def.Underline)
		if c, ok := defs.Colors[def.Foreground]; ok {
			st = st.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
		}
		s.styles[name] = st
	}
	return s
}

// Plain returns styles that never add escape codes
func Plain() *Styles {
	return New(io.Discard, false)
}

// Enabled reports whether s adds styling
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Render applies the named style to text; unknown names render plain
func (s *Styles) Render(name, text string) string {
	if !s.enabled {
		return text
	}
	st, ok := s.styles[name]
	if !ok {
		return text
	}
	return st.Render(text)
}

// Tag renders a rule tag such as CP or DGM
func (s *Styles) Tag(tag string) string {
	return s.Render(tag, tag)
}

// Warning renders a warning label
func (s *Styles) Warning(text string) string {
	return s.Render("Warning", text)
}

// Error renders an error label
func (s *Styles) Error(text string) string {
	return s.Render("Error", text)
}

// Path renders a file path
func (s *Styles) Path(text string) string {
	return s.Render("Path", text)
}
