package generator

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sclorg/container-common-scripts/pkg/distgen"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/logging"
	"github.com/sclorg/container-common-scripts/pkg/manifest"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
	"github.com/sclorg/container-common-scripts/pkg/resolver"
	"github.com/sclorg/container-common-scripts/pkg/style"
)

// Options describe one generate run
type Options struct {
	Version   string
	Manifest  string
	Multispec string
}

// Target is what the rules of a manifest are applied for
type Target struct {
	Version string
	// Multispec is passed to the renderer as given
	Multispec string
	Distros   resolver.VersionDistroMap
}

// Result counts what a run did
type Result struct {
	Applied int
	// Skipped counts render rules without a combination for the version
	Skipped int
	// DeadLinks counts symlinks removed because they did not resolve
	DeadLinks int
	// Unknown counts entries in unrecognized sections
	Unknown int
}

// Generator applies manifests
type Generator struct {
	FS       filesystem.FS
	Renderer distgen.Renderer
	Expander multispec.Expander
	// Out receives one line per applied rule and the warnings
	Out    io.Writer
	Styles *style.Styles
	// WorkDir is the directory rule sources and the version tree are
	// relative to
	WorkDir string
	// DirPerm is used for every directory the generator creates
	DirPerm fs.FileMode

	logger zerolog.Logger
}

// New creates a generator printing plain text to stdout
func New(fsys filesystem.FS, renderer distgen.Renderer, expander multispec.Expander) *Generator {
	return &Generator{
		FS:       fsys,
		Renderer: renderer,
		Expander: expander,
		Out:      os.Stdout,
		Styles:   style.Plain(),
		WorkDir:  ".",
		DirPerm:  0755,
		logger:   logging.GetLogger("generator"),
	}
}

// ValidateVersion checks that version is usable as the name of the output
// directory, which is removed recursively on every run.
func ValidateVersion(version string) error {
	switch {
	case strings.TrimSpace(version) == "":
		return errors.New(errors.ErrUsage, "version must not be empty")
	case version == "." || version == "..":
		return errors.Newf(errors.ErrUsage, "version %q is not a valid directory name", version)
	case strings.ContainsAny(version, `/\`) || filepath.IsAbs(version):
		return errors.Newf(errors.ErrUsage, "version %q must not contain path separators", version)
	}
	return nil
}

// Run loads the manifest and multispec, recreates the version directory and
// applies every rule.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(g.logger, "generate")
	defer done()

	m, err := manifest.Load(g.FS, opts.Manifest)
	if err != nil {
		return nil, err
	}

	combinations, err := g.Expander.ExpandCombinations(opts.Multispec)
	if err != nil {
		return nil, err
	}
	distros := resolver.BuildVersionDistroMap(combinations)
	if len(distros[opts.Version]) == 0 {
		g.logger.Warn().
			Str("version", opts.Version).
			Str("multispec", opts.Multispec).
			Msg("Version has no combinations in multispec")
	}

	versionDir := g.path(opts.Version)
	if err := g.FS.RemoveAll(versionDir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to remove %s", versionDir)
	}
	if err := g.FS.MkdirAll(versionDir, g.DirPerm); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", versionDir)
	}

	return g.Apply(ctx, m, Target{
		Version:   opts.Version,
		Multispec: opts.Multispec,
		Distros:   distros,
	})
}

// Apply runs every rule of m for target. Unknown sections are reported once
// and skipped. The returned result is valid even when an error is returned.
func (g *Generator) Apply(ctx context.Context, m *manifest.Manifest, target Target) (*Result, error) {
	result := &Result{}

	for _, section := range m.Sections {
		if !section.Known() {
			g.warnf("unexpected section %s, %d rule(s) skipped", section.Name, section.Entries)
			g.logger.Debug().Str("section", section.Name).Msg("Skipping unknown section")
			result.Unknown += section.Entries
			continue
		}

		for _, rule := range section.Rules {
			if err := ctx.Err(); err != nil {
				return result, errors.Wrap(err, errors.ErrInterrupted, "generation interrupted")
			}
			if err := g.applyRule(ctx, rule, target, result); err != nil {
				return result, err
			}
		}
	}

	g.logger.Info().
		Str("version", target.Version).
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Int("dead_links", result.DeadLinks).
		Int("unknown", result.Unknown).
		Msg("Manifest applied")

	return result, nil
}

func (g *Generator) applyRule(ctx context.Context, rule manifest.Rule, target Target, result *Result) error {
	spec := rule.Spec()
	dest := filepath.Join(target.Version, spec.Dest)
	destPath := g.path(dest)

	logger := g.logger.With().
		Str("tag", rule.Tag()).
		Str("src", spec.Src).
		Str("dest", dest).
		Int("line", spec.Line).
		Logger()

	if err := g.FS.MkdirAll(filepath.Dir(destPath), g.DirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory of %s", dest)
	}

	switch r := rule.(type) {
	case manifest.CopyRule:
		g.printRule(r, dest)
		if err := filesystem.CopyFile(g.FS, g.path(spec.Src), destPath); err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy, "failed to copy %s to %s", spec.Src, dest)
		}
		result.Applied++

	case manifest.SymlinkRule:
		g.printRule(r, dest)
		if err := g.FS.Symlink(spec.Src, destPath); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", dest, spec.Src)
		}
		result.Applied++
		if r.CheckSymlink && !filesystem.Exists(g.FS, destPath) {
			if err := g.FS.Remove(destPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove dead symlink %s", dest)
			}
			g.warnf("%s is a dead symlink, removed.", dest)
			logger.Debug().Msg("Removed dead symlink")
			result.DeadLinks++
		}

	case manifest.DistgenRule:
		g.printRule(r, dest)
		distro, err := resolver.ResolveDistroForSingleRender(target.Version, target.Distros)
		if err != nil {
			return err
		}
		if err := g.render(ctx, spec, destPath, distro, target, result); err != nil {
			return err
		}

	case manifest.DistgenMultiRule:
		distro, err := resolver.ResolveDistroForFilename(filepath.Base(spec.Dest), target.Version, target.Distros)
		if err != nil {
			return err
		}
		if distro == "" {
			logger.Info().Msg("No distro config for version, rule skipped")
			result.Skipped++
			break
		}
		g.printRule(r, dest)
		if err := g.render(ctx, spec, destPath, distro, target, result); err != nil {
			return err
		}

	default:
		return errors.Newf(errors.ErrInternal, "unhandled rule type %T", rule)
	}

	if spec.Mode != nil {
		if err := g.FS.Chmod(destPath, *spec.Mode); err != nil {
			return errors.Wrapf(err, errors.ErrFileMode, "failed to set mode %04o on %s", spec.Mode.Perm(), dest).
				WithDetail("line", spec.Line)
		}
		logger.Trace().Str("mode", spec.Mode.String()).Msg("Mode applied")
	}

	return nil
}

// render counts a combination dg declines as skipped
func (g *Generator) render(ctx context.Context, spec manifest.Entry, destPath, distro string, target Target, result *Result) error {
	rendered, err := g.Renderer.Render(ctx, distgen.Request{
		Template:  g.path(spec.Src),
		Output:    destPath,
		Multispec: target.Multispec,
		Distro:    distro,
		Version:   target.Version,
	})
	if err != nil {
		return err
	}
	if rendered {
		result.Applied++
	} else {
		result.Skipped++
	}
	return nil
}

// path resolves name against the working directory
func (g *Generator) path(name string) string {
	if g.WorkDir == "" || g.WorkDir == "." {
		return name
	}
	return filepath.Join(g.WorkDir, name)
}

func (g *Generator) printRule(rule manifest.Rule, dest string) {
	fmt.Fprintf(g.Out, "%s\t%s → %s\n", g.Styles.Tag(rule.Tag()), rule.Spec().Src, dest)
}

func (g *Generator) warnf(format string, args ...interface{}) {
	fmt.Fprintf(g.Out, "%s %s\n", g.Styles.Warning("WARN:"), fmt.Sprintf(format, args...))
}
