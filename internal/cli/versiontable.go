package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/makefile"
	"github.com/sclorg/container-common-scripts/pkg/versiontable"
)

const (
	versionsVar  = "VERSIONS"
	previewWidth = 100
)

type versionTableOptions struct {
	makefile string
	readme   string
	root     string
	dryRun   bool
}

// NewVersionTableCmd creates the version-table tool
func NewVersionTableCmd() *cobra.Command {
	opts := &globalOptions{}
	vt := &versionTableOptions{}

	cmd := newToolCmd("version-table", opts)
	cmd.Use = "version-table NAME"
	cmd.Short = MsgVersionTableShort
	cmd.Long = MsgVersionTableLong
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runVersionTable(cmd, opts, vt, args[0])
	}

	cmd.Flags().StringVar(&vt.makefile, "makefile", "Makefile", MsgFlagMakefile)
	cmd.Flags().StringVar(&vt.readme, "readme", "README.md", MsgFlagReadme)
	cmd.Flags().StringVar(&vt.root, "root", ".", MsgFlagRoot)
	cmd.Flags().BoolVar(&vt.dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

func runVersionTable(cmd *cobra.Command, opts *globalOptions, vt *versionTableOptions, name string) error {
	fsys := filesystem.NewOS()
	out := cmd.OutOrStdout()

	versions, err := makefile.LoadVar(fsys, vt.makefile, versionsVar)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return errors.Wrapf(err, errors.ErrUsage, MsgVTNoVersions, vt.makefile)
		}
		return err
	}
	if len(versions) == 0 {
		return errors.Newf(errors.ErrUsage, MsgVTNoVersions, vt.makefile)
	}

	table, err := versiontable.NewScanner(fsys, opts.cfg.VersionTable.Distros).Scan(vt.root, name, versions)
	if err != nil {
		return err
	}

	unsupported := make([]string, 0, len(table.Unsupported))
	for version := range table.Unsupported {
		unsupported = append(unsupported, version)
	}
	sort.Strings(unsupported)
	for _, version := range unsupported {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgVTUnsupported, table.Unsupported[version], version)
	}

	markdown := table.Markdown()
	if vt.dryRun {
		styles, err := opts.styles(out)
		if err != nil {
			return err
		}
		if !styles.Enabled() {
			fmt.Fprint(out, markdown)
			return nil
		}
		rendered, err := versiontable.Preview(markdown, previewWidth)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to render preview")
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	pairs, err := versiontable.UpdateReadme(fsys, vt.readme, markdown)
	if err != nil {
		return err
	}
	switch {
	case pairs == 0:
		fmt.Fprintf(out, MsgVTNoMarkers, vt.readme)
	case pairs > 1:
		fmt.Fprintf(out, MsgVTManyMarkers, vt.readme)
	default:
		fmt.Fprintf(out, MsgVTUpdated, vt.readme)
	}
	return nil
}
