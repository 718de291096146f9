package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/sclorg/container-common-scripts/internal/version"
	"github.com/sclorg/container-common-scripts/pkg/config"
	"github.com/sclorg/container-common-scripts/pkg/distgen"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/generator"
	"github.com/sclorg/container-common-scripts/pkg/logging"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
)

// NewGeneratorCmd creates the generator tool
func NewGeneratorCmd() *cobra.Command {
	opts := &globalOptions{}
	var (
		genOpts generator.Options
		workDir string
	)

	cmd := newToolCmd("generator", opts)
	cmd.Short = MsgGeneratorShort
	cmd.Long = MsgGeneratorLong
	cmd.Example = MsgGeneratorExample
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cli.generator")

		perm, err := opts.cfg.DirPerm()
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigInvalid, "invalid generator.dir_mode")
		}
		styles, err := opts.styles(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		fsys := filesystem.NewOS()
		gen := generator.New(fsys, distgen.NewCommandRenderer(opts.cfg.Distgen), multispec.NewFileExpander(fsys))
		gen.Out = cmd.OutOrStdout()
		gen.Styles = styles
		gen.WorkDir = workDir
		gen.DirPerm = fs.FileMode(perm)

		result, err := gen.Run(cmd.Context(), genOpts)
		if result != nil {
			logger.Info().
				Int("applied", result.Applied).
				Int("skipped", result.Skipped).
				Int("dead_links", result.DeadLinks).
				Int("unknown", result.Unknown).
				Msg("Generation finished")
			if opts.verbosity > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgGeneratorSummary, result.Applied, result.Skipped, result.DeadLinks)
			}
		}
		return err
	}

	// generator's own flags are local so that subcommands do not demand them
	cmd.Flags().StringVar(&genOpts.Version, "version", "", MsgFlagVersion)
	cmd.Flags().StringVarP(&genOpts.Manifest, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().StringVarP(&genOpts.Multispec, "multispec", "s", "", MsgFlagMultispec)
	cmd.Flags().StringVar(&workDir, "workdir", ".", MsgFlagWorkDir)
	cmd.PersistentFlags().String("distgen-binary", "", MsgFlagDistgenBinary)
	opts.bindFlag("distgen-binary", "distgen.binary")

	for _, name := range []string{"version", "manifest", "multispec"} {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.AddCommand(newConfigCmd(opts), newBuildInfoCmd())

	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Dump(opts.cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newBuildInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-info",
		Short: MsgBuildInfoShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, cmd.Root().Name(), version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}
