package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/imagestreams"
)

// NewImageStreamsCmd creates the imagestreams tool
func NewImageStreamsCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := newToolCmd("imagestreams", opts)
	cmd.Short = MsgImageStreamsShort
	cmd.Long = MsgImageStreamsLong
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}

	cmd.AddCommand(newISCheckCmd(opts), newISUpdateCmd(opts))
	return cmd
}

func newISCheckCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check VERSION",
		Short: MsgISCheckShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dir := opts.cfg.ImageStreams.Dir
			version := args[0]

			result, err := imagestreams.NewChecker(filesystem.NewOS()).Check(dir, version)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, MsgISVersion, version)
			if len(result.Files) == 0 {
				fmt.Fprintf(out, MsgISNoFiles, dir)
				return nil
			}
			for _, file := range result.Files {
				fmt.Fprintf(out, MsgISCheckingFile, file.Path)
				if !file.OK() {
					fmt.Fprintf(out, MsgISFileFailed, file.Path)
				}
			}

			if failed := result.Failed(); len(failed) > 0 {
				return errors.Newf(errors.ErrImageStream,
					"%d imagestream(s) do not contain version %s", len(failed), version)
			}
			fmt.Fprint(out, MsgISAllPresent)
			return nil
		},
	}

	cmd.Flags().String("dir", "", MsgFlagISDir)
	opts.bindFlag("dir", "imagestreams.dir")
	return cmd
}

func newISUpdateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update VERSION JSON_FILE NEW_IMAGE",
		Short: MsgISUpdateShort,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, path, image := args[0], args[1], args[2]

			result, err := imagestreams.Update(filesystem.NewOS(), path, version, image)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Created {
				fmt.Fprintf(out, MsgISTagCreated, version, path, result.Template)
			} else {
				fmt.Fprintf(out, MsgISTagPresent, version, path)
			}
			fmt.Fprintf(out, MsgISUpdated, path, result.Path, image)
			return nil
		},
	}
}
