package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/quay"
)

// NewQuayCmd creates the quay-description tool
func NewQuayCmd() *cobra.Command {
	opts := &globalOptions{}
	var (
		dir    string
		dryRun bool
	)

	cmd := newToolCmd("quay-description", opts)
	cmd.Use = "quay-description REPOSITORY"
	cmd.Short = MsgQuayShort
	cmd.Long = MsgQuayLong
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		repo := args[0]
		out := cmd.OutOrStdout()

		description, err := quay.LoadReadmeDescription(filesystem.NewOS(), dir)
		if err != nil {
			return err
		}

		tokenEnv := opts.cfg.Quay.TokenEnv
		client := quay.NewClient(opts.cfg.Quay, os.Getenv(tokenEnv))
		if dryRun {
			fmt.Fprintf(out, MsgQuayDryRun, client.RepositoryURL(repo), description)
			return nil
		}
		if client.Token == "" {
			return errors.Newf(errors.ErrConfigInvalid, MsgQuayTokenUnset, tokenEnv)
		}

		if err := client.UpdateDescription(cmd.Context(), repo, description); err != nil {
			return err
		}
		fmt.Fprintf(out, MsgQuayUpdated, client.RepositoryURL(repo))
		return nil
	}

	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagQuayDir)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().String("namespace", "", MsgFlagNamespace)
	opts.bindFlag("namespace", "quay.namespace")

	return cmd
}
