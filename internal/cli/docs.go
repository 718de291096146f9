package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/sclorg/container-common-scripts/internal/version"
	"github.com/sclorg/container-common-scripts/pkg/errors"
)

// Shells lists the shells completions can be generated for
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// FindTool returns the root command of the named tool
func FindTool(name string) (*cobra.Command, error) {
	var names []string
	for _, cmd := range Tools() {
		if cmd.Name() == name {
			return cmd, nil
		}
		names = append(names, cmd.Name())
	}
	return nil, errors.Newf(errors.ErrUsage, "unknown tool %s, expected one of %s", name, strings.Join(names, ", "))
}

// WriteCompletion writes the completion script of cmd for shell to w
func WriteCompletion(cmd *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = cmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = cmd.GenZshCompletion(w)
	case "fish":
		err = cmd.GenFishCompletion(w, true)
	case "powershell":
		err = cmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrUsage, "unknown shell %s, supported shells: %s", shell, strings.Join(Shells, ", "))
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to generate %s completion", shell)
	}
	return nil
}

// WriteManPages writes the man pages of every tool and subcommand to dir
func WriteManPages(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}

	for _, cmd := range Tools() {
		header := &doc.GenManHeader{
			Title:   strings.ToUpper(cmd.Name()),
			Section: "1",
			Source:  fmt.Sprintf("%s %s", cmd.Name(), version.Version),
			Manual:  "container-common-scripts manual",
		}
		if err := doc.GenManTree(cmd, header, dir); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to generate man pages of %s", cmd.Name())
		}
	}
	return nil
}
