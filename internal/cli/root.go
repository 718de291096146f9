// Package cli holds the cobra commands of every tool. Each tool is a root
// command sharing the global flags, configuration loading and error
// reporting defined here.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sclorg/container-common-scripts/pkg/config"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/logging"
	"github.com/sclorg/container-common-scripts/pkg/style"
)

// globalOptions are the flags every tool accepts
type globalOptions struct {
	verbosity  int
	configPath string
	color      string

	// flagKeys maps tool flags onto the config keys they override
	flagKeys map[string]string

	cfg *config.Config
}

// bindFlag makes a set flag override a config key
func (o *globalOptions) bindFlag(flag, key string) {
	if o.flagKeys == nil {
		o.flagKeys = make(map[string]string)
	}
	o.flagKeys[flag] = key
}

func (o *globalOptions) overrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := make(map[string]interface{})
	for name, key := range o.flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	return overrides
}

// styles returns the output styles for w honouring --color
func (o *globalOptions) styles(w io.Writer) (*style.Styles, error) {
	mode, err := style.ParseColor(o.color)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUsage, "invalid --color")
	}
	f, _ := w.(*os.File)
	return style.New(w, mode.Resolve(f)), nil
}

// newToolCmd creates a root command with the shared flags. Logging is set up
// and configuration loaded before any RunE executes.
func newToolCmd(tool string, opts *globalOptions) *cobra.Command {
	initTemplateFormatting()

	cmd := &cobra.Command{
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := style.ParseColor(opts.color); err != nil {
				return errors.Wrap(err, errors.ErrUsage, "invalid --color")
			}

			logOpts := logging.Options{Tool: tool, Console: cmd.ErrOrStderr()}
			logging.SetupLogger(opts.verbosity, logOpts)

			cfg, err := config.Load(config.LoadOptions{
				Path:      opts.configPath,
				Overrides: opts.overrides(cmd.Flags()),
			})
			if err != nil {
				return err
			}
			opts.cfg = cfg

			if cfg.Log.File {
				logOpts.File = true
				logging.SetupLogger(opts.verbosity, logOpts)
			}
			logging.LogCommand(cmd.CommandPath(), args)
			return nil
		},
	}
	cmd.Use = tool
	cmd.SetUsageTemplate(MsgUsageTemplate)

	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", MsgFlagConfig)
	cmd.PersistentFlags().StringVar(&opts.color, "color", style.ColorAuto.String(), MsgFlagColor)

	return cmd
}

// Execute runs cmd with a context cancelled on SIGINT and SIGTERM, reports
// any error on stderr and returns the process exit status.
func Execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, cmd)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}

	var structured *errors.Error
	if !errors.As(err, &structured) {
		// flag and argument errors from cobra itself
		err = errors.Wrap(err, errors.ErrUsage, "invalid usage")
	}

	stderr := cmd.ErrOrStderr()
	f, _ := stderr.(*os.File)
	styles := style.New(stderr, style.Enabled(f))
	fmt.Fprintf(stderr, "%s %s\n", styles.Error(MsgErrPrefix), userMessage(err))
	if errors.IsErrorCode(err, errors.ErrUsage) {
		fmt.Fprintf(stderr, MsgUsageHint, cmd.CommandPath())
	}

	return errors.ExitCode(err)
}

// userMessage drops the error code prefix of structured errors
func userMessage(err error) string {
	var e *errors.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Tools returns the root command of every tool
func Tools() []*cobra.Command {
	return []*cobra.Command{
		NewGeneratorCmd(),
		NewImageStreamsCmd(),
		NewVersionTableCmd(),
		NewQuayCmd(),
	}
}
