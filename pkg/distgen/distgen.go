// Package distgen drives the external distgen templating tool.
package distgen

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sclorg/container-common-scripts/pkg/config"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

// Request describes one template render
type Request struct {
	Template  string
	Output    string
	Multispec string
	Distro    string
	Version   string
}

// Renderer renders one template for a (distro, version) combination. A
// combination missing from the multispec is not an error: Render returns
// false and writes nothing.
type Renderer interface {
	Render(ctx context.Context, req Request) (bool, error)
}

// CommandRenderer runs the dg binary
type CommandRenderer struct {
	Binary string
	// Args are passed before the generated arguments
	Args []string
	// NoCombinationExitCode is the exit status dg uses for a combination
	// the multispec does not contain
	NoCombinationExitCode int
	// Timeout bounds a single render; zero means none
	Timeout time.Duration
	// Dir is the working directory of dg; empty means the current one
	Dir string

	logger zerolog.Logger
}

// NewCommandRenderer creates a renderer from the distgen configuration
func NewCommandRenderer(cfg config.Distgen) *CommandRenderer {
	return &CommandRenderer{
		Binary:                cfg.Binary,
		Args:                  append([]string(nil), cfg.Args...),
		NoCombinationExitCode: cfg.NoCombinationExitCode,
		Timeout:               cfg.Timeout,
		logger:                logging.GetLogger("distgen"),
	}
}

// CommandArgs returns the dg arguments for req
func (r *CommandRenderer) CommandArgs(req Request) []string {
	args := append([]string(nil), r.Args...)
	return append(args,
		"--multispec", req.Multispec,
		"--template", req.Template,
		"--distro", req.Distro,
		"--multispec-selector", "version="+req.Version,
		"--output", req.Output,
	)
}

// Render runs dg for req and reports whether dg rendered the output
func (r *CommandRenderer) Render(ctx context.Context, req Request) (bool, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := r.CommandArgs(req)
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("binary", r.Binary).
		Strs("args", args).
		Msg("Running distgen")

	err := cmd.Run()

	if stdout.Len() > 0 {
		r.logger.Debug().Str("output", stdout.String()).Msg("distgen stdout")
	}

	if err == nil {
		return true, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, errors.Wrapf(ctxErr, errors.ErrRender, "distgen did not finish rendering %s", req.Output).
			WithDetail("template", req.Template)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == r.NoCombinationExitCode {
			r.logger.Info().
				Str("distro", req.Distro).
				Str("version", req.Version).
				Str("output", req.Output).
				Msg("No such combination in multispec, nothing rendered")
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrRender, "distgen failed to render %s: %s",
			req.Output, strings.TrimSpace(stderr.String())).
			WithDetail("exit_code", exitErr.ExitCode()).
			WithDetail("stderr", stderr.String()).
			WithDetail("template", req.Template).
			WithDetail("distro", req.Distro)
	}

	return false, errors.Wrapf(err, errors.ErrRender, "failed to run %s", r.Binary).
		WithDetail("binary", r.Binary)
}

var _ Renderer = (*CommandRenderer)(nil)
