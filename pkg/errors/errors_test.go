// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and exit code mapping

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/sclorg/container-common-scripts/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "unknown_suffix_error",
			code:    errors.ErrUnknownSuffix,
			message: "Dockerfile.ubuntu",
			wantStr: "[UNKNOWN_SUFFIX] Dockerfile.ubuntu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrAmbiguousDistro, "multiple fedora configs").
		WithDetail("version", "3.9").
		WithDetail("configs", []string{"fedora-38-x86_64.yaml", "fedora-39-x86_64.yaml"})

	if err.Details["version"] != "3.9" {
		t.Errorf("WithDetail() version = %v, want %v", err.Details["version"], "3.9")
	}

	details := errors.GetErrorDetails(fmt.Errorf("outer: %w", err))
	if len(details) != 2 {
		t.Errorf("GetErrorDetails() returned %d details, want 2", len(details))
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match errors with the same code")
	}
	if stderrors.Is(err1, err3) {
		t.Error("errors.Is() should not match errors with different codes")
	}
}

func TestGetErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", errors.New(errors.ErrRender, "dg failed"))

	if got := errors.GetErrorCode(wrapped); got != errors.ErrRender {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrRender)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
	if !errors.IsErrorCode(wrapped, errors.ErrRender) {
		t.Error("IsErrorCode() should see through wrapping")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: errors.ExitOK},
		{name: "usage", err: errors.New(errors.ErrUsage, "missing flag"), want: errors.ExitUsage},
		{name: "ambiguous_fedora", err: errors.New(errors.ErrAmbiguousDistro, "x"), want: errors.ExitConfig},
		{name: "unknown_suffix", err: errors.New(errors.ErrUnknownSuffix, "x"), want: errors.ExitConfig},
		{name: "mode_on_missing_file", err: errors.New(errors.ErrFileMode, "x"), want: errors.ExitConfig},
		{name: "manifest_invalid", err: errors.New(errors.ErrConfigInvalid, "x"), want: errors.ExitConfig},
		{name: "render", err: fmt.Errorf("rule 3: %w", errors.New(errors.ErrRender, "x")), want: errors.ExitRender},
		{name: "interrupted", err: errors.New(errors.ErrInterrupted, "x"), want: errors.ExitFailure},
		{name: "plain", err: stderrors.New("boom"), want: errors.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsAndAs(t *testing.T) {
	err := fmt.Errorf("apply: %w", errors.New(errors.ErrRender, "dg failed"))

	if !errors.Is(err, errors.New(errors.ErrRender, "other message")) {
		t.Error("Is() should match on the error code")
	}
	if errors.Is(err, errors.New(errors.ErrFileMode, "dg failed")) {
		t.Error("Is() should not match a different code")
	}

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatal("As() should find the structured error")
	}
	if e.Message != "dg failed" {
		t.Errorf("As() message = %q", e.Message)
	}
}
