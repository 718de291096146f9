package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity, Options{Console: &bytes.Buffer{}})

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("SetupLogger(%d) set level to %v, want %v",
					tt.verbosity, zerolog.GlobalLevel(), tt.wantLevel)
			}
		})
	}
}

func TestSetupLogger_LogFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	SetupLogger(1, Options{Tool: "generator", File: true, Console: &bytes.Buffer{}})
	log.Info().Msg("hello from the test")

	logPath := filepath.Join(tempDir, AppDirName, "generator.log")
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file was not created at %s: %v", logPath, err)
	}
	if !strings.Contains(string(content), "hello from the test") {
		t.Errorf("log file does not contain the message, got %q", content)
	}
}

func TestSetupLogger_NoFileByDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	SetupLogger(0, Options{Tool: "generator", Console: &bytes.Buffer{}})

	if _, err := os.Stat(filepath.Join(tempDir, AppDirName)); !os.IsNotExist(err) {
		t.Errorf("log directory should not exist when file logging is disabled")
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	if got := getLogFilePath("imagestreams"); got != "/custom/state/sclorg/imagestreams.log" {
		t.Errorf("getLogFilePath() = %q", got)
	}
	if got := getLogFilePath(""); got != "/custom/state/sclorg/sclorg.log" {
		t.Errorf("getLogFilePath(\"\") = %q", got)
	}
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(1, Options{Console: &buf})

	logger := GetLogger("generator.apply")
	logger.Warn().Msg("component message")

	if !strings.Contains(buf.String(), "generator.apply") {
		t.Errorf("expected component name in output, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(1, Options{Console: &buf})

	logger := WithFields(map[string]interface{}{"version": "3.9"})
	logger.Warn().Msg("with fields")

	if !strings.Contains(buf.String(), "3.9") {
		t.Errorf("expected field value in output, got %q", buf.String())
	}
}
