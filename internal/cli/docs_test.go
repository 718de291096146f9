package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sclorg/container-common-scripts/pkg/errors"
)

func TestWriteCompletion(t *testing.T) {
	cmd, err := FindTool("generator")
	require.NoError(t, err)

	for _, shell := range Shells {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCompletion(cmd, shell, &buf))
			assert.Contains(t, buf.String(), "generator")
		})
	}

	err = WriteCompletion(cmd, "tcsh", &bytes.Buffer{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
}

func TestFindTool_Unknown(t *testing.T) {
	_, err := FindTool("squash")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
	assert.Contains(t, err.Error(), "version-table")
}

func TestWriteManPages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "man1")
	require.NoError(t, WriteManPages(dir))

	for _, page := range []string{
		"generator.1",
		"generator-config.1",
		"imagestreams-check.1",
		"version-table.1",
		"quay-description.1",
	} {
		_, err := os.Stat(filepath.Join(dir, page))
		assert.NoError(t, err, page)
	}
}
