package multispec_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
)

const pythonMultispec = `
version: 1

specs:
  distroinfo:
    fedora:
      distros:
        - fedora-39-x86_64
      s2i_base: quay.io/fedora/s2i-core
    rhel8:
      distros:
        - rhel-8-x86_64
    c9s:
      distros:
        - centos-stream-9-x86_64.yaml
  version:
    "3.9":
      version: "3.9"
    3.10:
      version: "3.10"
    3.12:
      version: "3.12"

matrix:
  exclude:
    - distros:
        - fedora-39-x86_64
      version: ["3.9", "3.10"]
    - distros:
        - centos-stream-9-x86_64
      version: "3.9"
`

func TestParse(t *testing.T) {
	ms, err := multispec.Parse([]byte(pythonMultispec))
	require.NoError(t, err)

	assert.Equal(t, 1, ms.Version)
	assert.Equal(t, []string{"3.10", "3.12", "3.9"}, ms.Groups["version"])
	assert.Equal(t, []string{"fedora-39-x86_64.yaml"}, ms.Distros["fedora"])
	assert.Equal(t, []string{"centos-stream-9-x86_64.yaml"}, ms.Distros["c9s"])
	assert.Len(t, ms.Exclude, 2)
}

func TestCombinations_ExcludesExactlyTheExcludedPairs(t *testing.T) {
	ms, err := multispec.Parse([]byte(pythonMultispec))
	require.NoError(t, err)

	type pair struct{ Distro, Version string }
	var got []pair
	for _, c := range ms.Combinations() {
		got = append(got, pair{c.Distro, c.Version})
		assert.Equal(t, c.Version, c.Selectors["version"])
	}

	want := []pair{
		{"centos-stream-9-x86_64.yaml", "3.10"},
		{"centos-stream-9-x86_64.yaml", "3.12"},
		{"fedora-39-x86_64.yaml", "3.12"},
		{"rhel-8-x86_64.yaml", "3.10"},
		{"rhel-8-x86_64.yaml", "3.12"},
		{"rhel-8-x86_64.yaml", "3.9"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Combinations() mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinations_NoVersionGroup(t *testing.T) {
	ms, err := multispec.Parse([]byte(`
specs:
  distroinfo:
    rhel9:
      distros: [rhel-9-x86_64]
`))
	require.NoError(t, err)

	combos := ms.Combinations()
	require.Len(t, combos, 1)
	assert.Equal(t, "rhel-9-x86_64.yaml", combos[0].Distro)
	assert.Empty(t, combos[0].Version)
}

func TestCombinations_DuplicateDistrosCollapse(t *testing.T) {
	ms, err := multispec.Parse([]byte(`
specs:
  distroinfo:
    a:
      distros: [rhel-9-x86_64]
    b:
      distros: [rhel-9-x86_64.yaml]
  version:
    "1": {}
`))
	require.NoError(t, err)
	assert.Len(t, ms.Combinations(), 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
	}{
		{
			name: "invalid yaml",
			data: "specs: [",
			code: errors.ErrConfigParse,
		},
		{
			name: "missing distroinfo",
			data: "specs:\n  version:\n    '1': {}\n",
			code: errors.ErrConfigInvalid,
		},
		{
			name: "entry without distros",
			data: "specs:\n  distroinfo:\n    rhel8:\n      vendor: Red Hat\n",
			code: errors.ErrConfigInvalid,
		},
		{
			name: "exclude on unknown group",
			data: "specs:\n  distroinfo:\n    rhel8:\n      distros: [rhel-8-x86_64]\nmatrix:\n  exclude:\n    - versoin: '1'\n",
			code: errors.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := multispec.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestNormalizeDistro(t *testing.T) {
	assert.Equal(t, "rhel-8-x86_64.yaml", multispec.NormalizeDistro("rhel-8-x86_64"))
	assert.Equal(t, "rhel-8-x86_64.yaml", multispec.NormalizeDistro("rhel-8-x86_64.yaml"))
}

func TestFileExpander(t *testing.T) {
	fsys := filesystem.NewOS()
	dir := t.TempDir()
	path := filepath.Join(dir, "multispec.yml")
	require.NoError(t, fsys.WriteFile(path, []byte(pythonMultispec), 0644))

	var expander multispec.Expander = multispec.NewFileExpander(fsys)
	combos, err := expander.ExpandCombinations(path)
	require.NoError(t, err)
	assert.Len(t, combos, 6)

	_, err = expander.ExpandCombinations(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
