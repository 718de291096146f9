package resolver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/multispec"
	"github.com/sclorg/container-common-scripts/pkg/resolver"
)

func combo(version, distro string) multispec.Combination {
	return multispec.Combination{
		Version:   version,
		Distro:    distro,
		Selectors: map[string]string{"version": version},
	}
}

func TestBuildVersionDistroMap(t *testing.T) {
	m := resolver.BuildVersionDistroMap([]multispec.Combination{
		combo("3.9", "rhel-8-x86_64.yaml"),
		combo("3.9", "fedora-39-x86_64.yaml"),
		combo("3.9", "rhel-8-x86_64.yaml"),
		combo("3.12", "rhel-9-x86_64.yaml"),
	})

	assert.Len(t, m, 2)
	assert.ElementsMatch(t, []string{"rhel-8-x86_64.yaml", "fedora-39-x86_64.yaml"}, m["3.9"])
	assert.Equal(t, []string{"rhel-9-x86_64.yaml"}, m["3.12"])
}

func TestBuildVersionDistroMap_Empty(t *testing.T) {
	m := resolver.BuildVersionDistroMap(nil)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestResolveDistroForFilename_Suffixes(t *testing.T) {
	m := resolver.VersionDistroMap{}
	for _, n := range []string{"7", "8", "9", "10", "42"} {
		tests := map[string]string{
			"Dockerfile.rhel" + n:    fmt.Sprintf("rhel-%s-x86_64.yaml", n),
			"Dockerfile.c" + n + "s": fmt.Sprintf("centos-stream-%s-x86_64.yaml", n),
			"Dockerfile.centos" + n:  fmt.Sprintf("centos-%s-x86_64.yaml", n),
			"README.md.rhel" + n:     fmt.Sprintf("rhel-%s-x86_64.yaml", n),
		}
		for filename, want := range tests {
			got, err := resolver.ResolveDistroForFilename(filename, "3.9", m)
			require.NoError(t, err, filename)
			assert.Equal(t, want, got, filename)
		}
	}
}

func TestResolveDistroForFilename_Fedora(t *testing.T) {
	tests := []struct {
		name    string
		distros []string
		want    string
		code    errors.ErrorCode
	}{
		{
			name:    "exactly one fedora",
			distros: []string{"rhel-8-x86_64.yaml", "fedora-39-x86_64.yaml"},
			want:    "fedora-39-x86_64.yaml",
		},
		{
			name:    "no fedora",
			distros: []string{"rhel-8-x86_64.yaml"},
			want:    "",
		},
		{
			name:    "version without distros",
			distros: nil,
			want:    "",
		},
		{
			name:    "two fedoras",
			distros: []string{"fedora-38-x86_64.yaml", "fedora-39-x86_64.yaml"},
			code:    errors.ErrAmbiguousDistro,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := resolver.VersionDistroMap{"3.9": tt.distros}
			got, err := resolver.ResolveDistroForFilename("Dockerfile.fedora", "3.9", m)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.code))
				assert.Equal(t, errors.ExitConfig, errors.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDistroForFilename_UnknownSuffix(t *testing.T) {
	m := resolver.VersionDistroMap{"3.9": {"fedora-39-x86_64.yaml"}}
	for _, filename := range []string{
		"Dockerfile.ubuntu",
		"Dockerfile",
		"Dockerfile.rhel",
		"Dockerfile.cs",
		"Dockerfile.fedora39",
		"Dockerfile.rhel8.bak",
	} {
		_, err := resolver.ResolveDistroForFilename(filename, "3.9", m)
		require.Error(t, err, filename)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownSuffix), filename)
	}
}

func TestResolveDistroForSingleRender(t *testing.T) {
	orders := [][]string{
		{"fedora-38-x86_64.yaml", "fedora-39-x86_64.yaml"},
		{"fedora-39-x86_64.yaml", "fedora-38-x86_64.yaml"},
	}
	for _, distros := range orders {
		m := resolver.VersionDistroMap{"3.9": distros}
		got, err := resolver.ResolveDistroForSingleRender("3.9", m)
		require.NoError(t, err)
		assert.Equal(t, "fedora-39-x86_64.yaml", got)
		// the map itself is left untouched
		assert.Equal(t, distros[0], m["3.9"][0])
	}
}

func TestResolveDistroForSingleRender_NoDistro(t *testing.T) {
	m := resolver.VersionDistroMap{"3.9": nil}
	_, err := resolver.ResolveDistroForSingleRender("3.9", m)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoDistro))

	_, err = resolver.ResolveDistroForSingleRender("3.12", m)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoDistro))
}
