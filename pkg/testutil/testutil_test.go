package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sclorg/container-common-scripts/pkg/distgen"
)

func TestWorkspace(t *testing.T) {
	SkipOnWindows(t)
	ws := NewWorkspace(t)

	path := ws.WriteFile("src/nested/file.txt", "content")
	assert.Equal(t, ws.Path("src", "nested", "file.txt"), path)
	AssertFileContent(t, path, "content")
	assert.Equal(t, "content", ws.ReadFile("src/nested/file.txt"))
	AssertMode(t, path, 0644)

	dir := ws.Mkdir("empty/dir")
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	ws.Symlink("../missing", "links/dangling")
	AssertSymlink(t, ws.Path("links", "dangling"), "../missing")

	AssertNoFile(t, ws.Path("nothing-here"))
}

func TestMockRenderer_WriteOutput(t *testing.T) {
	ws := NewWorkspace(t)
	req := distgen.Request{Template: "Dockerfile", Output: ws.Path("Dockerfile.rhel8")}

	r := &MockRenderer{}
	r.On("Render", mock.Anything, req).Run(WriteOutput("FROM ubi8\n")).Return(true, nil)

	rendered, err := r.Render(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, rendered)
	AssertFileContent(t, req.Output, "FROM ubi8\n")
	r.AssertExpectations(t)
}

func TestStaticExpander(t *testing.T) {
	e := &StaticExpander{Combinations: Combinations("3.12", "rhel-9-x86_64.yaml", "fedora-40-x86_64.yaml")}

	got, err := e.ExpandCombinations("specs/multispec.yml")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "fedora-40-x86_64.yaml", got[1].Distro)
	assert.Equal(t, "3.12", got[1].Selectors["version"])
	assert.Equal(t, []string{"specs/multispec.yml"}, e.Paths)
}
