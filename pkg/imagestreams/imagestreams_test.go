package imagestreams_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/imagestreams"
	"github.com/sclorg/container-common-scripts/pkg/testutil"
)

const centosStream = `{
  "kind": "ImageStream",
  "apiVersion": "image.openshift.io/v1",
  "metadata": {"name": "python"},
  "spec": {
    "tags": [
      {
        "name": "3.12-ubi9",
        "annotations": {"description": "Python 3.12 <UBI 9>"},
        "from": {"kind": "DockerImage", "name": "registry.access.redhat.com/ubi9/python-312:latest"},
        "referencePolicy": {"type": "Local"}
      },
      {
        "name": "latest",
        "from": {"kind": "ImageStreamTag", "name": "3.12-ubi9"}
      }
    ]
  }
}`

func TestCheck(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.WriteFile("imagestreams/python-centos.json", centosStream)
	ws.WriteFile("imagestreams/python-rhel.json", strings.ReplaceAll(centosStream, "3.12-ubi9", "3.11-ubi9"))
	ws.WriteFile("imagestreams/README.md", "not a stream")

	checker := imagestreams.NewChecker(filesystem.NewOS())

	result, err := checker.Check(ws.Path("imagestreams"), "3.12")
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.False(t, result.OK())

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, ws.Path("imagestreams", "python-rhel.json"), failed[0].Path)
	assert.Equal(t, []string{"3.12-ubi9"}, result.Files[0].VersionTags)

	result, err = checker.Check(ws.Path("imagestreams"), "3.11")
	require.NoError(t, err)
	assert.Len(t, result.Failed(), 1)
}

func TestCheck_VersionPrefixIsNotEnough(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.WriteFile("imagestreams/python.json", centosStream)

	// 3.1 must not match 3.12-ubi9
	result, err := imagestreams.NewChecker(filesystem.NewOS()).Check(ws.Path("imagestreams"), "3.1")
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Empty(t, result.Files[0].VersionTags)
}

func TestCheck_NoFiles(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	checker := imagestreams.NewChecker(filesystem.NewOS())

	result, err := checker.Check(ws.Path("missing"), "3.12")
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.True(t, result.OK())

	ws.Mkdir("imagestreams")
	result, err = checker.Check(ws.Path("imagestreams"), "3.12")
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestCheck_InvalidJSON(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.WriteFile("imagestreams/broken.json", "{")

	_, err := imagestreams.NewChecker(filesystem.NewOS()).Check(ws.Path("imagestreams"), "3.12")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrImageStream))
}

func TestUpdate_ExistingTag(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	path := ws.WriteFile("python.json", centosStream)

	result, err := imagestreams.Update(filesystem.NewOS(), path, "3.12-ubi9", "quay.io/sclorg/python-312-c9s")
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, ws.Path("updated-python.json"), result.Path)

	doc, err := imagestreams.Load(filesystem.NewOS(), result.Path)
	require.NoError(t, err)
	tags, err := doc.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "quay.io/sclorg/python-312-c9s", tags[0]["from"].(map[string]interface{})["name"])
	// latest is left alone
	assert.Equal(t, "3.12-ubi9", tags[1]["from"].(map[string]interface{})["name"])

	// the input is not modified
	testutil.AssertFileContent(t, path, centosStream)
}

func TestUpdate_CreatesMissingTagFromTemplate(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	path := ws.WriteFile("python.json", centosStream)

	result, err := imagestreams.Update(filesystem.NewOS(), path, "3.13", "quay.io/sclorg/python-313-c9s")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "3.12-ubi9", result.Template)

	doc, err := imagestreams.Load(filesystem.NewOS(), result.Path)
	require.NoError(t, err)
	tags, err := doc.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 3)

	created := tags[2]
	assert.Equal(t, "3.13", created["name"])
	assert.Equal(t, "quay.io/sclorg/python-313-c9s", created["from"].(map[string]interface{})["name"])
	assert.Equal(t, map[string]interface{}{"type": "Local"}, created["referencePolicy"])

	// the template tag keeps its image
	assert.Equal(t, "registry.access.redhat.com/ubi9/python-312:latest",
		tags[0]["from"].(map[string]interface{})["name"])

	// five-space indentation, no HTML escaping
	content := ws.ReadFile("updated-python.json")
	assert.Contains(t, content, "\n     \"apiVersion\"")
	assert.Contains(t, content, "<UBI 9>")
}

func TestUpdate_Errors(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	fsys := filesystem.NewOS()

	_, err := imagestreams.Update(fsys, ws.Path("missing.json"), "3.12", "quay.io/sclorg/python-312-c9s")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	path := ws.WriteFile("python.json", centosStream)
	_, err = imagestreams.Update(fsys, path, "3.12", "Not A Valid Image")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	onlyLatest := ws.WriteFile("latest.json", `{"spec": {"tags": [{"name": "latest", "from": {"name": "x"}}]}}`)
	_, err = imagestreams.Update(fsys, onlyLatest, "3.12", "quay.io/sclorg/python-312-c9s")
	assert.True(t, errors.IsErrorCode(err, errors.ErrImageStream))

	noSpec := ws.WriteFile("nospec.json", `{"kind": "ImageStream"}`)
	_, err = imagestreams.Update(fsys, noSpec, "3.12", "quay.io/sclorg/python-312-c9s")
	assert.True(t, errors.IsErrorCode(err, errors.ErrImageStream))
}

func TestUpdatedPath(t *testing.T) {
	assert.Equal(t, "imagestreams/updated-python-rhel.json", imagestreams.UpdatedPath("imagestreams/python-rhel.json"))
}
