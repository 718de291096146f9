// Package imagestreams checks and updates OpenShift imagestream files.
//
// Imagestreams are handled as generic JSON documents so fields this package
// does not know about survive an update. Only spec.tags[].name and
// spec.tags[].from.name are interpreted.
package imagestreams

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/distribution/reference"
	"github.com/rs/zerolog"

	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/filesystem"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

const (
	latestTag     = "latest"
	updatedPrefix = "updated-"
	indent        = "     "
)

// Document is one decoded imagestream
type Document map[string]interface{}

// Tags returns the spec.tags entries
func (d Document) Tags() ([]map[string]interface{}, error) {
	spec, ok := d["spec"].(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrImageStream, "imagestream has no spec object")
	}
	raw, ok := spec["tags"].([]interface{})
	if !ok {
		return nil, errors.New(errors.ErrImageStream, "imagestream has no spec.tags list")
	}

	tags := make([]map[string]interface{}, 0, len(raw))
	for i, item := range raw {
		tag, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrImageStream, "spec.tags[%d] is not an object", i)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (d Document) appendTag(tag map[string]interface{}) {
	spec := d["spec"].(map[string]interface{})
	spec["tags"] = append(spec["tags"].([]interface{}), tag)
}

func tagName(tag map[string]interface{}) string {
	name, _ := tag["name"].(string)
	return name
}

func fromName(tag map[string]interface{}) string {
	from, _ := tag["from"].(map[string]interface{})
	name, _ := from["name"].(string)
	return name
}

// matchesVersion reports whether name is version itself or one of its
// variants such as <version>-el9 or <version>-ubi8
func matchesVersion(name, version string) bool {
	return name == version || strings.HasPrefix(name, version+"-")
}

// Parse decodes an imagestream
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrImageStream, "failed to parse imagestream")
	}
	return doc, nil
}

// Load reads and decodes the imagestream at path
func Load(fsys filesystem.FS, path string) (Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "failed to read imagestream %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageStream, "imagestream %s", path)
	}
	return doc, nil
}

// Encode formats doc the way the update tool writes it
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrImageStream, "failed to encode imagestream")
	}
	return buf.Bytes(), nil
}

// FileCheck is the result of checking one imagestream file
type FileCheck struct {
	Path string
	// VersionTags are the tags naming the version or one of its variants
	VersionTags []string
	// LatestOK is set when the latest tag points at the version
	LatestOK bool
}

// OK reports whether the file passed
func (f FileCheck) OK() bool {
	return len(f.VersionTags) > 0 && f.LatestOK
}

// CheckResult holds the checks of every imagestream in a directory
type CheckResult struct {
	Version string
	Files   []FileCheck
}

// OK reports whether every file passed
func (r *CheckResult) OK() bool {
	for _, f := range r.Files {
		if !f.OK() {
			return false
		}
	}
	return true
}

// Failed returns the files that did not pass
func (r *CheckResult) Failed() []FileCheck {
	var failed []FileCheck
	for _, f := range r.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// Checker verifies that imagestreams carry a version
type Checker struct {
	FS     filesystem.FS
	logger zerolog.Logger
}

// NewChecker creates a checker reading from fsys
func NewChecker(fsys filesystem.FS) *Checker {
	return &Checker{FS: fsys, logger: logging.GetLogger("imagestreams")}
}

// Check inspects every *.json file in dir. A missing directory holds no
// files and passes.
func (c *Checker) Check(dir, version string) (*CheckResult, error) {
	result := &CheckResult{Version: version}

	entries, err := c.FS.ReadDir(dir)
	if err != nil {
		if !filesystem.Exists(c.FS, dir) {
			c.logger.Debug().Str("dir", dir).Msg("Imagestream directory does not exist")
			return result, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	for _, path := range paths {
		doc, err := Load(c.FS, path)
		if err != nil {
			return nil, err
		}
		tags, err := doc.Tags()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrImageStream, "imagestream %s", path)
		}

		check := FileCheck{Path: path}
		for _, tag := range tags {
			name := tagName(tag)
			if matchesVersion(name, version) {
				check.VersionTags = append(check.VersionTags, name)
			}
			if name == latestTag && matchesVersion(fromName(tag), version) {
				check.LatestOK = true
			}
		}

		c.logger.Debug().
			Str("path", path).
			Strs("version_tags", check.VersionTags).
			Bool("latest_ok", check.LatestOK).
			Msg("Checked imagestream")

		result.Files = append(result.Files, check)
	}

	return result, nil
}

// UpdateResult describes a written update
type UpdateResult struct {
	Path string
	// Created is set when the version tag did not exist and was copied
	// from the first non-latest tag
	Created bool
	// Template is the tag the new one was copied from
	Template string
}

// UpdatedPath returns the path an update of path is written to
func UpdatedPath(path string) string {
	return filepath.Join(filepath.Dir(path), updatedPrefix+filepath.Base(path))
}

// ValidateImage checks that image is a valid image reference
func ValidateImage(image string) error {
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "%q is not a valid image reference", image)
	}
	return nil
}

// UpdateTag points the tag named version at image, creating it from the
// first non-latest tag when it does not exist.
func UpdateTag(doc Document, version, image string) (*UpdateResult, error) {
	tags, err := doc.Tags()
	if err != nil {
		return nil, err
	}

	var template map[string]interface{}
	found := false
	for _, tag := range tags {
		name := tagName(tag)
		if name == latestTag {
			continue
		}
		if template == nil {
			template = tag
		}
		if name != version {
			continue
		}
		setFrom(tag, image)
		found = true
	}

	if found {
		return &UpdateResult{}, nil
	}
	if template == nil {
		return nil, errors.Newf(errors.ErrImageStream,
			"tag %s does not exist and there is no tag to create it from", version)
	}

	tag, err := deepCopy(template)
	if err != nil {
		return nil, err
	}
	tag["name"] = version
	setFrom(tag, image)
	doc.appendTag(tag)

	return &UpdateResult{Created: true, Template: tagName(template)}, nil
}

func setFrom(tag map[string]interface{}, image string) {
	from, ok := tag["from"].(map[string]interface{})
	if !ok {
		from = map[string]interface{}{"kind": "DockerImage"}
		tag["from"] = from
	}
	from["name"] = image
}

func deepCopy(tag map[string]interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(tag)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrImageStream, "failed to copy tag")
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, errors.ErrImageStream, "failed to copy tag")
	}
	return out, nil
}

// Update rewrites the imagestream at path so its version tag points at
// image, writing the result to updated-<name> beside it.
func Update(fsys filesystem.FS, path, version, image string) (*UpdateResult, error) {
	if err := ValidateImage(image); err != nil {
		return nil, err
	}

	if !filesystem.Exists(fsys, path) {
		return nil, errors.Newf(errors.ErrNotFound, "json file %s does not exist", path)
	}

	doc, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}

	result, err := UpdateTag(doc, version, image)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImageStream, "imagestream %s", path)
	}

	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}

	result.Path = UpdatedPath(path)
	if err := fsys.WriteFile(result.Path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", result.Path)
	}

	logger := logging.GetLogger("imagestreams")
	logger.Info().
		Str("path", result.Path).
		Str("version", version).
		Bool("created", result.Created).
		Msg("Imagestream updated")

	return result, nil
}

// String summarizes the result for output
func (r *UpdateResult) String() string {
	if r.Created {
		return fmt.Sprintf("created from tag %s, written to %s", r.Template, r.Path)
	}
	return fmt.Sprintf("written to %s", r.Path)
}
