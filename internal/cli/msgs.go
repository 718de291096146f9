package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgGeneratorShort    = "Generate image version sources from a manifest"
	MsgConfigShort       = "Print the effective configuration as TOML"
	MsgBuildInfoShort    = "Print build information"
	MsgImageStreamsShort = "Check and update imagestream files"
	MsgISCheckShort      = "Check that imagestreams carry a version"
	MsgISUpdateShort     = "Point the tag of a version at a new image"
	MsgVersionTableShort = "Rebuild the README table of available images"
	MsgQuayShort         = "Publish a README description to quay.io"

	// Generator output
	MsgGeneratorSummary = "%d rule(s) applied, %d skipped, %d dead link(s) removed\n"

	// Imagestream output
	MsgISVersion      = "Version to check is %s.\n"
	MsgISCheckingFile = "Checking file %s.\n"
	MsgISFileFailed   = "The latest version is not present in %s or in latest tag.\n"
	MsgISNoFiles      = "No json files present in %s.\n"
	MsgISAllPresent   = "Imagestreams contains the latest version.\n"
	MsgISUpdated      = "Imagestream %s was updated to %s with new %s\n"
	MsgISTagCreated   = "Tag %s is not present in %s, created from %s.\n"
	MsgISTagPresent   = "Tag %s is present in %s.\n"

	// Version table output
	MsgVTNoVersions   = "no VERSIONS variable found in %s, please make sure the syntax is correct"
	MsgVTUnsupported  = "WARNING: Distros %v in version %s are unsupported and Dockerfiles for them should be deleted\n"
	MsgVTNoMarkers    = "The Table start and Table end tag not found, not modifying %s\n"
	MsgVTManyMarkers  = "More than one Table start and Table end tag found, not modifying %s\n"
	MsgVTUpdated      = "Updated table in %s\n"
	MsgQuayDryRun     = "Would set the description of %s to:\n\n%s"
	MsgQuayUpdated    = "Updated the description of %s\n"
	MsgQuayTokenUnset = "environment variable %s holding the quay.io token is not set"

	// Build info
	MsgVersionFormat = "%s version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Configuration file (default .sclorg.toml in the working directory)"
	MsgFlagColor         = "Color output: auto, always or never"
	MsgFlagVersion       = "Version of image to generate sources for"
	MsgFlagManifest      = "Path to manifest YAML file"
	MsgFlagMultispec     = "Path to multispec YAML file"
	MsgFlagWorkDir       = "Directory holding the rule sources and the version tree"
	MsgFlagDistgenBinary = "distgen executable (overrides distgen.binary)"
	MsgFlagISDir         = "Directory holding the imagestream files (overrides imagestreams.dir)"
	MsgFlagMakefile      = "Makefile declaring VERSIONS"
	MsgFlagReadme        = "README file holding the table markers"
	MsgFlagRoot          = "Directory holding the version directories"
	MsgFlagDryRun        = "Print the result instead of changing anything"
	MsgFlagQuayDir       = "Version directory holding README.md"
	MsgFlagNamespace     = "quay.io namespace (overrides quay.namespace)"

	// Error messages
	MsgErrPrefix = "Error:"
	MsgUsageHint = "Run '%s --help' for usage.\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/generator-long.txt
	msgGeneratorLongRaw string
	MsgGeneratorLong    = strings.TrimSpace(msgGeneratorLongRaw)

	//go:embed msgs/generator-example.txt
	msgGeneratorExampleRaw string
	MsgGeneratorExample    = strings.TrimRight(msgGeneratorExampleRaw, "\n")

	//go:embed msgs/imagestreams-long.txt
	msgImageStreamsLongRaw string
	MsgImageStreamsLong    = strings.TrimSpace(msgImageStreamsLongRaw)

	//go:embed msgs/versiontable-long.txt
	msgVersionTableLongRaw string
	MsgVersionTableLong    = strings.TrimSpace(msgVersionTableLongRaw)

	//go:embed msgs/quay-long.txt
	msgQuayLongRaw string
	MsgQuayLong    = strings.TrimSpace(msgQuayLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
