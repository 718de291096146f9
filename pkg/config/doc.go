// Package config loads the shared tool configuration.
//
// Configuration is layered with koanf, lowest precedence first:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. a TOML file: the --config path, or .sclorg.toml in the working directory
//  3. SCLORG_<SECTION>_<KEY> environment variables
//  4. explicit overrides from command-line flags
//
// Example:
//
//	[distgen]
//	binary = "/usr/bin/dg"
//	timeout = "10m"
//
// is equivalent to SCLORG_DISTGEN_BINARY=/usr/bin/dg SCLORG_DISTGEN_TIMEOUT=10m.
package config
