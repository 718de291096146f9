package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config is the complete tool configuration
type Config struct {
	Distgen      Distgen      `koanf:"distgen"`
	Generator    Generator    `koanf:"generator"`
	Log          Log          `koanf:"log"`
	ImageStreams ImageStreams `koanf:"imagestreams"`
	Quay         Quay         `koanf:"quay"`
	VersionTable VersionTable `koanf:"versiontable"`
}

// Distgen configures the external template renderer
type Distgen struct {
	Binary                string        `koanf:"binary"`
	Args                  []string      `koanf:"args"`
	NoCombinationExitCode int           `koanf:"no_combination_exit_code"`
	Timeout               time.Duration `koanf:"timeout"`
}

// Generator configures rule application
type Generator struct {
	DirMode string `koanf:"dir_mode"`
}

// Log configures logging destinations
type Log struct {
	File bool `koanf:"file"`
}

// ImageStreams configures the imagestream tools
type ImageStreams struct {
	Dir string `koanf:"dir"`
}

// Quay configures the quay.io API client
type Quay struct {
	APIURL    string `koanf:"api_url"`
	TokenEnv  string `koanf:"token_env"`
	Namespace string `koanf:"namespace"`
}

// VersionTable configures the README compatibility table
type VersionTable struct {
	Distros map[string]DistroInfo `koanf:"distros"`
}

// DistroInfo describes one table column. Image is a printf pattern taking
// "<name>-<version without dots>".
type DistroInfo struct {
	Name  string `koanf:"name"`
	Image string `koanf:"image"`
}

// DirPerm parses Generator.DirMode as an octal permission
func (c *Config) DirPerm() (uint32, error) {
	mode, err := strconv.ParseUint(c.Generator.DirMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("generator.dir_mode %q is not an octal mode: %w", c.Generator.DirMode, err)
	}
	return uint32(mode), nil
}
