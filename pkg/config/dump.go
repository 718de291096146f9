package config

import (
	toml "github.com/pelletier/go-toml/v2"
)

type dumpDistgen struct {
	Binary                string   `toml:"binary"`
	Args                  []string `toml:"args"`
	NoCombinationExitCode int      `toml:"no_combination_exit_code"`
	Timeout               string   `toml:"timeout"`
}

type dumpDistro struct {
	Name  string `toml:"name"`
	Image string `toml:"image"`
}

type dumpConfig struct {
	Distgen   dumpDistgen `toml:"distgen"`
	Generator struct {
		DirMode string `toml:"dir_mode"`
	} `toml:"generator"`
	Log struct {
		File bool `toml:"file"`
	} `toml:"log"`
	ImageStreams struct {
		Dir string `toml:"dir"`
	} `toml:"imagestreams"`
	Quay struct {
		APIURL    string `toml:"api_url"`
		TokenEnv  string `toml:"token_env"`
		Namespace string `toml:"namespace"`
	} `toml:"quay"`
	VersionTable struct {
		Distros map[string]dumpDistro `toml:"distros"`
	} `toml:"versiontable"`
}

// Dump renders the effective configuration as TOML
func Dump(cfg *Config) ([]byte, error) {
	var out dumpConfig

	out.Distgen = dumpDistgen{
		Binary:                cfg.Distgen.Binary,
		Args:                  cfg.Distgen.Args,
		NoCombinationExitCode: cfg.Distgen.NoCombinationExitCode,
		Timeout:               cfg.Distgen.Timeout.String(),
	}
	if out.Distgen.Args == nil {
		out.Distgen.Args = []string{}
	}
	out.Generator.DirMode = cfg.Generator.DirMode
	out.Log.File = cfg.Log.File
	out.ImageStreams.Dir = cfg.ImageStreams.Dir
	out.Quay.APIURL = cfg.Quay.APIURL
	out.Quay.TokenEnv = cfg.Quay.TokenEnv
	out.Quay.Namespace = cfg.Quay.Namespace

	out.VersionTable.Distros = make(map[string]dumpDistro, len(cfg.VersionTable.Distros))
	for key, distro := range cfg.VersionTable.Distros {
		out.VersionTable.Distros[key] = dumpDistro{Name: distro.Name, Image: distro.Image}
	}

	return toml.Marshal(out)
}
