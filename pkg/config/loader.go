package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	sclerrors "github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

// FileName is the configuration file looked up in the working directory
const FileName = ".sclorg.toml"

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "SCLORG_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions selects the configuration sources
type LoadOptions struct {
	// Path is an explicit config file; it must exist when set
	Path string
	// WorkDir is searched for .sclorg.toml when Path is empty
	WorkDir string
	// Overrides are flat dotted keys applied last (e.g. "distgen.binary")
	Overrides map[string]interface{}
}

// Load builds the configuration from all layers
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config.loader")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, sclerrors.Wrap(err, sclerrors.ErrConfigParse, "failed to load defaults")
	}

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, sclerrors.Wrapf(err, sclerrors.ErrConfigParse, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, sclerrors.Wrap(err, sclerrors.ErrConfigLoad, "failed to load env vars")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, sclerrors.Wrap(err, sclerrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, sclerrors.Wrap(err, sclerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps SCLORG_DISTGEN_NO_COMBINATION_EXIT_CODE to
// distgen.no_combination_exit_code: the first underscore separates the
// section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return "", sclerrors.Wrapf(err, sclerrors.ErrConfigLoad, "config file %s is not readable", opts.Path)
		}
		return opts.Path, nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	candidate := filepath.Join(workDir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Distgen.Binary) == "" {
		return sclerrors.New(sclerrors.ErrConfigInvalid, "distgen.binary must not be empty")
	}
	if cfg.Distgen.NoCombinationExitCode <= 0 || cfg.Distgen.NoCombinationExitCode > 255 {
		return sclerrors.Newf(sclerrors.ErrConfigInvalid,
			"distgen.no_combination_exit_code must be between 1 and 255, got %d", cfg.Distgen.NoCombinationExitCode)
	}
	if cfg.Distgen.Timeout < 0 {
		return sclerrors.New(sclerrors.ErrConfigInvalid, "distgen.timeout must not be negative")
	}
	if _, err := cfg.DirPerm(); err != nil {
		return sclerrors.Wrap(err, sclerrors.ErrConfigInvalid, "invalid generator.dir_mode")
	}
	for key, distro := range cfg.VersionTable.Distros {
		if distro.Name == "" || !strings.Contains(distro.Image, "%s") {
			return sclerrors.Newf(sclerrors.ErrConfigInvalid,
				"versiontable.distros.%s needs a name and an image pattern containing %%s", key)
		}
	}
	return nil
}
