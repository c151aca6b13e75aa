package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ningen/pkg/errors"
	"github.com/arthur-debert/ningen/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// ProjectConfigFiles are the names looked up in the project directory, in
// order. The first one found is loaded.
var ProjectConfigFiles = []string{".ningen.toml", "ningen.toml"}

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the effective ningen configuration
type Config struct {
	Root       string `koanf:"root"`
	PlanFile   string `koanf:"plan_file"`
	Output     string `koanf:"output"`
	Color      string `koanf:"color"`
	StylesFile string `koanf:"styles_file"`

	// Sources lists the configuration files that were loaded.
	Sources []string `koanf:"-"`
}

// Options control where configuration is loaded from
type Options struct {
	// ProjectDir is searched for ProjectConfigFiles. Defaults to ".".
	ProjectDir string
	// UserConfig is the user configuration file. Defaults to
	// $XDG_CONFIG_HOME/ningen/config.toml.
	UserConfig string
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]any
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load builds the effective configuration.
func Load(opts Options) (*Config, error) {
	log := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	known := k.Keys()
	var sources []string

	// 2. User config
	userConfig := opts.UserConfig
	if userConfig == "" {
		userConfig = UserConfigPath()
	}
	loaded, err := loadFile(k, userConfig)
	if err != nil {
		return nil, err
	}
	if loaded {
		sources = append(sources, userConfig)
	}

	// 3. Project config
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	for _, name := range ProjectConfigFiles {
		path := filepath.Join(projectDir, name)
		loaded, err := loadFile(k, path)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, path)
			break
		}
	}

	// 4. Environment, known keys only
	err = k.Load(env.Provider("NINGEN_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "NINGEN_"))
		if !slices.Contains(known, key) {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}
	cfg.Sources = sources

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Strs("sources", sources).
		Str("root", cfg.Root).
		Str("output", cfg.Output).
		Msg("Configuration loaded")

	return &cfg, nil
}

// loadFile loads a TOML file into k when it exists
func loadFile(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access config %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return true, nil
}

func (c *Config) validate() error {
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return errors.Newf(errors.ErrConfigParse,
			"invalid color %q (expected auto, always or never)", c.Color).
			WithDetail("key", "color")
	}
	if c.Root == "" {
		c.Root = "."
	}
	return nil
}

// UserConfigPath returns the user configuration file path.
// It respects XDG_CONFIG_HOME if set, otherwise uses the platform config dir
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "ningen", "config.toml")
}

// Defaults returns the embedded default configuration file.
func Defaults() string {
	return string(defaultConfig)
}
