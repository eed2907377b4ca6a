package runctx

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
	"github.com/matzehuels/dotfilter/pkg/raster"
	"github.com/matzehuels/dotfilter/pkg/render/graphviz"
)

// Config is the optional TOML configuration file.
//
//	dpi = 300
//	converters = ["rsvg-convert", "magick"]
//
//	[graphviz]
//	layout = "dot"
//
//	[d2]
//	theme = 0
//	layout = "elk"
//	sketch = false
//	pad = 20
type Config struct {
	DPI        int            `toml:"dpi"`
	Converters []string       `toml:"converters"`
	Graphviz   GraphvizConfig `toml:"graphviz"`
	D2         D2Config       `toml:"d2"`
}

// GraphvizConfig holds Graphviz engine defaults.
type GraphvizConfig struct {
	Layout string `toml:"layout"`
}

// D2Config holds D2 engine defaults.
type D2Config struct {
	Layout string `toml:"layout"`
	Theme  int64  `toml:"theme"`
	Sketch bool   `toml:"sketch"`
	Pad    *int64 `toml:"pad"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		DPI:        raster.DefaultDPI,
		Converters: raster.DefaultPreference(),
		Graphviz:   GraphvizConfig{Layout: "dot"},
		D2:         D2Config{Layout: "dagre"},
	}
}

// LoadConfig reads the config file named by DOTFILTER_CONFIG, or
// dotfilter.toml in the working directory when it exists. It returns the
// defaults and an empty path when there is no file.
func LoadConfig(getenv func(string) string) (Config, string, error) {
	path := getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), "", nil
		}
		return Config{}, "", dferrors.Wrap(dferrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, "", dferrors.Wrap(dferrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, path, nil
}

// ParseConfig decodes TOML over the defaults and validates the result.
// Unknown keys are rejected.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, dferrors.New(dferrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges. Converter names are checked when the chain
// is built.
func (c Config) Validate() error {
	if c.DPI <= 0 {
		return dferrors.New(dferrors.ErrCodeInvalidConfig, "dpi must be positive, got %d", c.DPI)
	}
	if !slices.Contains(graphviz.Layouts, c.Graphviz.Layout) {
		return dferrors.New(dferrors.ErrCodeInvalidConfig, "graphviz.layout %q is not one of: %s", c.Graphviz.Layout, strings.Join(graphviz.Layouts, ", "))
	}
	if c.D2.Layout != "dagre" && c.D2.Layout != "elk" {
		return dferrors.New(dferrors.ErrCodeInvalidConfig, "d2.layout %q is not one of: dagre, elk", c.D2.Layout)
	}
	if c.D2.Pad != nil && *c.D2.Pad < 0 {
		return dferrors.New(dferrors.ErrCodeInvalidConfig, "d2.pad must not be negative")
	}
	return nil
}
