// Package runctx builds the immutable per-run context of the filter from
// the command line, the environment, and an optional config file.
//
// Environment:
//
//	DOTFILTER_TMPDIR      directory for artifacts (must exist)
//	DOTFILTER_LOG_LEVEL   debug, info, warn (default) or error
//	DOTFILTER_CONFIG      TOML config file (default ./dotfilter.toml if present)
package runctx

import (
	"github.com/matzehuels/dotfilter/pkg/artifact"
	"github.com/matzehuels/dotfilter/pkg/embed"
	"github.com/matzehuels/dotfilter/pkg/raster"
	"github.com/matzehuels/dotfilter/pkg/render"
	"github.com/matzehuels/dotfilter/pkg/render/d2"
	"github.com/matzehuels/dotfilter/pkg/render/graphviz"
)

// Environment variables read by the filter.
const (
	EnvTempDir  = "DOTFILTER_TMPDIR"
	EnvLogLevel = "DOTFILTER_LOG_LEVEL"
	EnvConfig   = "DOTFILTER_CONFIG"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = "dotfilter.toml"

// Context is everything a run needs, resolved once before the document is
// read.
type Context struct {
	Format     string
	Mode       embed.Mode
	TempDir    string
	RunID      string
	DPI        int
	Converters []raster.Tool
	Graphviz   graphviz.Options
	D2         d2.Options

	// ConfigPath is the config file that was loaded, if any.
	ConfigPath string
}

// New resolves the run context for a pandoc output format.
func New(format string, getenv func(string) string) (Context, error) {
	cfg, path, err := LoadConfig(getenv)
	if err != nil {
		return Context{}, err
	}
	return FromConfig(format, cfg, path, getenv)
}

// FromConfig resolves the run context from an already loaded config.
func FromConfig(format string, cfg Config, path string, getenv func(string) string) (Context, error) {
	dir, err := ResolveTempDir(getenv)
	if err != nil {
		return Context{}, err
	}
	tools, err := raster.ToolsByName(cfg.Converters)
	if err != nil {
		return Context{}, err
	}

	return Context{
		Format:     format,
		Mode:       embed.Select(format),
		TempDir:    dir,
		RunID:      artifact.NewRunID(),
		DPI:        cfg.DPI,
		Converters: tools,
		Graphviz:   graphviz.Options{Layout: cfg.Graphviz.Layout},
		D2: d2.Options{
			Layout:  cfg.D2.Layout,
			ThemeID: cfg.D2.Theme,
			Sketch:  cfg.D2.Sketch,
			Pad:     cfg.D2.Pad,
		},
		ConfigPath: path,
	}, nil
}

// Registry returns a registry with every diagram engine. Callers must
// Close it when the run ends.
func (c Context) Registry() *render.Registry {
	r := render.NewRegistry()
	r.Register(graphviz.New(c.Graphviz), "dot", "graphviz")
	r.Register(d2.New(c.D2), "d2")
	return r
}

// Chain returns the raster converter chain.
func (c Context) Chain() *raster.Chain {
	return raster.NewChain(c.Converters, c.DPI)
}

// Strategy returns the embedding strategy for the run's mode.
func (c Context) Strategy() (embed.Strategy, error) {
	deps := embed.Deps{}
	if c.Mode != embed.Inline {
		m, err := artifact.New(c.TempDir, c.RunID)
		if err != nil {
			return nil, err
		}
		deps.Artifacts = m
	}
	if c.Mode == embed.LinkedRaster {
		deps.Raster = c.Chain()
	}
	return embed.New(c.Mode, deps)
}
