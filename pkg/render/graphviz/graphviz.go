// Package graphviz renders Graphviz DOT diagrams to SVG in-process.
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// compiled to WebAssembly; no dot binary is needed. The runtime is created
// on first use and reused for every block of a run, so callers should
// [Engine.Close] it when done.
//
// Fence attributes:
//
//   - layout: dot (default), neato, fdp, sfdp, circo, twopi, osage, patchwork
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	gv "github.com/goccy/go-graphviz"

	"github.com/matzehuels/dotfilter/pkg/render"
	"github.com/matzehuels/dotfilter/pkg/render/svg"
)

// Name is the engine name reported in logs and errors.
const Name = "graphviz"

// Layouts lists the accepted values of the layout attribute.
var Layouts = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// Options configures the engine.
type Options struct {
	// Layout is used when a block has no layout attribute. Empty means "dot".
	Layout string
}

// Engine renders DOT source. It is not safe for concurrent use.
type Engine struct {
	opts Options
	gv   *gv.Graphviz
}

// New creates an engine. The Graphviz runtime is initialized lazily.
func New(opts Options) *Engine {
	if opts.Layout == "" {
		opts.Layout = "dot"
	}
	return &Engine{opts: opts}
}

// Name implements render.Renderer.
func (e *Engine) Name() string { return Name }

// Render implements render.Renderer.
func (e *Engine) Render(ctx context.Context, source string, attrs render.Attributes) (*render.Image, error) {
	layout := e.opts.Layout
	if v, ok := attrs.Get("layout"); ok {
		layout = strings.ToLower(strings.TrimSpace(v))
	}
	if !slices.Contains(Layouts, layout) {
		return nil, render.NewSyntaxError(Name, fmt.Sprintf("unknown layout %q (must be one of: %s)", layout, strings.Join(Layouts, ", ")))
	}

	if e.gv == nil {
		g, err := gv.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("init graphviz: %w", err)
		}
		e.gv = g
	}

	graph, err := gv.ParseBytes([]byte(source))
	if err != nil {
		return nil, render.NewSyntaxError(Name, err.Error())
	}
	if graph == nil {
		return nil, render.NewSyntaxError(Name, "no graph found in source")
	}
	defer graph.Close()

	e.gv.SetLayout(gv.Layout(layout))

	var buf bytes.Buffer
	if err := e.gv.Render(ctx, graph, gv.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	out := svg.NormalizeViewBox(buf.Bytes())
	return &render.Image{Engine: Name, SVG: out}, nil
}

// Close releases the Graphviz runtime. The runtime reports the last parse
// failure again on close; that error is already surfaced by Render and is
// dropped here.
func (e *Engine) Close() error {
	if e.gv == nil {
		return nil
	}
	_ = e.gv.Close()
	e.gv = nil
	return nil
}
