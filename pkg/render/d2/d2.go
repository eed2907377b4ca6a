// Package d2 renders D2 diagrams to SVG in-process using
// [oss.terrastruct.com/d2].
//
// Fence attributes:
//
//   - layout: dagre (default) or elk
//   - theme: numeric D2 theme id
//   - sketch: true renders in hand-drawn style
//   - pad: padding around the diagram in pixels
package d2

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2layouts/d2elklayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/matzehuels/dotfilter/pkg/render"
)

// Name is the engine name reported in logs and errors.
const Name = "d2"

// DefaultPad is the padding used when neither options nor the block set one.
const DefaultPad = int64(d2svg.DEFAULT_PADDING)

// Options holds engine-wide defaults; fence attributes override them.
type Options struct {
	Layout  string // "dagre" or "elk"; empty means dagre
	ThemeID int64
	Sketch  bool
	Pad     *int64
}

// Engine renders D2 source. It is not safe for concurrent use.
type Engine struct {
	opts  Options
	ruler *textmeasure.Ruler
}

// New creates an engine. Font measurement is initialized lazily.
func New(opts Options) *Engine {
	if opts.Layout == "" {
		opts.Layout = "dagre"
	}
	if opts.ThemeID == 0 {
		opts.ThemeID = d2themescatalog.NeutralDefault.ID
	}
	return &Engine{opts: opts}
}

// Name implements render.Renderer.
func (e *Engine) Name() string { return Name }

// blockOptions is Options after applying one block's attributes.
type blockOptions struct {
	layout      string
	layoutFixed bool
	themeID     int64
	sketch      bool
	pad         int64
}

func (e *Engine) resolve(attrs render.Attributes) (blockOptions, error) {
	bo := blockOptions{
		layout:  e.opts.Layout,
		themeID: e.opts.ThemeID,
		sketch:  e.opts.Sketch,
		pad:     DefaultPad,
	}
	if e.opts.Pad != nil {
		bo.pad = *e.opts.Pad
	}

	if v, ok := attrs.Get("layout"); ok {
		bo.layout = strings.ToLower(strings.TrimSpace(v))
		bo.layoutFixed = true
	}
	if _, err := layoutFor(bo.layout); err != nil {
		return bo, err
	}
	if v, ok := attrs.Get("theme"); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return bo, fmt.Errorf("invalid theme %q: must be a numeric theme id", v)
		}
		bo.themeID = id
	}
	if v, ok := attrs.Get("sketch"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return bo, fmt.Errorf("invalid sketch %q: must be true or false", v)
		}
		bo.sketch = b
	}
	if v, ok := attrs.Get("pad"); ok {
		p, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || p < 0 {
			return bo, fmt.Errorf("invalid pad %q: must be a non-negative integer", v)
		}
		bo.pad = p
	}
	return bo, nil
}

func layoutFor(engine string) (d2graph.LayoutGraph, error) {
	switch engine {
	case "dagre", "":
		return d2dagrelayout.DefaultLayout, nil
	case "elk":
		return d2elklayout.DefaultLayout, nil
	default:
		return nil, fmt.Errorf("unknown layout %q (must be dagre or elk)", engine)
	}
}

// Render implements render.Renderer.
func (e *Engine) Render(ctx context.Context, source string, attrs render.Attributes) (*render.Image, error) {
	bo, err := e.resolve(attrs)
	if err != nil {
		return nil, render.NewSyntaxError(Name, err.Error())
	}

	if e.ruler == nil {
		ruler, err := textmeasure.NewRuler()
		if err != nil {
			return nil, fmt.Errorf("init text ruler: %w", err)
		}
		e.ruler = ruler
	}

	// A layout set on the fence wins over d2-config vars in the source.
	layoutResolver := func(engine string) (d2graph.LayoutGraph, error) {
		if bo.layoutFixed {
			return layoutFor(bo.layout)
		}
		if engine == "" {
			engine = bo.layout
		}
		return layoutFor(engine)
	}

	compileOpts := &d2lib.CompileOptions{
		LayoutResolver: layoutResolver,
		Ruler:          e.ruler,
	}
	renderOpts := &d2svg.RenderOpts{
		ThemeID: ptr(bo.themeID),
		Sketch:  ptr(bo.sketch),
		Pad:     ptr(bo.pad),
	}

	diagram, _, err := d2lib.Compile(d2log.WithDefault(ctx), source, compileOpts, renderOpts)
	if err != nil {
		return nil, render.NewSyntaxError(Name, err.Error())
	}

	// Unset scale makes the SVG fit its container; keep intrinsic size instead.
	if renderOpts.Scale == nil {
		renderOpts.Scale = ptr(1.0)
	}

	out, err := d2svg.Render(diagram, renderOpts)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}

	return &render.Image{Engine: Name, SVG: out}, nil
}

func ptr[T any](v T) *T {
	return &v
}
