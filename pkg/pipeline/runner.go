package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dotfilter/pkg/embed"
	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
	"github.com/matzehuels/dotfilter/pkg/observability"
	"github.com/matzehuels/dotfilter/pkg/pandoc"
	"github.com/matzehuels/dotfilter/pkg/render"
)

// Runner applies the filter to documents.
//
// A Runner is single-threaded: engines and the artifact counter are shared
// across the blocks of a document.
type Runner struct {
	Registry *render.Registry
	Strategy embed.Strategy
	Logger   *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default is used.
func NewRunner(reg *render.Registry, strategy embed.Strategy, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Strategy: strategy,
		Logger:   logger,
	}
}

// Run decodes a document from r, transforms it, and encodes it to w.
// Nothing is written to w when an error is returned.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (*Result, error) {
	doc, err := pandoc.Decode(in)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("decoded document", "api", doc.APIVersion(), "blocks", len(doc.Blocks()))

	result, err := r.Execute(ctx, doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pandoc.Encode(&buf, doc); err != nil {
		return nil, dferrors.Wrap(dferrors.ErrCodeInternal, err, "encode document")
	}
	if _, err := buf.WriteTo(out); err != nil {
		return nil, dferrors.Wrap(dferrors.ErrCodeInternal, err, "write document")
	}
	return result, nil
}

// Execute replaces every diagram block of doc in place.
func (r *Runner) Execute(ctx context.Context, doc *pandoc.Document) (*Result, error) {
	start := time.Now()
	result := &Result{}

	match := func(b *pandoc.CodeBlock) bool {
		tag := b.Lang()
		if tag == render.FixtureTag {
			result.Stats.Skipped++
			r.Logger.Debug("left fixture block untouched", "path", b.Path)
			return false
		}
		return r.Registry.Has(tag)
	}

	replace := func(b *pandoc.CodeBlock) (pandoc.Node, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Stats.Blocks++
		return r.replaceBlock(ctx, b, &result.Stats)
	}

	if err := doc.Transform(match, replace); err != nil {
		return nil, err
	}

	result.Stats.Duration = time.Since(start)
	r.Logger.Info("processed document",
		"blocks", result.Stats.Blocks,
		"rendered", result.Stats.Rendered,
		"errors", result.Stats.SyntaxErrors,
		"mode", r.Strategy.Mode(),
		"duration", result.Stats.Duration)
	return result, nil
}

func (r *Runner) replaceBlock(ctx context.Context, b *pandoc.CodeBlock, stats *Stats) (pandoc.Node, error) {
	tag := b.Lang()
	start := time.Now()
	hooks := observability.Filter()
	hooks.OnBlockStart(ctx, tag, b.Path)

	img, err := r.Registry.Render(ctx, tag, b.Text, attributes(b.Attr), b.Path)
	if err != nil {
		hooks.OnBlockComplete(ctx, tag, b.Path, time.Since(start), err)
		if dferrors.IsFatal(err) {
			return nil, err
		}
		stats.SyntaxErrors++
		r.Logger.Warn("diagram rejected", "tag", tag, "path", b.Path, "err", err)
		return ErrorNode(b, err), nil
	}

	node, err := r.Strategy.Embed(ctx, b, img)
	hooks.OnBlockComplete(ctx, tag, b.Path, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	stats.Rendered++
	r.Logger.Debug("rendered diagram",
		"tag", tag,
		"path", b.Path,
		"engine", img.Engine,
		"bytes", len(img.SVG),
		"duration", time.Since(start))
	return node, nil
}

func attributes(a pandoc.Attr) render.Attributes {
	out := make(render.Attributes, len(a.KeyValues))
	for i, kv := range a.KeyValues {
		out[i] = render.Attribute{Key: kv.Key, Value: kv.Value}
	}
	return out
}
