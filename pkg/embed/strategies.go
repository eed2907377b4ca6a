package embed

import (
	"context"
	"html"
	"os"
	"time"

	"github.com/matzehuels/dotfilter/pkg/artifact"
	"github.com/matzehuels/dotfilter/pkg/observability"
	"github.com/matzehuels/dotfilter/pkg/pandoc"
	"github.com/matzehuels/dotfilter/pkg/raster"
	"github.com/matzehuels/dotfilter/pkg/render"
	"github.com/matzehuels/dotfilter/pkg/render/svg"
)

// Block attributes copied onto linked images.
var imageAttrKeys = []string{"width", "height"}

type inlineStrategy struct{}

func (inlineStrategy) Mode() Mode { return Inline }

func (inlineStrategy) Embed(_ context.Context, block *pandoc.CodeBlock, img *render.Image) (pandoc.Node, error) {
	markup := svg.Inline(img.SVG)
	if id := block.Attr.ID; id != "" {
		markup = `<div id="` + html.EscapeString(id) + `">` + markup + `</div>`
	}
	return pandoc.RawBlock("html", markup), nil
}

type vectorStrategy struct {
	artifacts *artifact.Materializer
}

func (vectorStrategy) Mode() Mode { return LinkedVector }

func (s vectorStrategy) Embed(ctx context.Context, block *pandoc.CodeBlock, img *render.Image) (pandoc.Node, error) {
	a, err := s.write(ctx, img)
	if err != nil {
		return nil, err
	}
	return imageFor(block, a), nil
}

func (s vectorStrategy) write(ctx context.Context, img *render.Image) (artifact.Artifact, error) {
	a, err := s.artifacts.WriteVector(img.SVG)
	if err != nil {
		return artifact.Artifact{}, err
	}
	observability.Filter().OnArtifactWritten(ctx, a.Path, string(a.Format), len(img.SVG))
	return a, nil
}

type rasterStrategy struct {
	vector vectorStrategy
	chain  *raster.Chain
}

func (rasterStrategy) Mode() Mode { return LinkedRaster }

func (s rasterStrategy) Embed(ctx context.Context, block *pandoc.CodeBlock, img *render.Image) (pandoc.Node, error) {
	src, err := s.vector.write(ctx, img)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	png, tool, err := s.chain.Convert(ctx, src)
	observability.Filter().OnConversion(ctx, tool, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	size := 0
	if fi, err := os.Stat(png.Path); err == nil {
		size = int(fi.Size())
	}
	observability.Filter().OnArtifactWritten(ctx, png.Path, string(png.Format), size)
	return imageFor(block, png), nil
}

// imageFor builds a paragraph holding an image that links to a.
func imageFor(block *pandoc.CodeBlock, a artifact.Artifact) pandoc.Node {
	attr := pandoc.Attr{ID: block.Attr.ID}
	for _, key := range imageAttrKeys {
		if v, ok := block.Attr.Get(key); ok {
			attr.KeyValues = append(attr.KeyValues, pandoc.KeyValue{Key: key, Value: v})
		}
	}
	var alt []pandoc.Node
	if caption, ok := block.Attr.Get("caption"); ok {
		alt = pandoc.Text(caption)
	}
	return pandoc.Para(pandoc.Image(attr, alt, a.Path, ""))
}
