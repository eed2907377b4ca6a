// Package embed decides how a rendered diagram reaches the pandoc writer
// and builds the node that replaces the diagram block.
//
// The mode is chosen once per run from the output format:
//
//	html, epub       Inline        SVG markup in a raw HTML block
//	docx, pptx       LinkedRaster  PNG file referenced by an image
//	anything else    LinkedVector  SVG file referenced by an image
package embed

import (
	"context"
	"strings"

	"github.com/matzehuels/dotfilter/pkg/artifact"
	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
	"github.com/matzehuels/dotfilter/pkg/pandoc"
	"github.com/matzehuels/dotfilter/pkg/raster"
	"github.com/matzehuels/dotfilter/pkg/render"
)

// Mode is an embedding mode.
type Mode int

const (
	LinkedVector Mode = iota
	Inline
	LinkedRaster
)

func (m Mode) String() string {
	switch m {
	case Inline:
		return "inline"
	case LinkedVector:
		return "linked-vector"
	case LinkedRaster:
		return "linked-raster"
	default:
		return "unknown"
	}
}

// BaseFormat strips pandoc extension modifiers: "html+smart" and
// "epub-raw_html" become "html" and "epub".
func BaseFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if i := strings.IndexAny(format, "+-"); i >= 0 {
		format = format[:i]
	}
	return format
}

// Select returns the embedding mode for a pandoc output format. It is
// defined for every input; unknown and empty formats link vector files.
func Select(format string) Mode {
	switch BaseFormat(format) {
	case "html", "epub":
		return Inline
	case "docx", "pptx":
		return LinkedRaster
	default:
		return LinkedVector
	}
}

// Strategy turns a rendered image into the node replacing its block.
type Strategy interface {
	Mode() Mode
	Embed(ctx context.Context, block *pandoc.CodeBlock, img *render.Image) (pandoc.Node, error)
}

// Deps are the collaborators the linked modes need.
type Deps struct {
	Artifacts *artifact.Materializer
	Raster    *raster.Chain
}

// New returns the strategy for mode.
func New(mode Mode, deps Deps) (Strategy, error) {
	switch mode {
	case Inline:
		return inlineStrategy{}, nil
	case LinkedVector:
		if deps.Artifacts == nil {
			return nil, dferrors.New(dferrors.ErrCodeInternal, "%s embedding needs an artifact materializer", mode)
		}
		return vectorStrategy{artifacts: deps.Artifacts}, nil
	case LinkedRaster:
		if deps.Artifacts == nil || deps.Raster == nil {
			return nil, dferrors.New(dferrors.ErrCodeInternal, "%s embedding needs an artifact materializer and a converter chain", mode)
		}
		return rasterStrategy{vector: vectorStrategy{artifacts: deps.Artifacts}, chain: deps.Raster}, nil
	default:
		return nil, dferrors.New(dferrors.ErrCodeInternal, "unknown embedding mode %d", int(mode))
	}
}
