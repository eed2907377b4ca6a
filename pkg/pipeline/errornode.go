package pipeline

import (
	"errors"
	"fmt"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
	"github.com/matzehuels/dotfilter/pkg/pandoc"
	"github.com/matzehuels/dotfilter/pkg/render"
)

// ErrorNode builds the node that replaces a block whose diagram was
// rejected. It keeps the block id, names the engine and location, and holds
// the diagnostic verbatim in a code block so it survives every writer.
func ErrorNode(block *pandoc.CodeBlock, err error) pandoc.Node {
	engine := block.Lang()
	span := render.Span{Path: block.Path}
	diagnostic := dferrors.UserMessage(err)

	var se *render.SyntaxError
	if errors.As(err, &se) {
		engine = se.Engine
		span = se.Span
		diagnostic = se.Diagnostic
	}

	attr := pandoc.Attr{
		ID:        block.Attr.ID,
		Classes:   []string{ErrorClass},
		KeyValues: []pandoc.KeyValue{{Key: "style", Value: ErrorStyle}},
	}
	heading := append(
		[]pandoc.Node{pandoc.Strong(pandoc.Text("Diagram error")...), pandoc.Space()},
		pandoc.Text(fmt.Sprintf("(%s at %s)", engine, span))...,
	)
	return pandoc.Div(attr,
		pandoc.Para(heading...),
		pandoc.NewCodeBlock(pandoc.Attr{}, diagnostic),
	)
}
