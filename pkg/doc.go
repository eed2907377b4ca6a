// Package pkg provides the libraries behind the dotfilter pandoc filter.
//
// # Overview
//
// dotfilter replaces diagram code blocks in a pandoc document with rendered
// images. The pkg directory is organized by stage:
//
//  1. [pandoc] - Document tree decoding, encoding and the block walker
//  2. [render] - Diagram engines ([render/graphviz], [render/d2]) behind a registry
//  3. [embed] - Output-format dispatch and the node each mode produces
//  4. [artifact] and [raster] - Temporary files and SVG to PNG conversion
//  5. [runctx] - Per-run settings from argv, environment and config file
//  6. [pipeline] - Orchestration (decode → transform → encode)
//
// # Architecture
//
// The data flow of one pandoc run:
//
//	pandoc JSON on stdin
//	         ↓
//	    [pandoc] package (decode, find diagram blocks)
//	         ↓
//	    [render] package (source → SVG, syntax errors become error nodes)
//	         ↓
//	    [embed] package (inline SVG, linked SVG, or linked PNG via [raster])
//	         ↓
//	pandoc JSON on stdout
//
// # Quick Start
//
// Filter a document the way the command does:
//
//	rc, err := runctx.New("html", os.Getenv)
//	if err != nil {
//	    return err
//	}
//	reg := rc.Registry()
//	defer reg.Close()
//	strategy, err := rc.Strategy()
//	if err != nil {
//	    return err
//	}
//	_, err = pipeline.NewRunner(reg, strategy, logger).Run(ctx, os.Stdin, os.Stdout)
//
// [pandoc]: github.com/matzehuels/dotfilter/pkg/pandoc
// [render]: github.com/matzehuels/dotfilter/pkg/render
// [render/graphviz]: github.com/matzehuels/dotfilter/pkg/render/graphviz
// [render/d2]: github.com/matzehuels/dotfilter/pkg/render/d2
// [embed]: github.com/matzehuels/dotfilter/pkg/embed
// [artifact]: github.com/matzehuels/dotfilter/pkg/artifact
// [raster]: github.com/matzehuels/dotfilter/pkg/raster
// [runctx]: github.com/matzehuels/dotfilter/pkg/runctx
// [pipeline]: github.com/matzehuels/dotfilter/pkg/pipeline
package pkg
