// Package render turns diagram source text into SVG.
//
// # Overview
//
// Each diagram language is handled by an engine implementing [Renderer]:
//
//   - [graphviz]: Graphviz DOT, rendered in-process
//   - [d2]: D2, rendered in-process
//
// Engines are registered in a [Registry] under one or more fence tags. The
// registry is the adapter the pipeline talks to: it looks up the engine for a
// block's tag, recovers engine panics, and classifies every failure.
//
// # Errors
//
// Failures fall into two classes:
//
//   - [*SyntaxError]: the diagram source was rejected. It carries the
//     engine's diagnostic verbatim and the [Span] of the offending block. The
//     registry returns it wrapped with code DIAGRAM_SYNTAX; the pipeline
//     replaces the block with a visible error node and carries on.
//   - Anything else is an engine-internal failure (code RENDER_INTERNAL) and
//     aborts the run.
//
// # Usage
//
//	reg := render.NewRegistry()
//	reg.Register(graphviz.New(graphviz.Options{}), "dot", "graphviz")
//	defer reg.Close()
//
//	img, err := reg.Render(ctx, "dot", src, attrs, "/blocks/3")
//
// Post-processing helpers shared by engines and embedding live in [svg].
//
// [graphviz]: github.com/matzehuels/dotfilter/pkg/render/graphviz
// [d2]: github.com/matzehuels/dotfilter/pkg/render/d2
// [svg]: github.com/matzehuels/dotfilter/pkg/render/svg
package render
