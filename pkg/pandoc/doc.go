// Package pandoc reads, walks and writes the pandoc JSON interchange tree.
//
// # Overview
//
// A pandoc filter receives the document as JSON on stdin and must return the
// same schema on stdout. This package decodes the tree generically
// (objects, arrays and [encoding/json.Number] values) instead of binding every
// node type to a Go struct, so node shapes this filter does not know about
// survive untouched and any pandoc API version is accepted.
//
// Only the handful of nodes the filter reads or produces have typed helpers:
//
//   - [CodeBlock]: the candidate node, with its [Attr] and source text
//   - [RawBlock], [Para], [Image], [Div], [Strong], [Str], [Space]:
//     constructors for replacement nodes
//
// # Walking
//
// [Transform] visits every object and array in the tree. Code blocks
// accepted by a [MatchFunc] are replaced by the node a [ReplaceFunc] returns;
// the replacement is never re-visited. Sibling order and all other nodes are
// preserved.
//
//	doc, err := pandoc.Decode(os.Stdin)
//	err = doc.Transform(match, replace)
//	err = pandoc.Encode(os.Stdout, doc)
package pandoc
