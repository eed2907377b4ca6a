package pandoc

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// MatchFunc reports whether a code block should be replaced.
type MatchFunc func(b *CodeBlock) bool

// ReplaceFunc produces the node that takes the place of a matched block.
// A non-nil error stops the walk.
type ReplaceFunc func(b *CodeBlock) (Node, error)

// Transform walks tree depth-first in document order and replaces every code
// block accepted by match with the node returned by replace.
//
// Arrays are rewritten element by element, so sibling order never changes.
// Object members are visited in sorted key order, which puts a document's
// "blocks" before its "meta". Replacement nodes are not visited again, so
// generated output is never re-scanned for candidates.
//
// The walk mutates tree in place and returns it (or the replacement, if tree
// itself is a matching block). With no matching blocks the tree is returned
// unchanged.
func Transform(tree any, match MatchFunc, replace ReplaceFunc) (any, error) {
	w := walker{match: match, replace: replace}
	return w.visit(tree, "")
}

type walker struct {
	match   MatchFunc
	replace ReplaceFunc
}

func (w *walker) visit(v any, path string) (any, error) {
	switch v := v.(type) {
	case []any:
		for i, item := range v {
			out, err := w.visit(item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			v[i] = out
		}
		return v, nil

	case map[string]any:
		if cb, ok := AsCodeBlock(v); ok {
			// Code blocks are leaves: text plus attributes, nothing to descend into.
			cb.Path = path
			if !w.match(cb) {
				return v, nil
			}
			return w.replace(cb)
		}
		for _, k := range slices.Sorted(maps.Keys(v)) {
			out, err := w.visit(v[k], path+"/"+escapePointer(k))
			if err != nil {
				return nil, err
			}
			v[k] = out
		}
		return v, nil

	default:
		return v, nil
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// escapePointer escapes an object key for use in a JSON pointer (RFC 6901).
func escapePointer(k string) string {
	return pointerEscaper.Replace(k)
}
