package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// Top-level keys of a pandoc JSON document.
const (
	keyAPIVersion = "pandoc-api-version"
	keyBlocks     = "blocks"
)

// Node is a single pandoc AST object, e.g. {"t": "Para", "c": [...]}.
type Node = map[string]any

// Document is a decoded pandoc JSON document.
type Document struct {
	root map[string]any
}

// Decode reads one pandoc JSON document from r.
//
// Numbers are kept as [json.Number] so integer fields (API version, table
// spans, list start numbers) are written back exactly. Decode fails with
// ErrCodeInvalidInput if the input is not JSON, carries trailing data, or
// lacks the pandoc-api-version and blocks members.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, dferrors.Wrap(dferrors.ErrCodeInvalidInput, err, "decode pandoc JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, dferrors.New(dferrors.ErrCodeInvalidInput, "unexpected data after pandoc JSON document")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, dferrors.New(dferrors.ErrCodeInvalidInput, "pandoc JSON must be an object, got %s", typeName(root))
	}
	if v, ok := obj[keyAPIVersion].([]any); !ok || len(v) == 0 {
		return nil, dferrors.New(dferrors.ErrCodeInvalidInput, "missing or empty %q", keyAPIVersion)
	}
	if _, ok := obj[keyBlocks].([]any); !ok {
		return nil, dferrors.New(dferrors.ErrCodeInvalidInput, "missing %q array", keyBlocks)
	}
	return &Document{root: obj}, nil
}

// Encode writes doc to w as a single JSON value.
// HTML characters are not escaped so inline SVG stays readable.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc.root); err != nil {
		return fmt.Errorf("encode pandoc JSON: %w", err)
	}
	return nil
}

// APIVersion returns the document's pandoc-api-version as a dotted string.
func (d *Document) APIVersion() string {
	parts, _ := d.root[keyAPIVersion].([]any)
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ".")
}

// Blocks returns the top-level block list.
func (d *Document) Blocks() []any {
	blocks, _ := d.root[keyBlocks].([]any)
	return blocks
}

// Transform rewrites the document in place; see [Transform].
func (d *Document) Transform(match MatchFunc, replace ReplaceFunc) error {
	_, err := Transform(d.root, match, replace)
	return err
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
