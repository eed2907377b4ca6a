package pandoc

import "strings"

// Node tags the filter reads or produces.
const (
	TagCodeBlock = "CodeBlock"
	TagRawBlock  = "RawBlock"
	TagPara      = "Para"
	TagImage     = "Image"
	TagDiv       = "Div"
	TagStrong    = "Strong"
	TagStr       = "Str"
	TagSpace     = "Space"
)

// KeyValue is one attribute pair from a fence declaration such as
// ```{.dot layout=neato}.
type KeyValue struct {
	Key   string
	Value string
}

// Attr is a pandoc element attribute: identifier, classes and ordered
// key-value pairs.
type Attr struct {
	ID        string
	Classes   []string
	KeyValues []KeyValue
}

// Get returns the value of the first pair with the given key.
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KeyValues {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func (a Attr) value() []any {
	classes := make([]any, len(a.Classes))
	for i, c := range a.Classes {
		classes[i] = c
	}
	kvs := make([]any, len(a.KeyValues))
	for i, kv := range a.KeyValues {
		kvs[i] = []any{kv.Key, kv.Value}
	}
	return []any{a.ID, classes, kvs}
}

func parseAttr(v any) (Attr, bool) {
	parts, ok := v.([]any)
	if !ok || len(parts) != 3 {
		return Attr{}, false
	}
	id, ok := parts[0].(string)
	if !ok {
		return Attr{}, false
	}
	rawClasses, ok := parts[1].([]any)
	if !ok {
		return Attr{}, false
	}
	rawKVs, ok := parts[2].([]any)
	if !ok {
		return Attr{}, false
	}

	attr := Attr{ID: id}
	for _, c := range rawClasses {
		s, ok := c.(string)
		if !ok {
			return Attr{}, false
		}
		attr.Classes = append(attr.Classes, s)
	}
	for _, raw := range rawKVs {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return Attr{}, false
		}
		k, ok1 := pair[0].(string)
		val, ok2 := pair[1].(string)
		if !ok1 || !ok2 {
			return Attr{}, false
		}
		attr.KeyValues = append(attr.KeyValues, KeyValue{Key: k, Value: val})
	}
	return attr, true
}

// CodeBlock is a decoded CodeBlock node.
type CodeBlock struct {
	Attr Attr
	Text string

	// Path is the JSON pointer of the node within the document,
	// e.g. "/blocks/3/c/1/0". Set by [Transform].
	Path string
}

// Lang returns the block's language tag: its first class, as written after
// the opening fence.
func (b *CodeBlock) Lang() string {
	if len(b.Attr.Classes) == 0 {
		return ""
	}
	return b.Attr.Classes[0]
}

// AsCodeBlock decodes n if it is a well-formed CodeBlock node.
func AsCodeBlock(n Node) (*CodeBlock, bool) {
	if t, _ := n["t"].(string); t != TagCodeBlock {
		return nil, false
	}
	c, ok := n["c"].([]any)
	if !ok || len(c) != 2 {
		return nil, false
	}
	attr, ok := parseAttr(c[0])
	if !ok {
		return nil, false
	}
	text, ok := c[1].(string)
	if !ok {
		return nil, false
	}
	return &CodeBlock{Attr: attr, Text: text}, true
}

// NewCodeBlock builds a CodeBlock node.
func NewCodeBlock(attr Attr, text string) Node {
	return Node{"t": TagCodeBlock, "c": []any{attr.value(), text}}
}

// RawBlock builds a RawBlock node passed verbatim to writers of format.
func RawBlock(format, text string) Node {
	return Node{"t": TagRawBlock, "c": []any{format, text}}
}

// Para builds a paragraph from inlines.
func Para(inlines ...Node) Node {
	return Node{"t": TagPara, "c": nodeList(inlines)}
}

// Image builds an inline image pointing at url.
func Image(attr Attr, alt []Node, url, title string) Node {
	return Node{"t": TagImage, "c": []any{attr.value(), nodeList(alt), []any{url, title}}}
}

// Div builds a generic block container.
func Div(attr Attr, blocks ...Node) Node {
	return Node{"t": TagDiv, "c": []any{attr.value(), nodeList(blocks)}}
}

// Strong builds strongly emphasized inlines.
func Strong(inlines ...Node) Node {
	return Node{"t": TagStrong, "c": nodeList(inlines)}
}

// Str builds a single text run. It should not contain spaces; see [Text].
func Str(s string) Node {
	return Node{"t": TagStr, "c": s}
}

// Space builds an inter-word space.
func Space() Node {
	return Node{"t": TagSpace}
}

// Text splits s on whitespace into Str and Space inlines.
func Text(s string) []Node {
	var out []Node
	for i, w := range strings.Fields(s) {
		if i > 0 {
			out = append(out, Space())
		}
		out = append(out, Str(w))
	}
	return out
}

func nodeList(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
