package render

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// FixtureTag marks code blocks that look like diagrams but are never
// rendered. Registering an engine for it has no effect on documents.
const FixtureTag = "dotfilter-fixture"

// Renderer is a diagram engine.
type Renderer interface {
	// Name identifies the engine in logs and error messages.
	Name() string

	// Render converts diagram source to SVG. attrs are the block's fence
	// attributes, unmodified. A rejected diagram must be reported as a
	// *SyntaxError; any other error is treated as an engine failure.
	Render(ctx context.Context, source string, attrs Attributes) (*Image, error)
}

// Image is a rendered vector image.
type Image struct {
	Engine string
	SVG    []byte
}

// Attribute is one key-value pair from a fence declaration.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute list.
type Attributes []Attribute

// Get returns the value of the first attribute with the given key.
func (a Attributes) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Span locates a diagram block and, when the engine reports it, the
// position of the error inside the block's source.
type Span struct {
	Path   string // JSON pointer of the block in the document
	Line   int    // 1-based line within the diagram source, 0 if unknown
	Column int    // 1-based column, 0 if unknown
}

// String formats the span for error messages, e.g. "/blocks/3 line 2:7".
func (s Span) String() string {
	out := s.Path
	if s.Line > 0 {
		if out != "" {
			out += " "
		}
		out += "line " + strconv.Itoa(s.Line)
		if s.Column > 0 {
			out += ":" + strconv.Itoa(s.Column)
		}
	}
	return out
}

// SyntaxError reports diagram source rejected by an engine.
type SyntaxError struct {
	Engine     string
	Diagnostic string // engine message, verbatim
	Span       Span
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if loc := e.Span.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", e.Engine, loc, e.Diagnostic)
	}
	return fmt.Sprintf("%s: %s", e.Engine, e.Diagnostic)
}

// NewSyntaxError builds a SyntaxError, extracting the line and column from
// the diagnostic when it contains one.
func NewSyntaxError(engine, diagnostic string) *SyntaxError {
	line, col := parsePosition(diagnostic)
	return &SyntaxError{
		Engine:     engine,
		Diagnostic: diagnostic,
		Span:       Span{Line: line, Column: col},
	}
}

var (
	lineColRe = regexp.MustCompile(`(?:^|[\s:])(\d+):(\d+):`)
	lineRe    = regexp.MustCompile(`\bline (\d+)\b`)
)

// parsePosition recognizes "12:5:" (d2) and "in line 12" (Graphviz) styles.
func parsePosition(msg string) (line, col int) {
	if m := lineColRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
		col, _ = strconv.Atoi(m[2])
		return line, col
	}
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	return line, 0
}
