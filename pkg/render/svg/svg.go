// Package svg holds small byte-level fixups for engine SVG output.
//
// Engines emit complete standalone SVG files. Embedding them in an HTML body
// needs a few adjustments that do not warrant an XML parser: dropping the XML
// prolog, removing blank lines and normalizing the root viewBox.
package svg

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)[\s,]+(-?[0-9.]+)[\s,]+([0-9.]+)[\s,]+([0-9.]+)"`)
)

// NormalizeViewBox rewrites the root element so the viewBox starts at the
// origin and width/height are unitless pixels matching it. Graphviz emits
// point-based sizes and an offset viewBox that scale poorly once embedded.
// Input without a usable viewBox is returned unchanged.
func NormalizeViewBox(svg []byte) []byte {
	root := svgTagRe.Find(svg)
	if root == nil {
		return svg
	}
	match := viewBoxRe.FindSubmatch(root)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newRoot := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	// Only the root: engines may nest <svg> elements.
	loc := svgTagRe.FindIndex(svg)
	out := make([]byte, 0, len(svg)+len(newRoot))
	out = append(out, svg[:loc[0]]...)
	out = append(out, newRoot...)
	out = append(out, svg[loc[1]:]...)
	return out
}

// StripProlog drops everything before the root <svg> element: XML
// declaration, doctype and leading comments. These are invalid inside an
// HTML body.
func StripProlog(svg []byte) []byte {
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	return svg[loc[0]:]
}

// RemoveBlankLines drops whitespace-only lines. A blank line inside raw HTML
// ends the HTML block for markdown-based writers, after which indented SVG
// would be read as a code block.
func RemoveBlankLines(svg []byte) []byte {
	lines := bytes.Split(svg, []byte("\n"))
	kept := lines[:0]
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) > 0 {
			kept = append(kept, line)
		}
	}
	return bytes.Join(kept, []byte("\n"))
}

// Inline prepares svg for embedding directly in an HTML document body.
func Inline(svg []byte) string {
	return string(RemoveBlankLines(StripProlog(svg)))
}
