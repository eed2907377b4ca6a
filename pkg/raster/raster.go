// Package raster converts SVG artifacts to PNG with external tools.
//
// Tools are tried in preference order. The first one found on PATH that
// produces a non-empty output file wins; a tool that fails hands over to the
// next available one. There is no fallback to vector output.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/dotfilter/pkg/artifact"
	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// DefaultDPI is the raster density used when none is configured.
const DefaultDPI = 300

// Tool describes one converter executable.
type Tool struct {
	Name string
	// Args returns the command line (without the executable) that converts
	// in to out at dpi.
	Args func(in, out string, dpi int) []string
	// Hint tells the user how to install the tool.
	Hint string
}

var (
	Magick = Tool{
		Name: "magick",
		Args: func(in, out string, dpi int) []string {
			return []string{"-density", strconv.Itoa(dpi), in, out}
		},
		Hint: "brew install imagemagick (macOS), apt install imagemagick (Linux)",
	}
	Inkscape = Tool{
		Name: "inkscape",
		Args: func(in, out string, dpi int) []string {
			return []string{"--export-type=png", "--export-dpi=" + strconv.Itoa(dpi), "--export-filename=" + out, in}
		},
		Hint: "brew install --cask inkscape (macOS), apt install inkscape (Linux)",
	}
	RsvgConvert = Tool{
		Name: "rsvg-convert",
		Args: func(in, out string, dpi int) []string {
			d := strconv.Itoa(dpi)
			return []string{"-f", "png", "--dpi-x", d, "--dpi-y", d, "-o", out, in}
		},
		Hint: "brew install librsvg (macOS), apt install librsvg2-bin (Linux)",
	}
)

// Builtin lists the known tools in default preference order.
var Builtin = []Tool{Magick, Inkscape, RsvgConvert}

// DefaultPreference is the names of [Builtin] in order.
func DefaultPreference() []string {
	names := make([]string, len(Builtin))
	for i, t := range Builtin {
		names[i] = t.Name
	}
	return names
}

// ToolsByName resolves a preference list against [Builtin].
func ToolsByName(names []string) ([]Tool, error) {
	if len(names) == 0 {
		return nil, dferrors.New(dferrors.ErrCodeInvalidConfig, "converter list is empty")
	}
	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		t, ok := findTool(name)
		if !ok {
			return nil, dferrors.New(dferrors.ErrCodeInvalidConfig, "unknown converter %q (known: %s)", name, strings.Join(DefaultPreference(), ", "))
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func findTool(name string) (Tool, bool) {
	for _, t := range Builtin {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Chain is an ordered set of converters.
type Chain struct {
	Tools []Tool
	DPI   int

	// LookPath finds executables. Nil means [exec.LookPath].
	LookPath func(file string) (string, error)
}

// NewChain returns a chain over tools at dpi. A non-positive dpi means
// [DefaultDPI].
func NewChain(tools []Tool, dpi int) *Chain {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Chain{Tools: tools, DPI: dpi}
}

// Status reports whether a tool is installed.
type Status struct {
	Tool      Tool
	Path      string
	Available bool
}

// Available reports each tool of the chain in preference order.
func (c *Chain) Available() []Status {
	out := make([]Status, len(c.Tools))
	for i, t := range c.Tools {
		p, err := c.lookPath(t.Name)
		out[i] = Status{Tool: t, Path: p, Available: err == nil}
	}
	return out
}

func (c *Chain) lookPath(name string) (string, error) {
	if c.LookPath != nil {
		return c.LookPath(name)
	}
	return exec.LookPath(name)
}

// Convert writes a PNG next to src, with the same base name, and returns it
// together with the name of the tool that produced it.
//
// Errors carry NO_CONVERTER when no tool is installed and CONVERSION_FAILED
// when every installed tool failed.
func (c *Chain) Convert(ctx context.Context, src artifact.Artifact) (artifact.Artifact, string, error) {
	dst := src.WithFormat(artifact.FormatPNG)

	var failures []string
	tried := 0
	for _, st := range c.Available() {
		if !st.Available {
			continue
		}
		tried++
		if err := c.run(ctx, st, src.Path, dst.Path); err != nil {
			if ctx.Err() != nil {
				return artifact.Artifact{}, "", ctx.Err()
			}
			failures = append(failures, err.Error())
			continue
		}
		return dst, st.Tool.Name, nil
	}

	if tried == 0 {
		return artifact.Artifact{}, "", dferrors.New(dferrors.ErrCodeNoConverter,
			"PNG output requires one of: %s. Install with:\n%s", strings.Join(c.names(), ", "), c.hints())
	}
	return artifact.Artifact{}, "", dferrors.New(dferrors.ErrCodeConversionFailed,
		"converting %s failed:\n  %s", src.Path, strings.Join(failures, "\n  "))
}

func (c *Chain) run(ctx context.Context, st Status, in, out string) error {
	cmd := exec.CommandContext(ctx, st.Path, st.Tool.Args(in, out, c.DPI)...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", st.Tool.Name, err, strings.TrimSpace(errBuf.String()))
	}
	fi, err := os.Stat(out)
	if err != nil {
		return fmt.Errorf("%s: no output written: %v", st.Tool.Name, err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%s: empty output", st.Tool.Name)
	}
	return nil
}

func (c *Chain) names() []string {
	names := make([]string, len(c.Tools))
	for i, t := range c.Tools {
		names[i] = t.Name
	}
	return names
}

func (c *Chain) hints() string {
	var b strings.Builder
	for _, t := range c.Tools {
		if t.Hint != "" {
			fmt.Fprintf(&b, "  %s: %s\n", t.Name, t.Hint)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
