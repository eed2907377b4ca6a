package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

const filterInput = `{"pandoc-api-version":[1,23,1],"meta":{},"blocks":[
{"t":"CodeBlock","c":[["good",["dot"],[["caption","Two nodes"]]],"digraph { a -> b }"]},
{"t":"Para","c":[{"t":"Str","c":"text"}]},
{"t":"CodeBlock","c":[["",["dot"],[]],"digraph { a -> "]},
{"t":"CodeBlock","c":[["",["dotfilter-fixture"],[]],"digraph { untouched }"]}
]}`

// testCLI returns a CLI with a quiet logger and an environment holding only
// vars. It runs in a fresh working directory so no config file is found.
func testCLI(t *testing.T, vars map[string]string) *CLI {
	t.Helper()
	t.Chdir(t.TempDir())
	return &CLI{
		Logger: newLogger(io.Discard, log.WarnLevel),
		Getenv: func(k string) string { return vars[k] },
	}
}

func execute(t *testing.T, c *CLI, stdin string, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	root := testCLI(t, nil).RootCommand()
	for _, name := range []string{"render", "converters", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if err := root.Args(root, []string{"html", "extra"}); err == nil {
		t.Error("root should reject more than one argument")
	}
}

func TestFilterLinkedVector(t *testing.T) {
	tmp := t.TempDir()
	c := testCLI(t, map[string]string{"DOTFILTER_TMPDIR": tmp})

	out, err := execute(t, c, filterInput, "latex")
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}

	for _, want := range []string{`"Image"`, `"dotfilter-error"`, `"Two"`, `"digraph { untouched }"`, `"text"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	entries, _ := os.ReadDir(tmp)
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".svg" {
		t.Errorf("artifacts = %v, want one svg", entries)
	}
	if !strings.Contains(out, tmp) {
		t.Error("image should link into the temp dir")
	}
}

func TestFilterInlineHTML(t *testing.T) {
	tmp := t.TempDir()
	c := testCLI(t, map[string]string{"DOTFILTER_TMPDIR": tmp})

	out, err := execute(t, c, filterInput, "html")
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if !strings.Contains(out, `"RawBlock"`) || !strings.Contains(out, "<svg") {
		t.Errorf("inline svg missing:\n%s", out)
	}
	if entries, _ := os.ReadDir(tmp); len(entries) != 0 {
		t.Errorf("inline mode wrote artifacts: %v", entries)
	}
}

func TestFilterWithoutFormat(t *testing.T) {
	c := testCLI(t, map[string]string{"DOTFILTER_TMPDIR": t.TempDir()})
	out, err := execute(t, c, filterInput)
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if !strings.Contains(out, `"Image"`) {
		t.Error("missing format should link vector files")
	}
}

func TestFilterFatalErrors(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		emptyPath bool
		input     string
		args      []string
		code      dferrors.Code
	}{
		{
			name:  "temp dir missing",
			vars:  map[string]string{"DOTFILTER_TMPDIR": "/no/such/dir"},
			input: filterInput,
			args:  []string{"latex"},
			code:  dferrors.ErrCodeTempDir,
		},
		{
			name:  "malformed input",
			input: `[1,2,3]`,
			args:  []string{"html"},
			code:  dferrors.ErrCodeInvalidInput,
		},
		{
			name:      "no converter",
			vars:      map[string]string{"DOTFILTER_TMPDIR": os.TempDir()},
			emptyPath: true,
			input:     filterInput,
			args:      []string{"docx"},
			code:      dferrors.ErrCodeNoConverter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.emptyPath {
				t.Setenv("PATH", t.TempDir())
			}
			c := testCLI(t, tt.vars)
			out, err := execute(t, c, tt.input, tt.args...)
			if !dferrors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if out != "" {
				t.Errorf("stdout written on fatal error: %q", out)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	c := testCLI(t, nil)
	if err := os.WriteFile("graph.dot", []byte("digraph { x -> y }"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, c, "", "render", "graph.dot", "-o", "graph.svg"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile("graph.svg")
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Errorf("graph.svg = %q, %v", data, err)
	}

	out, err := execute(t, c, "digraph { p -> q }", "render", "--tag", "dot")
	if err != nil {
		t.Fatalf("render from stdin error: %v", err)
	}
	if !strings.Contains(out, "<svg") {
		t.Error("render to stdout missing svg")
	}
}

func TestRenderCommandPNGRemovesTempFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script converters need a POSIX shell")
	}
	bin := t.TempDir()
	t.Setenv("PATH", bin)
	script := "#!/bin/sh\nprintf 'PNG' > \"$8\"\n"
	if err := os.WriteFile(filepath.Join(bin, "rsvg-convert"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	tmp := t.TempDir()
	c := testCLI(t, map[string]string{"DOTFILTER_TMPDIR": tmp})
	if _, err := execute(t, c, "digraph { x -> y }", "render", "--tag", "dot", "-f", "png", "-o", "graph.png"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	data, err := os.ReadFile("graph.png")
	if err != nil || string(data) != "PNG" {
		t.Errorf("graph.png = %q, %v", data, err)
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("temp file left behind: %s", e.Name())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	c := testCLI(t, nil)

	if _, err := execute(t, c, "x", "render"); err == nil {
		t.Error("render from stdin without --tag should fail")
	}
	if _, err := execute(t, c, "digraph {", "render", "--tag", "dot"); !dferrors.Is(err, dferrors.ErrCodeDiagramSyntax) {
		t.Errorf("invalid source error = %v, want DIAGRAM_SYNTAX", err)
	}
	if _, err := execute(t, c, "digraph {}", "render", "--tag", "dot", "--format", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestTagForFile(t *testing.T) {
	tests := map[string]string{
		"a.dot":   "dot",
		"a.GV":    "dot",
		"x/y.d2":  "d2",
		"a.txt":   "",
		"-":       "",
		"diagram": "",
	}
	for in, want := range tests {
		if got := tagForFile(in); got != want {
			t.Errorf("tagForFile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvertersCommand(t *testing.T) {
	bin := t.TempDir()
	t.Setenv("PATH", bin)
	if err := os.WriteFile(filepath.Join(bin, "rsvg-convert"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := testCLI(t, nil)
	out, err := execute(t, c, "", "converters")
	if err != nil {
		t.Fatalf("converters error: %v", err)
	}
	for _, want := range []string{"magick", "inkscape", "rsvg-convert", "selected"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertersCommandNoneInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	c := testCLI(t, nil)
	out, err := execute(t, c, "", "converters")
	if err != nil {
		t.Fatalf("converters error: %v", err)
	}
	if !strings.Contains(out, "no converter installed") {
		t.Errorf("output missing warning:\n%s", out)
	}
}
