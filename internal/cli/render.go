package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotfilter/pkg/artifact"
	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
	"github.com/matzehuels/dotfilter/pkg/runctx"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	tag    string // diagram tag: dot, graphviz or d2; empty infers from the file extension
	format string // svg or png
	output string // output file; empty writes SVG to stdout or prints the PNG path
}

// renderCommand renders a single diagram file, outside of pandoc.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render one diagram file to SVG or PNG",
		Long: `Render a Graphviz or D2 source file with the same engines and settings the
filter uses. Reads stdin when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "diagram language: dot, graphviz, d2 (default: from file extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for svg; for png, print the path of the converted file in the temp dir)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts, stdin io.Reader, stdout io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if opts.format != formatSVG && opts.format != formatPNG {
		return dferrors.New(dferrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png)", opts.format)
	}
	tag := opts.tag
	if tag == "" {
		tag = tagForFile(input)
		if tag == "" {
			return dferrors.New(dferrors.ErrCodeInvalidInput, "cannot infer diagram language of %q; use --tag", input)
		}
	}

	source, err := readInput(input, stdin)
	if err != nil {
		return err
	}

	rc, err := runctx.New(formatForRender(opts.format), c.Getenv)
	if err != nil {
		return err
	}
	reg := rc.Registry()
	defer reg.Close()

	img, err := reg.Render(ctx, tag, string(source), nil, input)
	if err != nil {
		return err
	}

	if opts.format == formatSVG {
		if err := writeOutput(opts.output, img.SVG, stdout); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %s with %s", input, img.Engine))
		return nil
	}

	m, err := artifact.New(rc.TempDir, rc.RunID)
	if err != nil {
		return err
	}
	src, err := m.WriteVector(img.SVG)
	if err != nil {
		return err
	}
	png, tool, err := rc.Chain().Convert(ctx, src)
	removeTemp(logger, src.Path)
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Fprintln(stdout, png.Path)
	} else {
		data, err := os.ReadFile(png.Path)
		if err != nil {
			return dferrors.Wrap(dferrors.ErrCodeArtifactWrite, err, "read %s", png.Path)
		}
		if err := writeOutput(opts.output, data, stdout); err != nil {
			return err
		}
		removeTemp(logger, png.Path)
	}
	prog.done(fmt.Sprintf("Rendered %s with %s, converted with %s", input, img.Engine, tool))
	return nil
}

// removeTemp deletes an intermediate file of the render command. Unlike the
// filter, nothing reads it afterwards.
func removeTemp(logger *log.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Debug("remove temp file", "path", path, "err", err)
	}
}

// tagForFile infers the diagram tag from a file extension.
func tagForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return "dot"
	case ".d2":
		return "d2"
	default:
		return ""
	}
}

// formatForRender maps an image format to a pandoc format with the same
// embedding mode, so the run context resolves the matching settings.
func formatForRender(format string) string {
	if format == formatPNG {
		return "docx"
	}
	return "latex"
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, dferrors.Wrap(dferrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return dferrors.Wrap(dferrors.ErrCodeArtifactWrite, err, "write %s", path)
	}
	return nil
}
