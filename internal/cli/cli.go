// Package cli implements the dotfilter command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotfilter/pkg/buildinfo"
	"github.com/matzehuels/dotfilter/pkg/runctx"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "dotfilter"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Getenv reads the environment. Tests replace it.
	Getenv func(string) string
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnvLogLevel returns the level named by DOTFILTER_LOG_LEVEL, or fallback
// when it is unset. An unknown name is an error.
func (c *CLI) EnvLogLevel(fallback log.Level) (log.Level, error) {
	v := c.Getenv(runctx.EnvLogLevel)
	if v == "" {
		return fallback, nil
	}
	return log.ParseLevel(v)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Run without a subcommand, the root command is the pandoc filter: pandoc
// passes the output format as the only argument and the document on stdin.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName + " [format]",
		Short: "Render diagram code blocks in pandoc documents",
		Long: `dotfilter is a pandoc JSON filter that renders Graphviz (dot) and D2 code
blocks to SVG and embeds them according to the output format:

  html, epub    inline SVG
  docx, pptx    linked PNG (needs magick, inkscape or rsvg-convert)
  others        linked SVG

Use it with: pandoc --filter dotfilter input.md -o output.html`,
		Version:       buildinfo.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := ""
			if len(args) == 1 {
				format = args[0]
			}
			return c.runFilter(cmd.Context(), format, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertersCommand())
	root.AddCommand(c.completionCommand())

	return root
}
