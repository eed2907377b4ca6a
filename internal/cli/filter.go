package cli

import (
	"context"
	"io"

	"github.com/matzehuels/dotfilter/pkg/observability"
	"github.com/matzehuels/dotfilter/pkg/pipeline"
	"github.com/matzehuels/dotfilter/pkg/runctx"
)

// runFilter reads a pandoc JSON document from in, renders its diagrams for
// format, and writes the result to out. On error nothing reaches out.
func (c *CLI) runFilter(ctx context.Context, format string, in io.Reader, out io.Writer) error {
	logger := loggerFromContext(ctx)
	if format == "" {
		logger.Warn("no output format given; linking SVG files", "hint", "run as: pandoc --filter "+appName)
	}

	rc, err := runctx.New(format, c.Getenv)
	if err != nil {
		return err
	}
	logger.Debug("run context",
		"format", rc.Format,
		"mode", rc.Mode,
		"tmpdir", rc.TempDir,
		"run", rc.RunID,
		"config", rc.ConfigPath)

	strategy, err := rc.Strategy()
	if err != nil {
		return err
	}
	reg := rc.Registry()
	logger.Debug("diagram engines", "tags", reg.Tags())
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Debug("closing diagram engines", "err", err)
		}
	}()

	counter := &observability.Counter{}
	observability.SetFilterHooks(counter)
	defer observability.Reset()

	runner := pipeline.NewRunner(reg, strategy, logger)
	if _, err := runner.Run(ctx, in, out); err != nil {
		return err
	}

	logger.Info("run summary",
		"blocks", counter.Blocks(),
		"errors", counter.SyntaxErrors(),
		"artifacts", counter.Artifacts(),
		"bytes", counter.ArtifactBytes(),
		"conversions", counter.Conversions())
	return nil
}
