package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotfilter/pkg/raster"
	"github.com/matzehuels/dotfilter/pkg/runctx"
)

// convertersCommand lists the raster converters used for docx and pptx.
func (c *CLI) convertersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "converters",
		Short: "Show which SVG to PNG converters are installed",
		Long: `List the SVG to PNG converters in preference order and whether each one is
on PATH. The first installed converter is used for docx and pptx output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := runctx.LoadConfig(c.Getenv)
			if err != nil {
				return err
			}
			tools, err := raster.ToolsByName(cfg.Converters)
			if err != nil {
				return err
			}
			chain := raster.NewChain(tools, cfg.DPI)
			printConverters(cmd.OutOrStdout(), chain, path)
			return nil
		},
	}
}

func printConverters(w io.Writer, chain *raster.Chain, configPath string) {
	printTitle(w, "Raster converters")
	if configPath != "" {
		printKeyValue(w, "config", configPath)
	}
	printKeyValue(w, "dpi", fmt.Sprint(chain.DPI))
	fmt.Fprintln(w)

	selected := ""
	for _, st := range chain.Available() {
		if !st.Available {
			printError(w, "%s", st.Tool.Name)
			printDetail(w, "install: %s", st.Tool.Hint)
			continue
		}
		printSuccess(w, "%s", st.Tool.Name)
		printFile(w, st.Path)
		if selected == "" {
			selected = st.Tool.Name
		}
	}

	fmt.Fprintln(w)
	if selected == "" {
		printWarning(w, "no converter installed: docx and pptx output will fail")
		return
	}
	printKeyValue(w, "selected", selected)
}
