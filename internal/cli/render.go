package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/render/dot"
)

// renderCommand creates the render command for DOT/SVG/PNG export.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Render a diagram to DOT, SVG, or PNG",
		Long: `Render a diagram to DOT, SVG, or PNG.

The diagram is exported as Graphviz DOT, honoring its flow direction and
connector style. For svg and png, Graphviz performs the actual layout and
rasterization. With --detailed, node labels include the type and tech tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with new extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node type and tech tags in labels")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, format, output string, detailed bool) error {
	sess, err := c.loadSessionFile(input)
	if err != nil {
		return exitErr(err)
	}

	src := dot.ToDOT(sess.Diagram(), dot.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(src)
	case "svg", "png":
		spinner := newSpinner(cmd.Context(), fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		if format == "svg" {
			data, err = dot.RenderSVG(src)
		} else {
			data, err = dot.RenderPNG(src)
		}
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		spinner.Stop()
	default:
		return exitErr(fmt.Errorf("unknown format %q (want dot, svg, or png)", format))
	}

	if output == "" {
		output = replaceExt(input, "."+format)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return exitErr(fmt.Errorf("write %s: %w", output, err))
	}

	printSuccess("Rendered %s", format)
	printStats(len(sess.Nodes()), len(sess.Edges()), false)
	printFile(output)
	return nil
}
