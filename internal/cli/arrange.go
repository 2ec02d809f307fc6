package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/geometry"
)

// arrangeCommand groups the geometry subcommands: align, distribute, snap,
// and center.
func (c *CLI) arrangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrange",
		Short: "Align, distribute, snap, or center nodes",
		Long: `Align, distribute, snap, or center nodes in a diagram.

These commands adjust stored positions without running a full layout. Align
and distribute operate on an explicit node selection; snap and center act on
the whole diagram.`,
	}

	cmd.AddCommand(c.alignCommand())
	cmd.AddCommand(c.distributeCommand())
	cmd.AddCommand(c.snapCommand())
	cmd.AddCommand(c.centerCommand())

	return cmd
}

func (c *CLI) alignCommand() *cobra.Command {
	var (
		nodes  []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "align [diagram.json] [left|center|right|top|middle|bottom]",
		Short: "Align selected nodes along an edge or axis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSessionFile(args[0])
			if err != nil {
				return exitErr(err)
			}
			if err := sess.Align(nodes, geometry.Alignment(args[1])); err != nil {
				return exitErr(err)
			}
			out := outputPath(args[0], output)
			if err := writeSessionFile(sess, out); err != nil {
				return exitErr(err)
			}
			printSuccess("Aligned %d nodes %s", len(nodes), args[1])
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&nodes, "nodes", "n", nil, "node IDs to align (at least two)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input)")
	_ = cmd.MarkFlagRequired("nodes")

	return cmd
}

func (c *CLI) distributeCommand() *cobra.Command {
	var (
		nodes  []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "distribute [diagram.json] [horizontal|vertical]",
		Short: "Space selected nodes evenly along an axis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSessionFile(args[0])
			if err != nil {
				return exitErr(err)
			}
			if err := sess.Distribute(nodes, geometry.Axis(args[1])); err != nil {
				return exitErr(err)
			}
			out := outputPath(args[0], output)
			if err := writeSessionFile(sess, out); err != nil {
				return exitErr(err)
			}
			printSuccess("Distributed %d nodes %sly", len(nodes), args[1])
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&nodes, "nodes", "n", nil, "node IDs to distribute (at least three)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input)")
	_ = cmd.MarkFlagRequired("nodes")

	return cmd
}

func (c *CLI) snapCommand() *cobra.Command {
	var (
		grid   float64
		output string
	)

	cmd := &cobra.Command{
		Use:   "snap [diagram.json]",
		Short: "Snap all node positions to a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSessionFile(args[0])
			if err != nil {
				return exitErr(err)
			}
			sess.SnapToGrid(grid)
			out := outputPath(args[0], output)
			if err := writeSessionFile(sess, out); err != nil {
				return exitErr(err)
			}
			printSuccess("Snapped %d nodes to a %g px grid", len(sess.Nodes()), grid)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&grid, "grid", "g", 20, "grid spacing in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input)")

	return cmd
}

func (c *CLI) centerCommand() *cobra.Command {
	var (
		width, height float64
		output        string
	)

	cmd := &cobra.Command{
		Use:   "center [diagram.json]",
		Short: "Center the diagram within a viewport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.loadSessionFile(args[0])
			if err != nil {
				return exitErr(err)
			}
			sess.Center(width, height)
			out := outputPath(args[0], output)
			if err := writeSessionFile(sess, out); err != nil {
				return exitErr(err)
			}
			printSuccess("Centered diagram in %gx%g viewport", width, height)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "W", 1920, "viewport width")
	cmd.Flags().Float64VarP(&height, "height", "H", 1080, "viewport height")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input)")

	return cmd
}
