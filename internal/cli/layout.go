package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/model"
)

// layoutCommand creates the layout command for recomputing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		direction string
		force     bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Recompute node positions for a diagram",
		Long: `Recompute node positions for a diagram.

By default the hierarchical algorithm is used: nodes are assigned to ranks
along the flow direction, ordered within each rank to reduce edge crossings,
and spread evenly. With --force-directed, a physics simulation is run instead,
which suits undirected or cyclic graphs.

The file is rewritten in place unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], direction, force, output)
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "", "flow direction: LR, TB, RL, BT (default: diagram's own)")
	cmd.Flags().BoolVar(&force, "force-directed", false, "use the force-directed algorithm")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input)")

	return cmd
}

// runLayout loads the diagram, applies the layout, and writes it back.
func (c *CLI) runLayout(input, direction string, force bool, output string) error {
	sess, err := c.loadSessionFile(input)
	if err != nil {
		return exitErr(err)
	}

	if len(sess.Nodes()) == 0 {
		printWarning("%s has no nodes, leaving it unchanged", input)
		printDetail("Add nodes to the file and run the command again")
		return nil
	}

	if force {
		sess.ApplyForceLayout()
	} else {
		dir := sess.Direction()
		if direction != "" {
			dir = model.Direction(strings.ToUpper(direction))
		}
		if err := sess.ApplyLayout(dir); err != nil {
			return exitErr(err)
		}
	}

	out := outputPath(input, output)
	if err := writeSessionFile(sess, out); err != nil {
		return exitErr(err)
	}

	algo := "hierarchical"
	if force {
		algo = "force-directed"
	}
	printSuccess("Applied %s layout", algo)
	printStats(len(sess.Nodes()), len(sess.Edges()), false)
	printFile(out)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, out))
	return nil
}
