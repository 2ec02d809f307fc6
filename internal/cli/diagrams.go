package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/model"
	"github.com/matzehuels/flowboard/pkg/session"
)

// diagramsCommand groups the saved-diagram library subcommands.
func (c *CLI) diagramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagrams",
		Short: "Manage the saved-diagram library",
		Long: `Manage the saved-diagram library.

Diagrams live in the configured blob store (file, memory, redis, or mongo).
Export and import move individual diagrams between the library and JSON
files on disk.`,
	}

	cmd.AddCommand(c.listDiagramsCommand())
	cmd.AddCommand(c.exportDiagramCommand())
	cmd.AddCommand(c.importDiagramCommand())
	cmd.AddCommand(c.deleteDiagramCommand())
	cmd.AddCommand(c.renameDiagramCommand())
	cmd.AddCommand(c.duplicateDiagramCommand())

	return cmd
}

func (c *CLI) listDiagramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, closeStore, err := c.newLibrary(cmd.Context())
			if err != nil {
				return exitErr(err)
			}
			defer closeStore()

			diagrams := lib.List()
			if len(diagrams) == 0 {
				printInfo("No saved diagrams")
				printNextStep("Import one", fmt.Sprintf("%s diagrams import my-diagram.json", appName))
				return nil
			}

			printDiagramTable(diagrams)
			printNewline()
			printKeyValue("Total", StyleNumber.Render(fmt.Sprintf("%d", len(diagrams))))
			return nil
		},
	}
}

func (c *CLI) exportDiagramCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a saved diagram to a JSON file",
		Long: `Export a saved diagram to a JSON file.

With no ID, an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, closeStore, err := c.newLibrary(cmd.Context())
			if err != nil {
				return exitErr(err)
			}
			defer closeStore()

			var d *model.Diagram
			if len(args) == 1 {
				d, err = lib.Get(args[0])
				if err != nil {
					return exitErr(err)
				}
			} else {
				diagrams := lib.List()
				if len(diagrams) == 0 {
					printInfo("No saved diagrams")
					return nil
				}
				d, err = pickDiagram(diagrams)
				if err != nil {
					return exitErr(err)
				}
				if d == nil {
					printInfo("Cancelled")
					return nil
				}
			}

			data, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return exitErr(fmt.Errorf("export diagram: %w", err))
			}

			out := output
			if out == "" {
				out = d.ID + ".json"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return exitErr(fmt.Errorf("write %s: %w", out, err))
			}

			printSuccess("Exported %s", StyleHighlight.Render(d.Name))
			printStats(len(d.Nodes), len(d.Edges), true)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <id>.json)")
	return cmd
}

func (c *CLI) importDiagramCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import [diagram.json]",
		Short: "Import a diagram file into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := c.loadSessionFile(args[0])
			if err != nil {
				return exitErr(err)
			}
			if name != "" {
				sess.Rename(name)
			}

			lib, closeStore, err := c.newLibrary(ctx)
			if err != nil {
				return exitErr(err)
			}
			defer closeStore()

			lib.Open(sess)
			if err := lib.Save(ctx); err != nil {
				return exitErr(err)
			}

			printSuccess("Imported %s", StyleHighlight.Render(sess.Name()))
			printStats(len(sess.Nodes()), len(sess.Edges()), true)
			printKeyValue("id", sess.ID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "rename the diagram on import")
	return cmd
}

func (c *CLI) deleteDiagramCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(ctx context.Context, lib *session.Library) error {
				if err := lib.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) renameDiagramCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [id] [name]",
		Short: "Rename a saved diagram",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(ctx context.Context, lib *session.Library) error {
				if err := lib.Rename(ctx, args[0], args[1]); err != nil {
					return err
				}
				printSuccess("Renamed %s to %s", args[0], StyleHighlight.Render(args[1]))
				return nil
			})
		},
	}
}

func (c *CLI) duplicateDiagramCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate [id]",
		Short: "Duplicate a saved diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(ctx context.Context, lib *session.Library) error {
				dup, err := lib.Duplicate(ctx, args[0])
				if err != nil {
					return err
				}
				printSuccess("Duplicated as %s", StyleHighlight.Render(dup.Name))
				printKeyValue("id", dup.ID)
				return nil
			})
		},
	}
}

// withLibrary opens the library, runs fn, and closes the store, converting
// errors into styled output.
func (c *CLI) withLibrary(ctx context.Context, fn func(context.Context, *session.Library) error) error {
	lib, closeStore, err := c.newLibrary(ctx)
	if err != nil {
		return exitErr(err)
	}
	defer closeStore()

	if err := fn(ctx, lib); err != nil {
		return exitErr(err)
	}
	return nil
}

// printDiagramTable renders the saved collection as a lipgloss table.
func printDiagramTable(diagrams []*model.Diagram) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(diagrams))
	for _, d := range diagrams {
		rows = append(rows, []string{
			d.ID,
			d.Name,
			fmt.Sprintf("%d", len(d.Nodes)),
			fmt.Sprintf("%d", len(d.Edges)),
			string(d.Direction),
			formatRelativeTime(d.ModifiedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Nodes", "Edges", "Dir", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return StyleValue
			}
			return StyleDim
		})

	fmt.Println(t.Render())
}
