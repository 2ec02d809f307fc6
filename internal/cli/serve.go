package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/internal/server"
)

// serveCommand creates the serve command for the HTTP diagram API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP diagram API",
		Long: `Run the HTTP diagram API.

The server exposes the saved-diagram library under /api/diagrams and the
current editing session under /api/session. All mutating session endpoints
participate in undo/redo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.Config()
			if err != nil {
				return exitErr(err)
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			lib, closeStore, err := c.newLibrary(ctx)
			if err != nil {
				return exitErr(err)
			}
			defer closeStore()

			srv := server.New(lib, c.Logger)
			printInfo("Serving diagram API on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")

	return cmd
}
