package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/latticetile/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Latticetile finds every tiling of a lattice by a set of pieces",
		Long: `Latticetile exhaustively searches the ways a set of pieces can tile a
3D lattice of sites. Puzzles are defined in TOML; a few are built in.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger.WithPrefix(cmd.Name())))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.puzzlesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
