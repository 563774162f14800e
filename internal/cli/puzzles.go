package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/latticetile/pkg/puzzle"
)

// puzzlesCommand creates the puzzles command.
func (c *CLI) puzzlesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "puzzles",
		Short: "List the built-in puzzles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := puzzle.Builtins()
			if err != nil {
				return err
			}

			rows := make([][]string, len(defs))
			for i, d := range defs {
				_, sites := d.CellBalance()
				rows[i] = []string{d.Name, latticeLabel(d.Lattice), strconv.Itoa(sites), strconv.Itoa(len(d.Pieces)), d.Description}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Name", "Lattice", "Sites", "Pieces", "Description").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return styleHeader
					case col == 0:
						return lipgloss.NewStyle().Foreground(colorCyan)
					case col == 4:
						return lipgloss.NewStyle().Foreground(colorGray)
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			if len(defs) > 0 {
				printNextStep("Try", fmt.Sprintf("%s solve %s --format grid", appName, defs[0].Name))
			}
			return nil
		},
	}
}

// builtinNames returns the names of the built-in puzzles.
func builtinNames() []string {
	defs, err := puzzle.Builtins()
	if err != nil {
		return nil
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
