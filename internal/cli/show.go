package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/latticetile/pkg/errors"
	"github.com/matzehuels/latticetile/pkg/puzzle"
	"github.com/matzehuels/latticetile/pkg/shape"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var svgDir string

	cmd := &cobra.Command{
		Use:   "show [puzzle|file]",
		Short: "Describe a puzzle's lattice and pieces",
		Long: `Show prints the lattice dimensions and a table of the pieces with their
sizes, orientation modes and number of configurations.

With --svg every shape is also rendered to an SVG file through Graphviz.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePuzzles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], svgDir)
		},
	}

	cmd.Flags().StringVar(&svgDir, "svg", "", "write one SVG per piece shape into this directory")
	return cmd
}

func (c *CLI) runShow(ctx context.Context, arg, svgDir string) error {
	def, err := puzzle.Resolve(arg)
	if err != nil {
		return err
	}
	pieces, err := def.BuildPieces()
	if err != nil {
		return err
	}

	fmt.Fprintln(statusOut, StyleTitle.Render(def.Name))
	if def.Description != "" {
		printDetail("%s", def.Description)
	}
	fmt.Fprintln(statusOut)

	cells, sites := def.CellBalance()
	printKeyValue("Lattice", latticeLabel(def.Lattice))
	printKeyValue("Sites", strconv.Itoa(sites))
	printKeyValue("Cells", strconv.Itoa(cells))
	printKeyValue("Hash", def.Hash()[:12])
	fmt.Fprintln(statusOut)

	rows := make([][]string, len(def.Pieces))
	for i, p := range def.Pieces {
		mode := p.Orientation
		if mode == "" {
			mode = string(shape.ModeNone)
		}
		rows[i] = []string{
			p.Symbol,
			p.Name,
			strconv.Itoa(pieces[i].Size()),
			mode,
			strconv.Itoa(len(pieces[i].Configs)),
			strings.Join(p.Shapes, "  "),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Sym", "Name", "Cells", "Orientation", "Configs", "Shapes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(statusOut, t.Render())

	switch {
	case cells < sites:
		printWarning("Pieces cover at most %d of %d sites; there are no solutions", cells, sites)
	case cells > sites:
		printDetail("Not every piece fits at once; solutions use a subset of the pieces")
	}

	if svgDir == "" {
		return nil
	}
	return writeShapeSVGs(ctx, def, svgDir)
}

// writeShapeSVGs renders every shape as written in the definition.
func writeShapeSVGs(ctx context.Context, def *puzzle.Definition, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
	}
	fmt.Fprintln(statusOut)
	printInfo("Writing shapes to %s", dir)
	for _, p := range def.Pieces {
		for k, s := range p.Shapes {
			j, err := shape.Parse(s)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidShape, err, "piece %s shape %d", p.Symbol, k+1)
			}
			title := fmt.Sprintf("%s %s", p.Symbol, p.Name)
			svg, err := shape.RenderSVG(ctx, j, strings.TrimSpace(title))
			if err != nil {
				return err
			}
			path := filepath.Join(dir, svgName(p.Symbol, k))
			if err := os.WriteFile(path, svg, 0o644); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
			}
			printFile(path)
		}
	}
	return nil
}

// svgName names the file for shape k of a piece. Symbols may be any
// printable byte, so anything outside [A-Za-z0-9] is hex encoded.
func svgName(symbol string, k int) string {
	var b strings.Builder
	for i := 0; i < len(symbol); i++ {
		ch := symbol[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' {
			b.WriteByte(ch)
		} else {
			fmt.Fprintf(&b, "x%02x", ch)
		}
	}
	return fmt.Sprintf("%s-%d.svg", b.String(), k+1)
}

func latticeLabel(l puzzle.LatticeSpec) string {
	if l.Kind == puzzle.KindPyramid {
		return fmt.Sprintf("pyramid, %d levels", l.Levels)
	}
	return fmt.Sprintf("box %d×%d×%d", l.X, l.Y, l.Z)
}
