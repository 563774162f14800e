package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/latticetile/pkg/lattice"
	"github.com/matzehuels/latticetile/pkg/sink"
	"github.com/matzehuels/latticetile/pkg/solver"
)

var (
	browseDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browseFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 2)
)

// =============================================================================
// SolutionBrowserModel - Interactive solution pager
// =============================================================================

// SolutionBrowserModel is the bubbletea model for paging through solutions.
type SolutionBrowserModel struct {
	Puzzle    string
	Lattice   *lattice.Lattice
	Solutions []solver.Solution
	Stopped   solver.StopReason
	Cursor    int
}

// NewSolutionBrowserModel creates a browser positioned on the first solution.
func NewSolutionBrowserModel(name string, lat *lattice.Lattice, sols []solver.Solution, stopped solver.StopReason) SolutionBrowserModel {
	return SolutionBrowserModel{Puzzle: name, Lattice: lat, Solutions: sols, Stopped: stopped}
}

func (m SolutionBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SolutionBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := len(m.Solutions) - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "p", "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "right", "l", "n", "down", "j", " ":
		if m.Cursor < last {
			m.Cursor++
		}
	case "pgup":
		m.Cursor = max(m.Cursor-10, 0)
	case "pgdown":
		m.Cursor = max(min(m.Cursor+10, last), 0)
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = max(last, 0)
	}
	return m, nil
}

func (m SolutionBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Puzzle))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("←/→ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Solutions) == 0 {
		b.WriteString(StyleWarning.Render("No solutions"))
		b.WriteString("\n")
		return b.String()
	}

	sol := m.Solutions[m.Cursor]
	grid := strings.TrimRight(sink.FormatGrid(m.Lattice, sol.Text), "\n")
	pieces := placementTable(sol.Placements)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		browseFrameStyle.Render(colorizeGrid(grid)),
		"  ",
		pieces))
	b.WriteString("\n\n")

	footer := fmt.Sprintf("  [%d/%d] %s", m.Cursor+1, len(m.Solutions), sol.Text)
	if m.Stopped != solver.StopExhausted {
		footer += fmt.Sprintf("  (search stopped: %s)", m.Stopped)
	}
	b.WriteString(browseDimStyle.Render(footer))
	return b.String()
}

// placementTable lists the pieces of one solution.
func placementTable(ps []solver.Placement) string {
	rows := make([][]string, len(ps))
	for i, p := range ps {
		rows[i] = []string{string(p.Symbol), p.Name, fmt.Sprint(p.Anchor), fmt.Sprint(p.Config + 1)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Piece", "Anchor", "Config").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 && row < len(ps) {
				c := pieceColors[int(ps[row].Symbol)%len(pieceColors)]
				return lipgloss.NewStyle().Foreground(c).Bold(true)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
