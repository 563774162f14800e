package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives every status line. Stdout is reserved for solutions.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// pieceColors cycles over the symbols of a solution grid.
var pieceColors = []lipgloss.Color{"36", "167", "220", "75", "35", "177", "209", "111", "150", "204"}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Status Output
// =============================================================================

// statusLine renders one status line: a colored marker, then the message.
func statusLine(marker lipgloss.Style, icon, msg string) {
	fmt.Fprintln(statusOut, marker.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine(styleIconSuccess, "✓", fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	statusLine(styleIconError, "✗", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine(styleIconWarning, "!", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine(styleIconInfo, "›", fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

// printKeyValue prints a label padded to a fixed column, then its value.
func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printRunStats prints "N solutions · P placements · 12ms · fresh|cached".
func printRunStats(solutions int, placements int64, d time.Duration, cached bool) {
	origin := styleComputed.Render("fresh")
	if cached {
		origin = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(statusOut, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d solutions", solutions)),
		StyleDim.Render(fmt.Sprintf("%d placements", placements)),
		StyleDim.Render(d.Round(time.Millisecond).String()),
		origin,
	}, sep))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Solution Grids
// =============================================================================

// colorizeGrid colors every piece symbol of a grid from sink.FormatGrid.
// Symbols keep their color across calls so pages of a browser stay stable.
func colorizeGrid(grid string) string {
	var b strings.Builder
	for _, r := range grid {
		switch {
		case r == ' ' || r == '\n':
			b.WriteRune(r)
		case r == '0':
			b.WriteString(StyleDim.Render("·"))
		default:
			c := pieceColors[int(r)%len(pieceColors)]
			b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(r)))
		}
	}
	return b.String()
}
