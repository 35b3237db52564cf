package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the color scheme for CLI output.
type Theme struct {
	Title   lipgloss.Color
	Label   lipgloss.Color
	Good    lipgloss.Color
	Warn    lipgloss.Color
	Bad     lipgloss.Color
	Hint    lipgloss.Color
	Divider lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:   lipgloss.Color("#5FAFD7"), // light blue
	Label:   lipgloss.Color("#AFAFAF"), // light gray
	Good:    lipgloss.Color("#00D787"), // green
	Warn:    lipgloss.Color("#FFAF00"), // amber
	Bad:     lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Divider: lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Label)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// scoreStyle colors a 0..1 score: green above 0.7, amber above 0.4, red below.
func (t Theme) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score > 0.7:
		return lipgloss.NewStyle().Foreground(t.Good)
	case score > 0.4:
		return lipgloss.NewStyle().Foreground(t.Warn)
	default:
		return lipgloss.NewStyle().Foreground(t.Bad)
	}
}

// terminalWidth returns the stdout width, or 80 when not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// printTitle renders a section title with a divider rule.
func printTitle(text string) {
	width := terminalWidth()
	rule := strings.Repeat("─", min(width, 60))
	fmt.Println(defaultTheme.titleStyle().Render(text))
	fmt.Println(lipgloss.NewStyle().Foreground(defaultTheme.Divider).Render(rule))
}

// printKV renders an aligned label/value pair.
func printKV(label, value string) {
	fmt.Printf("%s %s\n", defaultTheme.labelStyle().Render(fmt.Sprintf("%-22s", label+":")), value)
}

// printScore renders a label with a colorized score.
func printScore(label string, score float64) {
	printKV(label, defaultTheme.scoreStyle(score).Render(fmt.Sprintf("%.3f", score)))
}

// printHint renders dimmed helper text.
func printHint(text string) {
	fmt.Println(defaultTheme.hintStyle().Render(text))
}
