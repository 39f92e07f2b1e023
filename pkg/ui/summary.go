package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#00FFFF")
	border = lipgloss.Color("#FF00FF")
	value  = lipgloss.Color("#FFFF00")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(accent)

	valueStyle = lipgloss.NewStyle().
			Foreground(value)
)

// Row is one label/value line of a panel
type Row struct {
	Label string
	Value string
}

// RowOf formats v with %v
func RowOf(label string, v interface{}) Row {
	return Row{Label: label, Value: fmt.Sprint(v)}
}

// RenderPanel draws rows as an aligned, bordered panel
func RenderPanel(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > width {
			width = w
		}
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := labelStyle.Width(width).Render(r.Label)
		lines = append(lines, label+"  "+valueStyle.Render(r.Value))
	}

	body := titleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return panelStyle.Render(body)
}

// PrintPanel writes a panel to the terminal output
func PrintPanel(title string, rows []Row) {
	w, colored := out()
	panel := RenderPanel(title, rows)
	if !colored {
		panel = stripStyles(title, rows)
	}
	fmt.Fprintln(w, panel)
}

// stripStyles renders the plain text form used when colour is off
func stripStyles(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r.Label, r.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}
