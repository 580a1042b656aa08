package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	colorText   = lipgloss.Color("#cdd6f4")
	colorBorder = lipgloss.Color("#6c7086")
	colorAccent = lipgloss.Color("#89b4fa")
	colorAlert  = lipgloss.Color("#f38ba8")
)

// Pane is a rounded box with its title set into the top border.
type Pane struct {
	Title   string
	Content string
	// Accent highlights the border, Alert wins over it.
	Accent bool
	Alert  bool
}

func (p Pane) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	width = max(width, 4)
	height = max(height, 3)

	border := colorBorder
	switch {
	case p.Alert:
		border = colorAlert
	case p.Accent:
		border = colorAccent
	}
	bs := lipgloss.NewStyle().Foreground(border)
	ts := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	cs := lipgloss.NewStyle().Foreground(colorText)

	inner := width - 2
	contentWidth := inner - 2

	title := ""
	if t := strings.TrimSpace(p.Title); t != "" {
		title = " " + ansi.Truncate(t, max(1, inner-3), "…") + " "
	}
	lead := 0
	if inner > ansi.StringWidth(title) {
		lead = 1
	}
	trail := max(0, inner-lead-ansi.StringWidth(title))

	rows := make([]string, 0, height)
	rows = append(rows, bs.Render("╭"+strings.Repeat("─", lead))+ts.Render(title)+bs.Render(strings.Repeat("─", trail)+"╮"))

	body := strings.Split(p.Content, "\n")
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		line = padRightANSI(cs.Render(ansi.Truncate(line, contentWidth, "")), contentWidth)
		rows = append(rows, bs.Render("│")+" "+line+" "+bs.Render("│"))
	}
	rows = append(rows, bs.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(rows, "\n")
}
