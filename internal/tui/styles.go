package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarn    lipgloss.Color = "#f9e2af"
	colorMantle  lipgloss.Color = "#181825"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	bigTitle     = titleStyle.Padding(1, 4).Border(lipgloss.DoubleBorder()).BorderForeground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	selected     = lipgloss.NewStyle().Foreground(colorMantle).Background(colorAccent).Bold(true)
	deadStyle    = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle  = lipgloss.NewStyle().Background(colorMantle).Foreground(colorText)
	statusStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface)
	statusErrBar = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface)
)
