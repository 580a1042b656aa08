package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(1, 2)

// CardChrome is the horizontal and vertical space the card border and
// padding take around its body.
func CardChrome() (w, h int) {
	return cardStyle.GetHorizontalFrameSize(), cardStyle.GetVerticalFrameSize()
}

// RenderCoverCard draws body in a bordered card centred over base. The base
// is clipped or padded to exactly width x height first.
func RenderCoverCard(base, body string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := fitCanvas(base, width, height)
	card := cardStyle.Render(body)
	lines := strings.Split(card, "\n")
	cw := maxLineWidth(lines)
	if cw == 0 {
		return canvas
	}
	x := max(0, (width-cw)/2)
	y := max(0, (height-len(lines))/2)
	return overlayAt(canvas, lines, x, y, width, height)
}

// overlayAt pastes the overlay lines onto base with their top-left corner
// at column x, row y. Styled base cells either side survive.
func overlayAt(base string, overlay []string, x, y, width, height int) string {
	rows := splitToLines(base, height)
	ow := maxLineWidth(overlay)
	for i, line := range overlay {
		r := y + i
		if r < 0 || r >= len(rows) {
			continue
		}
		target := padRightANSI(rows[r], width)
		left := padRightANSI(ansi.Truncate(target, x, ""), x)
		mid := padRightANSI(line, ow)
		end := x + ansi.StringWidth(mid)
		right := ""
		if end < width {
			right = strings.TrimPrefix(target, ansi.Truncate(target, end, ""))
		}
		rows[r] = ansi.Truncate(left+mid+right, width, "")
	}
	return strings.Join(rows, "\n")
}

func fitCanvas(s string, width, height int) string {
	rows := splitToLines(s, height)
	for i := range rows {
		rows[i] = padRightANSI(rows[i], width)
	}
	return strings.Join(rows, "\n")
}

// splitToLines splits s and, for height > 0, clips or pads to height rows.
func splitToLines(s string, height int) []string {
	rows := strings.Split(s, "\n")
	if height <= 0 {
		return rows
	}
	if len(rows) > height {
		return rows[:height]
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return rows
}

func maxLineWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}
