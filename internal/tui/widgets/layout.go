package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Widget draws itself into a width x height cell box.
type Widget interface {
	Render(width, height int) string
}

// Func adapts a render function to Widget.
type Func func(width, height int) string

func (f Func) Render(width, height int) string { return f(width, height) }

// VStack splits the height between its widgets.
type VStack struct {
	Widgets []Widget
	Spacing int
	Ratios  []float64
}

func (v VStack) Render(width, height int) string {
	n := len(v.Widgets)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}
	usable := max(1, height-v.Spacing*(n-1))
	heights := distribute(usable, n, v.Ratios)
	lines := make([]string, 0, height)
	for i, w := range v.Widgets {
		lines = append(lines, splitToLines(w.Render(width, heights[i]), heights[i])...)
		if i < n-1 {
			for s := 0; s < v.Spacing; s++ {
				lines = append(lines, "")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// HStack splits the width between its widgets, left to right.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	n := len(h.Widgets)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}
	usable := max(1, width-h.Gap*(n-1))
	widths := distribute(usable, n, h.Ratios)
	cols := make([][]string, n)
	rows := 0
	for i, w := range h.Widgets {
		cols[i] = strings.Split(w.Render(widths[i], height), "\n")
		rows = max(rows, len(cols[i]))
	}
	gap := strings.Repeat(" ", h.Gap)
	out := make([]string, rows)
	for r := range out {
		parts := make([]string, n)
		for i := range cols {
			cell := ""
			if r < len(cols[i]) {
				cell = cols[i][r]
			}
			parts[i] = padRightANSI(cell, widths[i])
		}
		out[r] = strings.Join(parts, gap)
	}
	return strings.Join(out, "\n")
}

// distribute splits total into n parts, proportional to ratios when one is
// given per part and evenly otherwise. Leftover cells go to the first parts.
func distribute(total, n int, ratios []float64) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	if len(ratios) != n {
		for i := range out {
			out[i] = total / n
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}
	sum := 0.0
	weights := make([]float64, n)
	for i, r := range ratios {
		if r <= 0 {
			r = 1
		}
		weights[i] = r
		sum += r
	}
	used := 0
	for i := range out {
		out[i] = int(math.Floor(weights[i] / sum * float64(total)))
		used += out[i]
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

func padRightANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
