package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

type text string

func (t text) Render(width, height int) string { return string(t) }

func TestHStackRatios(t *testing.T) {
	out := HStack{Widgets: []Widget{text("A"), text("B")}, Ratios: []float64{3, 1}, Gap: 1}.Render(21, 1)
	require.Equal(t, 21, ansi.StringWidth(out))
	require.Equal(t, 'B', rune(out[16]))
}

func TestVStackClipsEachChild(t *testing.T) {
	out := VStack{Widgets: []Widget{text("a\nb\nc"), text("z")}}.Render(5, 4)
	require.Equal(t, []string{"a", "b", "z", ""}, strings.Split(out, "\n"))
}

func TestDistributeEven(t *testing.T) {
	require.Equal(t, []int{4, 3, 3}, distribute(10, 3, nil))
	require.Equal(t, []int{5, 5}, distribute(10, 2, []float64{0, -1}))
}

func TestPaneFitsBox(t *testing.T) {
	out := Pane{Title: "Players", Content: "ann\nbo\ncy"}.Render(12, 4)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		require.Equal(t, 12, ansi.StringWidth(l))
	}
	require.Contains(t, lines[0], "Players")
	require.Contains(t, lines[2], "bo")
	require.NotContains(t, out, "cy")
}

func TestCoverCardCentredOverBase(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 30)+"\n", 9) + strings.Repeat(".", 30)
	out := RenderCoverCard(base, "hi", 30, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	for _, l := range lines {
		require.Equal(t, 30, ansi.StringWidth(l))
	}
	require.Contains(t, out, "hi")
	require.True(t, strings.HasPrefix(lines[0], "....."))
	require.True(t, strings.HasSuffix(lines[4], "....."))
}
