package wiki

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightfall/mafiatui/internal/game"
)

func titles(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Article.Title
	}
	return out
}

func TestBundledArticles(t *testing.T) {
	w, err := Load()
	require.NoError(t, err)

	jester, ok := w.Get("jester")
	require.True(t, ok)
	require.Equal(t, KindRole, jester.Kind)
	require.Equal(t, game.FactionNeutral, jester.Faction)

	_, ok = w.Get("nobody")
	require.False(t, ok)
	require.Len(t, w.Search(""), len(w.Articles()))
}

func TestSearchRanksExactThenTypos(t *testing.T) {
	w, err := Load()
	require.NoError(t, err)

	require.Equal(t, "Deputy", titles(w.Search("deputy"))[0])
	require.Equal(t, "Retributionist", titles(w.Search("retri"))[0])
	// two typos still find the role
	require.Equal(t, "Doomsayer", titles(w.Search("domsayr"))[0])
	require.Empty(t, w.Search("zzzzzz"))
}

func TestSearchByFaction(t *testing.T) {
	w, err := Load()
	require.NoError(t, err)

	got := titles(w.Search("mafia"))
	require.Equal(t, "Mafia", got[0])
	require.Contains(t, got, "Forger")
	require.Contains(t, got, "Godfather")
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte(`
[[article]]
slug = "a"
title = "A"
[[article]]
slug = "a"
title = "B"
`))
	require.ErrorContains(t, err, "defined twice")

	_, err = Parse([]byte("[[article]]\nslug = \"x\"\n"))
	require.ErrorContains(t, err, "required")
}
