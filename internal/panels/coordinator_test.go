package panels

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type menu string

const (
	chat      menu = "chat"
	players   menu = "players"
	graveyard menu = "graveyard"
	wiki      menu = "wiki"
)

var allMenus = []menu{chat, players, graveyard, wiki}

func TestTwoPanelScenario(t *testing.T) {
	c := New(1, []menu{"A", "B"}, nil)

	c.Open("A")
	require.Equal(t, map[menu]bool{"A": true, "B": false}, c.Snapshot())

	c.Open("B")
	require.Equal(t, map[menu]bool{"A": false, "B": true}, c.Snapshot())

	c.Toggle("B")
	require.Equal(t, map[menu]bool{"A": false, "B": false}, c.Snapshot())
}

func TestToggleTwiceRestoresConfiguration(t *testing.T) {
	cases := []map[menu]bool{
		{},
		{chat: true},
		{chat: true, players: true},
		{chat: true, players: true, graveyard: true},
	}
	for _, initial := range cases {
		for _, id := range allMenus {
			c := New(Unlimited, allMenus, initial)
			before := c.Snapshot()
			c.Toggle(id)
			c.Toggle(id)
			require.Equal(t, before, c.Snapshot(), "toggle %s from %v", id, initial)
		}
	}
}

func TestOpenNeverExceedsCapacity(t *testing.T) {
	for n := 0; n <= len(allMenus)+1; n++ {
		c := New(n, allMenus, nil)
		for i, id := range allMenus {
			c.Open(id)
			require.LessOrEqual(t, len(c.OpenPanels()), n)
			if n > 0 && i >= n {
				// the panel opened n calls ago is the one that went
				require.False(t, c.IsOpen(allMenus[i-n]))
				require.Len(t, c.OpenPanels(), n)
			}
		}
	}
}

func TestEvictsOldestOpenedNotMostRecentlyTouched(t *testing.T) {
	c := New(2, allMenus, nil)
	c.Open(chat)
	c.Open(players)
	// re-opening an open panel does not refresh its age
	c.Open(chat)
	c.Open(graveyard)
	require.Equal(t, []menu{players, graveyard}, c.OpenPanels())
}

func TestReopeningMostRecentDoesNotEvict(t *testing.T) {
	c := New(2, allMenus, map[menu]bool{chat: true, players: true})
	c.Open(players)
	require.Equal(t, []menu{chat, players}, c.OpenPanels())
}

func TestZeroCapacity(t *testing.T) {
	c := New(0, allMenus, map[menu]bool{chat: true})
	require.False(t, c.IsOpen(chat))
	require.NotPanics(t, func() {
		c.Open(players)
		c.Toggle(graveyard)
	})
	require.False(t, c.IsOpen(players))
	require.False(t, c.IsOpen(graveyard))
}

func TestNegativeCapacityIsZeroWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(-3, allMenus, nil, WithLogger(zap.New(core)))
	require.Equal(t, 0, c.MaxOpen())
	c.Open(chat)
	require.False(t, c.IsOpen(chat))
	require.Equal(t, 1, logs.FilterMessage("negative panel capacity, treating as zero").Len())
}

func TestInitialBeyondCapacityKeepsLatest(t *testing.T) {
	c := New(2, allMenus, map[menu]bool{chat: true, players: true, graveyard: true})
	require.Equal(t, []menu{players, graveyard}, c.OpenPanels())
}

func TestSetMaxOpenEvictsOldestUntilFits(t *testing.T) {
	changes := 0
	c := New(Unlimited, allMenus, map[menu]bool{chat: true, players: true, graveyard: true}, OnChange(func() { changes++ }))
	c.SetMaxOpen(2)
	require.Equal(t, []menu{players, graveyard}, c.OpenPanels())
	require.Equal(t, 1, changes)

	c.SetMaxOpen(Unlimited)
	require.Equal(t, []menu{players, graveyard}, c.OpenPanels())
	require.Equal(t, 1, changes)

	c.Open(wiki)
	require.Equal(t, []menu{players, graveyard, wiki}, c.OpenPanels())
	require.Equal(t, 2, changes)
}

func TestUnknownPanelIgnored(t *testing.T) {
	c := New(Unlimited, []menu{chat}, nil)
	c.Open(wiki)
	require.False(t, c.IsOpen(wiki))
	require.Empty(t, c.OpenPanels())
}

func TestCloseIsUnconditional(t *testing.T) {
	c := New(1, allMenus, map[menu]bool{chat: true})
	c.Close(chat)
	c.Close(chat)
	require.Empty(t, c.OpenPanels())
}

func TestHandleSurvivesRebuilds(t *testing.T) {
	var h Handle[menu]
	require.Nil(t, h.Get())

	desktop := h.Use(Unlimited, allMenus, map[menu]bool{chat: true, players: true})
	desktop.Open(graveyard)

	mobile := h.Use(2, allMenus, map[menu]bool{chat: true, players: true})
	require.Same(t, desktop, mobile)
	require.Equal(t, []menu{players, graveyard}, mobile.OpenPanels())

	h.Reset()
	fresh := h.Use(2, allMenus, map[menu]bool{chat: true})
	require.NotSame(t, desktop, fresh)
	require.Equal(t, []menu{chat}, fresh.OpenPanels())
}
