package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/subscribe"
)

var errBoom = errors.New("boom")

func discussion(day int) game.PhaseState {
	return game.PhaseState{Type: game.PhaseDiscussion, Day: day}
}

// spectate puts the harness into a running game, well past the phase
// announcement.
func (h *harness) spectate() *spectatorScreen {
	h.event(
		game.StartSpectating("ann"),
		game.SetPhase(discussion(1), 50_000),
		game.SetPlayers([]game.Player{
			{Index: 0, Name: "ann", Alive: true},
			{Index: 1, Name: "bo", Alive: false, Role: "jester"},
		}),
		game.SetGraves([]game.Grave{{Player: 1, Role: "jester", Faction: game.FactionNeutral, DiedPhase: game.PhaseNight, Day: 1}}),
		game.AddChat(game.ChatMessage{Sender: "ann", Text: "hello town", Kind: game.ChatNormal}),
	)
	h.app.env.setContent(newSpectatorScreen(h.app.env))
	return h.app.Content().(*spectatorScreen)
}

func TestSpectatorShowsAllPanelsOnDesktop(t *testing.T) {
	h := newHarness(t, testDeps(t))
	s := h.spectate()

	require.Equal(t, []ContentMenu{ChatMenu, PlayerListMenu, GraveyardMenu}, s.coord.OpenPanels())
	v := h.view()
	require.Contains(t, v, "Spectating ann")
	require.Contains(t, v, "hello town")
	require.Contains(t, v, "Graveyard")
	require.Contains(t, v, "Neutral")
}

func TestSpectatorMobileCapsPanels(t *testing.T) {
	h := newHarness(t, testDeps(t))
	s := h.spectate()

	h.app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	require.Equal(t, []ContentMenu{PlayerListMenu, GraveyardMenu}, s.coord.OpenPanels())

	// reopening chat pushes out the panel opened longest ago
	h.press("1")
	require.Equal(t, []ContentMenu{GraveyardMenu, ChatMenu}, s.coord.OpenPanels())

	h.press("3")
	require.Equal(t, []ContentMenu{ChatMenu}, s.coord.OpenPanels())

	h.app.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	require.Equal(t, panelCapacity(false), s.coord.MaxOpen())
	h.press("2")
	h.press("3")
	require.Len(t, s.coord.OpenPanels(), 3)
}

func TestPanelsSurviveScreenRebuild(t *testing.T) {
	h := newHarness(t, testDeps(t))
	s := h.spectate()
	h.press("2")
	require.False(t, s.coord.IsOpen(PlayerListMenu))

	rebuilt := newSpectatorScreen(h.app.env)
	h.app.env.setContent(rebuilt)
	require.Same(t, s.coord, rebuilt.coord)
	require.False(t, rebuilt.coord.IsOpen(PlayerListMenu))
}

func TestPhaseStartedScreen(t *testing.T) {
	h := newHarness(t, testDeps(t))
	s := h.spectate()

	h.event(game.SetPhase(game.PhaseState{Type: game.PhaseNight, Day: 1}, -1))
	started, ok := s.started.Value()
	require.True(t, ok)
	require.True(t, started)
	require.NotContains(t, h.view(), "hello town")

	start := time.Unix(0, 0)
	h.app.Update(tickMsg(start))
	h.app.Update(tickMsg(start.Add(2 * time.Second)))
	started, _ = s.started.Value()
	require.True(t, started)

	h.app.Update(tickMsg(start.Add(3 * time.Second)))
	started, _ = s.started.Value()
	require.False(t, started)
	require.Contains(t, h.view(), "hello town")
}

func TestAnnouncementPhasesAlwaysShowStarted(t *testing.T) {
	sel := phaseStarted(3)
	st := &game.State{
		Phase:      game.PhaseState{Type: game.PhaseObituary, Day: 2},
		PhaseTimes: game.DefaultPhaseTimes(),
	}
	got, err := sel(st)
	require.NoError(t, err)
	require.True(t, got)
}

func TestHeaderIgnoresUnrelatedUpdates(t *testing.T) {
	h := newHarness(t, testDeps(t))
	s := h.spectate()
	h.view()
	renders := s.header.Renders()

	h.event(game.AddChat(game.ChatMessage{Sender: "bo", Text: "boo", Kind: game.ChatGraveyard}))
	h.view()
	require.Equal(t, renders, s.header.Renders())

	h.app.Update(tickMsg(time.Unix(0, 0)))
	h.app.Update(tickMsg(time.Unix(2, 0)))
	h.view()
	require.Equal(t, renders+1, s.header.Renders())
}

func TestLeavingReturnsToPlayMenu(t *testing.T) {
	h := newHarness(t, testDeps(t))
	h.spectate()

	h.run(t, h.press("esc"))
	require.Equal(t, []string{"leave", "outside"}, h.sess.Calls())
	require.IsType(t, &playMenu{}, h.app.Content())
}

func TestLeaveGameUnmountsSubscriptions(t *testing.T) {
	h := newHarness(t, testDeps(t))
	h.spectate()
	listeners := h.store.Listeners()
	require.Positive(t, listeners)

	h.app.env.setContent(newStartMenu(h.app.env))
	require.Zero(t, h.store.Listeners())
}

func TestPanelLayoutIsPersisted(t *testing.T) {
	deps := testDeps(t)
	deps.Repos = openDB(t)
	h := newHarness(t, deps)
	h.spectate()

	h.run(t, h.press("3"))
	layout, found, err := deps.Repos.Layouts.Load(context.Background(), layoutScreen)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"chat", "playerList"}, layout.Panels)

	// a fresh start restores it
	contentMenus.Reset()
	next := New(deps)
	require.NoError(t, next.anchor.Install())
	next.Update(next.loadLayoutCmd()())
	next.env.setContent(newSpectatorScreen(next.env))
	s := next.Content().(*spectatorScreen)
	require.Equal(t, []ContentMenu{ChatMenu, PlayerListMenu}, s.coord.OpenPanels())
}

func TestRegionErrorRendersErrorBox(t *testing.T) {
	h := newHarness(t, testDeps(t))
	h.spectate()
	e := h.app.env

	failing := subscribe.NewRegion(e.Store,
		func(*game.State) (int, error) { return 0, errBoom },
		game.Of(game.CategoryChat),
		func(_ int, _ bool, err error, _, _ int) string {
			if err != nil {
				return regionError(e, err)
			}
			return "fine"
		}, nil)
	require.ErrorIs(t, failing.Mount(), errBoom)
	require.Contains(t, failing.View(40, 3), "This panel failed to load")
	failing.Unmount()
}
