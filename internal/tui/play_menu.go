package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/subscribe"
	"github.com/nightfall/mafiatui/internal/tui/widgets"
)

// playMenu lists the server's lobbies. It hands over to the spectator
// screen as soon as the store says a game is being watched.
type playMenu struct {
	env        *env
	lobbies    *subscribe.Region[[]game.LobbyPreview]
	spectating *subscribe.Subscription[bool]
	cursor     int
}

func selectLobbies(s *game.State) []game.LobbyPreview { return s.Lobbies }

func selectSpectating(s *game.State) bool { return s != nil && s.Spectating }

func newPlayMenu(e *env) *playMenu {
	p := &playMenu{env: e}
	p.lobbies = subscribe.NewRegion(e.Store, subscribe.Pure(selectLobbies),
		game.Of(game.CategoryLobbyList), p.renderLobbies, nil,
		subscribe.RequireReady[[]game.LobbyPreview]())
	p.spectating = subscribe.New(e.Store, subscribe.Pure(selectSpectating),
		game.Of(game.CategoryGameState),
		subscribe.OnChange(func(ev subscribe.Event[bool]) {
			if ev.Value {
				e.setContent(newSpectatorScreen(e))
			}
		}))
	return p
}

func (p *playMenu) Title() string { return p.env.t("menu.lobbyList.title") }

func (p *playMenu) Mount(ctrl anchor.Controller[Screen]) error {
	if err := p.lobbies.Mount(); err != nil {
		return err
	}
	if err := p.spectating.Mount(); err != nil {
		return err
	}
	if watching, _ := p.spectating.Value(); watching {
		return ctrl.SetContent(newSpectatorScreen(p.env))
	}
	return nil
}

func (p *playMenu) Unmount() {
	p.lobbies.Unmount()
	p.spectating.Unmount()
}

func (p *playMenu) Invalidate() { p.lobbies.Invalidate() }

func (p *playMenu) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	e := p.env
	lobbies, _ := p.lobbies.Subscription().Value()
	switch {
	case key.Matches(m, keys.Up):
		if p.cursor > 0 {
			p.cursor--
			p.lobbies.Invalidate()
		}
	case key.Matches(m, keys.Down):
		if p.cursor < len(lobbies)-1 {
			p.cursor++
			p.lobbies.Invalidate()
		}
	case key.Matches(m, keys.Enter):
		if p.cursor >= len(lobbies) {
			return nil
		}
		id, ctx := lobbies[p.cursor].ID, e.ctx
		return func() tea.Msg {
			if err := e.Session.Spectate(ctx, id); err != nil {
				return errMsg{what: "spectate", err: err}
			}
			return nil
		}
	case key.Matches(m, keys.Refresh):
		ctx := e.ctx
		return func() tea.Msg {
			if err := e.Session.SetOutsideLobbyState(ctx); err != nil {
				return errMsg{what: "refresh lobbies", err: err}
			}
			return nil
		}
	case key.Matches(m, keys.Back):
		e.setContent(newStartMenu(e))
	}
	return nil
}

func (p *playMenu) renderLobbies(lobbies []game.LobbyPreview, ok bool, err error, width, height int) string {
	e := p.env
	if err != nil {
		return regionError(e, err)
	}
	if !ok || len(lobbies) == 0 {
		return mutedStyle.Render(e.t("menu.lobbyList.empty"))
	}
	p.cursor = min(p.cursor, len(lobbies)-1)

	rows := make([]string, 0, len(lobbies))
	for i, l := range lobbies {
		state := e.t("menu.lobbyList.waiting")
		if l.InGame {
			state = e.t("menu.lobbyList.inGame")
		}
		line := fmt.Sprintf("%-24s %2d  %s", l.Name, len(l.Players), state)
		if i == p.cursor {
			line = selected.Render(line)
		}
		rows = append(rows, line)
	}
	start := max(0, p.cursor-height+1)
	end := min(len(rows), start+height)
	return strings.Join(rows[start:end], "\n")
}

func (p *playMenu) View(width, height int) string {
	pane := widgets.Pane{Title: p.Title(), Content: p.lobbies.View(width-4, height-3), Accent: true}
	return pane.Render(width, height-1) + "\n" + mutedStyle.Render(p.env.t("menu.lobbyList.help"))
}

func regionError(e *env, err error) string {
	return warnStyle.Render(e.t("menu.error.region")) + "\n" + mutedStyle.Render(err.Error())
}
