package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/subscribe"
)

// regionMenu is the shared shell of the spectator panels: one cached
// region over a store selector.
type regionMenu[T any] struct {
	env      *env
	titleKey string
	region   *subscribe.Region[T]
}

func (m *regionMenu[T]) Title() string { return m.env.t(m.titleKey) }
func (m *regionMenu[T]) Mount() error { return m.region.Mount() }
func (m *regionMenu[T]) Unmount() { m.region.Unmount() }
func (m *regionMenu[T]) Invalidate() { m.region.Invalidate() }
func (m *regionMenu[T]) Update(tea.Msg) tea.Cmd { return nil }
func (m *regionMenu[T]) View(width, height int) string { return m.region.View(width, height) }

type chatMenu struct {
	regionMenu[[]game.ChatMessage]
	vp     viewport.Model
	follow bool
}

func selectChat(s *game.State) []game.ChatMessage { return s.Chat }

func newChatMenu(e *env) *chatMenu {
	c := &chatMenu{vp: viewport.New(0, 0), follow: true}
	c.env, c.titleKey = e, "menu.chat.title"
	c.region = subscribe.NewRegion(e.Store, subscribe.Pure(selectChat),
		game.Of(game.CategoryChat), c.render, nil,
		subscribe.RequireReady[[]game.ChatMessage]())
	return c
}

// Update scrolls the log. Scrolling back to the end resumes following new
// messages.
func (c *chatMenu) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.vp, cmd = c.vp.Update(msg)
	c.follow = c.vp.AtBottom()
	c.region.Invalidate()
	return cmd
}

func (c *chatMenu) render(msgs []game.ChatMessage, ok bool, err error, width, height int) string {
	if err != nil {
		return regionError(c.env, err)
	}
	if !ok || len(msgs) == 0 {
		return mutedStyle.Render(c.env.t("menu.chat.empty"))
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = formatChat(m)
	}
	c.vp.Width, c.vp.Height = width, height
	c.vp.SetContent(strings.Join(lines, "\n"))
	if c.follow {
		c.vp.GotoBottom()
	}
	return c.vp.View()
}

func formatChat(m game.ChatMessage) string {
	switch m.Kind {
	case game.ChatSystem:
		return mutedStyle.Render(m.Text)
	case game.ChatWhisper:
		return mutedStyle.Render("(whisper) "+m.Sender+": ") + m.Text
	case game.ChatGraveyard:
		return deadStyle.Render(m.Sender) + ": " + m.Text
	}
	return keyStyle.Render(m.Sender) + ": " + m.Text
}

type playerListMenu struct {
	regionMenu[[]game.Player]
}

func selectPlayers(s *game.State) []game.Player { return s.Players }

func newPlayerListMenu(e *env) *playerListMenu {
	p := &playerListMenu{}
	p.env, p.titleKey = e, "menu.playerList.title"
	p.region = subscribe.NewRegion(e.Store, subscribe.Pure(selectPlayers),
		game.Of(game.CategoryPlayerList), p.render, nil,
		subscribe.RequireReady[[]game.Player]())
	return p
}

func (p *playerListMenu) render(players []game.Player, ok bool, err error, _, height int) string {
	if err != nil {
		return regionError(p.env, err)
	}
	if !ok {
		return ""
	}
	rows := make([]string, 0, len(players))
	for _, pl := range players {
		name := fmt.Sprintf("%2d. %s", pl.Index+1, pl.Name)
		if !pl.Alive {
			name = deadStyle.Render(name) + mutedStyle.Render(" ("+p.env.t("menu.playerList.dead")+")")
		}
		if pl.Role != "" {
			name += mutedStyle.Render(" " + pl.Role)
		}
		if pl.Votes > 0 {
			name += warnStyle.Render(fmt.Sprintf(" +%d", pl.Votes))
		}
		rows = append(rows, name)
	}
	if height > 0 && len(rows) > height {
		rows = rows[:height]
	}
	return strings.Join(rows, "\n")
}

// graveRow is a grave with the dead player's name resolved.
type graveRow struct {
	Name    string
	Role    string
	Faction game.Faction
	Phase   game.PhaseType
	Day     int
}

func selectGraves(s *game.State) []graveRow {
	rows := make([]graveRow, len(s.Graves))
	for i, g := range s.Graves {
		name := fmt.Sprintf("#%d", g.Player+1)
		if p, ok := s.Player(g.Player); ok {
			name = p.Name
		}
		rows[i] = graveRow{Name: name, Role: g.Role, Faction: g.Faction, Phase: g.DiedPhase, Day: g.Day}
	}
	return rows
}

type graveyardMenu struct {
	regionMenu[[]graveRow]
}

func newGraveyardMenu(e *env) *graveyardMenu {
	g := &graveyardMenu{}
	g.env, g.titleKey = e, "menu.graveyard.title"
	g.region = subscribe.NewRegion(e.Store, subscribe.Pure(selectGraves),
		game.Of(game.CategoryGraveyard, game.CategoryPlayerList), g.render, nil,
		subscribe.RequireReady[[]graveRow]())
	return g
}

func (g *graveyardMenu) render(rows []graveRow, ok bool, err error, _, height int) string {
	e := g.env
	if err != nil {
		return regionError(e, err)
	}
	if !ok || len(rows) == 0 {
		return mutedStyle.Render(e.t("menu.graveyard.empty"))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s  %s (%s)  %s %d %s",
			deadStyle.Render(r.Name), r.Role, e.t("faction."+string(r.Faction)),
			e.t("menu.header.day"), r.Day, mutedStyle.Render(e.t("phase."+string(r.Phase)))))
	}
	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}
