package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/wiki"
)

type gameModesMsg struct {
	modes  []repository.GameMode
	status string
}

// gameModesEditor lists saved presets and saves the current phase timings
// under a new name.
type gameModesEditor struct {
	env    *env
	modes  []repository.GameMode
	cursor int
	naming bool
	input  textinput.Model
}

func newGameModesEditor(e *env) *gameModesEditor {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 40
	in.Placeholder = e.t("menu.gameModes.namePrompt")
	return &gameModesEditor{env: e, input: in}
}

func (g *gameModesEditor) Title() string { return g.env.t("menu.gameModes.title") }

func (g *gameModesEditor) load() tea.Cmd { return g.reload("") }

func (g *gameModesEditor) reload(status string) tea.Cmd {
	repo, ctx := g.env.Repos.GameModes, g.env.ctx
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		modes, err := repo.List(ctx)
		if err != nil {
			return errMsg{what: "load game modes", err: err}
		}
		return gameModesMsg{modes: modes, status: status}
	}
}

// HandleBack cancels naming before the card itself is dismissed.
func (g *gameModesEditor) HandleBack() bool {
	if !g.naming {
		return false
	}
	g.naming = false
	g.input.Blur()
	return true
}

func (g *gameModesEditor) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case gameModesMsg:
		g.modes = m.modes
		g.cursor = min(g.cursor, max(0, len(g.modes)-1))
		if m.status != "" {
			g.env.setStatus(m.status)
		}
		return nil
	case tea.KeyMsg:
		if g.naming {
			if key.Matches(m, keys.Enter) {
				name := strings.TrimSpace(g.input.Value())
				g.naming = false
				g.input.Blur()
				if name == "" {
					return nil
				}
				return g.save(name)
			}
			var cmd tea.Cmd
			g.input, cmd = g.input.Update(m)
			return cmd
		}
		switch {
		case key.Matches(m, keys.Up):
			g.cursor = max(0, g.cursor-1)
		case key.Matches(m, keys.Down):
			g.cursor = min(max(0, len(g.modes)-1), g.cursor+1)
		case key.Matches(m, keys.New):
			g.naming = true
			g.input.Reset()
			return g.input.Focus()
		case key.Matches(m, keys.Delete):
			return g.deleteSelected()
		}
	}
	return nil
}

func (g *gameModesEditor) save(name string) tea.Cmd {
	repo, ctx := g.env.Repos.GameModes, g.env.ctx
	if repo == nil {
		return nil
	}
	mode := repository.GameMode{
		ID:         uuid.NewString(),
		Name:       name,
		PhaseTimes: g.currentPhaseTimes(),
		Roles:      g.roleList(),
	}
	reload := g.reload("saved " + name)
	return func() tea.Msg {
		if err := repo.Upsert(ctx, mode); err != nil {
			if errors.Is(err, repository.ErrDuplicateName) {
				return statusMsg{text: err.Error(), isErr: true}
			}
			return errMsg{what: "save game mode", err: err}
		}
		return reload()
	}
}

func (g *gameModesEditor) deleteSelected() tea.Cmd {
	repo, ctx := g.env.Repos.GameModes, g.env.ctx
	if repo == nil || g.cursor >= len(g.modes) {
		return nil
	}
	mode := g.modes[g.cursor]
	reload := g.reload("deleted " + mode.Name)
	return func() tea.Msg {
		if err := repo.Delete(ctx, mode.ID); err != nil {
			return errMsg{what: "delete game mode", err: err}
		}
		return reload()
	}
}

// currentPhaseTimes takes the timings of the game being watched, or the
// defaults outside a game.
func (g *gameModesEditor) currentPhaseTimes() map[string]int {
	times := game.DefaultPhaseTimes()
	if st, ok := g.env.Store.Current(); ok && st.Spectating {
		for k, v := range st.PhaseTimes {
			times[k] = v
		}
	}
	out := make(map[string]int, len(times))
	for k, v := range times {
		out[k.String()] = v
	}
	return out
}

func (g *gameModesEditor) roleList() []string {
	if g.env.Wiki == nil {
		return nil
	}
	var roles []string
	for _, a := range g.env.Wiki.Articles() {
		if a.Kind == wiki.KindRole {
			roles = append(roles, a.Slug)
		}
	}
	return roles
}

func (g *gameModesEditor) View(width, height int) string {
	e := g.env
	var b strings.Builder
	b.WriteString(titleStyle.Render(g.Title()) + "\n\n")
	if g.naming {
		b.WriteString(g.input.View() + "\n\n")
	}
	if len(g.modes) == 0 {
		b.WriteString(mutedStyle.Render(e.t("menu.gameModes.empty")) + "\n")
	}
	for i, m := range g.modes {
		line := fmt.Sprintf("%-20s %2d roles", m.Name, len(m.Roles))
		if i == g.cursor {
			line = selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if g.cursor < len(g.modes) {
		b.WriteString("\n" + phaseTimesSummary(e, g.modes[g.cursor].PhaseTimes) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render(e.t("menu.gameModes.help")))
	return b.String()
}

func phaseTimesSummary(e *env, times map[string]int) string {
	parts := make([]string, 0, len(game.PhaseOrder))
	for _, p := range game.PhaseOrder {
		if secs, ok := times[p.String()]; ok && secs > 0 {
			parts = append(parts, fmt.Sprintf("%s %ds", e.t("phase."+p.String()), secs))
		}
	}
	return mutedStyle.Render(strings.Join(parts, ", "))
}
