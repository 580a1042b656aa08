package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type startMenu struct {
	env *env
}

func newStartMenu(e *env) *startMenu { return &startMenu{env: e} }

func (s *startMenu) Title() string { return s.env.t("menu.start.title") }

func (s *startMenu) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	e := s.env
	switch {
	case key.Matches(m, keys.Play):
		return navigate(e.playNavigation())
	case key.Matches(m, keys.Settings):
		e.setCoverCard(newSettingsMenu(e))
	case key.Matches(m, keys.GameModes):
		card := newGameModesEditor(e)
		e.setCoverCard(card)
		return card.load()
	case key.Matches(m, keys.Wiki):
		e.setCoverCard(newWikiCard(e))
		return textinput.Blink
	case m.String() == "q":
		return tea.Quit
	}
	return nil
}

func (s *startMenu) View(width, height int) string {
	e := s.env
	title := bigTitle.Render(strings.ToUpper(e.t("menu.start.title")))
	if e.mobile {
		title = titleStyle.Render(e.t("menu.start.title"))
	}

	buttons := []struct {
		k     string
		label string
	}{
		{"p", e.t("menu.start.button.play")},
		{"s", e.t("menu.settings.title")},
		{"e", e.t("menu.globalMenu.gameSettingsEditor")},
		{"w", e.t("menu.wiki.title")},
		{"q", e.t("menu.start.quit")},
	}
	rows := make([]string, len(buttons))
	for i, b := range buttons {
		rows[i] = keyStyle.Render("["+b.k+"]") + " " + textStyle.Render(b.label)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// playNavigation connects, asks for the lobby list and lands on the play
// menu, returning to the start menu if the server is unreachable.
func (e *env) playNavigation() navigateMsg {
	return navigateMsg{
		what:     "connect",
		loading:  newLoadingScreen(e, ""),
		action:   e.Session.SetOutsideLobbyState,
		next:     func() Screen { return newPlayMenu(e) },
		fallback: func() Screen { return newStartMenu(e) },
	}
}

type loadingScreen struct {
	env *env
	key string
}

// newLoadingScreen shows the translated text for key, or the default
// loading text when key is empty.
func newLoadingScreen(e *env, key string) *loadingScreen {
	if key == "" {
		key = "menu.loading.default"
	}
	return &loadingScreen{env: e, key: key}
}

func (l *loadingScreen) Title() string { return l.env.t(l.key) }

func (l *loadingScreen) Update(tea.Msg) tea.Cmd { return nil }

func (l *loadingScreen) View(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, mutedStyle.Render(l.env.t(l.key)))
}
