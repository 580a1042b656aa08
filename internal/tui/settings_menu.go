package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/lang"
)

type settingsMenu struct {
	env     *env
	locales []lang.Locale
	cursor  int
}

func newSettingsMenu(e *env) *settingsMenu {
	s := &settingsMenu{env: e, locales: e.Lang.Locales()}
	for i, l := range s.locales {
		if l.Tag == e.Lang.Active() {
			s.cursor = i
		}
	}
	return s
}

func (s *settingsMenu) Title() string { return s.env.t("menu.settings.title") }

func (s *settingsMenu) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(m, keys.Up):
		s.cursor = max(0, s.cursor-1)
	case key.Matches(m, keys.Down):
		s.cursor = min(len(s.locales)-1, s.cursor+1)
	case key.Matches(m, keys.Enter):
		if s.cursor < len(s.locales) {
			return s.apply(s.locales[s.cursor].Tag)
		}
	}
	return nil
}

// apply switches the UI language now and persists the choice in the
// background.
func (s *settingsMenu) apply(tag string) tea.Cmd {
	e := s.env
	if err := e.Lang.SetLocale(tag); err != nil {
		e.fail("set language", err)
		return nil
	}
	e.Config.UI.Locale = tag
	cfg, ctx, repo, save := e.Config, e.ctx, e.Repos.Settings, e.SaveConfig
	done := e.t("menu.settings.language") + ": " + tag
	persist := func() tea.Msg {
		if repo != nil {
			if err := repo.Set(ctx, repository.SettingLocale, tag); err != nil {
				return errMsg{what: "save language", err: err}
			}
		}
		if save != nil {
			if err := save(cfg); err != nil {
				return errMsg{what: "write config", err: err}
			}
		}
		return statusMsg{text: done}
	}
	return tea.Batch(func() tea.Msg { return localeChangedMsg{} }, persist)
}

func (s *settingsMenu) View(width, height int) string {
	e := s.env
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title()) + "\n\n")
	b.WriteString(textStyle.Render(e.t("menu.settings.language")) + "\n")
	for i, l := range s.locales {
		mark := "  "
		if l.Tag == e.Lang.Active() {
			mark = "● "
		}
		line := mark + l.Name + mutedStyle.Render(" ("+l.Tag+")")
		if i == s.cursor {
			line = selected.Render(mark+l.Name) + mutedStyle.Render(" ("+l.Tag+")")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render(e.t("menu.settings.help")))
	return b.String()
}
