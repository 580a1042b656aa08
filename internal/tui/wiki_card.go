package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nightfall/mafiatui/internal/wiki"
)

// Letters go to the search box, so only the arrow keys move the selection.
var (
	wikiUp   = key.NewBinding(key.WithKeys("up"))
	wikiDown = key.NewBinding(key.WithKeys("down"))
)

type wikiCard struct {
	env     *env
	input   textinput.Model
	results []wiki.Result
	cursor  int
}

func newWikiCard(e *env) *wikiCard {
	in := textinput.New()
	in.Prompt = e.t("menu.wiki.search") + ": "
	in.CharLimit = 40
	in.Focus()
	w := &wikiCard{env: e, input: in}
	w.search()
	return w
}

func (w *wikiCard) Title() string { return w.env.t("menu.wiki.title") }

func (w *wikiCard) search() {
	w.cursor = 0
	if w.env.Wiki == nil {
		w.results = nil
		return
	}
	w.results = w.env.Wiki.Search(w.input.Value())
}

func (w *wikiCard) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(m, wikiUp):
			w.cursor = max(0, w.cursor-1)
			return nil
		case key.Matches(m, wikiDown):
			w.cursor = min(max(0, len(w.results)-1), w.cursor+1)
			return nil
		}
	}
	before := w.input.Value()
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.input.Value() != before {
		w.search()
	}
	return cmd
}

func (w *wikiCard) View(width, height int) string {
	e := w.env
	head := titleStyle.Render(w.Title()) + "\n" + w.input.View() + "\n"
	if len(w.results) == 0 {
		return head + "\n" + mutedStyle.Render(e.t("menu.wiki.noResults"))
	}

	listW := min(20, width/3)
	bodyH := max(1, height-4)
	rows := make([]string, 0, len(w.results))
	for i, r := range w.results {
		line := r.Article.Title
		if i == w.cursor {
			line = selected.Render(line)
		}
		rows = append(rows, line)
	}
	start := max(0, w.cursor-bodyH+1)
	rows = rows[start:min(len(rows), start+bodyH)]

	a := w.results[w.cursor].Article
	meta := string(a.Kind)
	if a.Faction != "" {
		meta = e.t("faction."+string(a.Faction)) + " " + meta
	}
	article := lipgloss.NewStyle().Width(max(10, width-listW-2)).Render(
		titleStyle.Render(a.Title) + "\n" + mutedStyle.Render(meta) + "\n\n" + textStyle.Render(a.Body))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listW).Render(strings.Join(rows, "\n")),
		"  ",
		article)
	return head + "\n" + body + "\n" + mutedStyle.Render(e.t("menu.wiki.help"))
}
