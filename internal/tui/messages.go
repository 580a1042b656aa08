package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/session"
)

type tickMsg time.Time

type sessionEventMsg session.Event

type statusMsg struct {
	text  string
	isErr bool
}

type errMsg struct {
	what string
	err  error
}

// navigateMsg asks the App to run action behind a loading screen and then
// show next, or fallback if action fails.
type navigateMsg struct {
	loading  Screen
	action   func(context.Context) error
	next     func() Screen
	fallback func() Screen
	what     string
}

type navDoneMsg struct {
	ticket anchor.Ticket
	nav    navigateMsg
	err    error
}

type localeChangedMsg struct{}

type layoutLoadedMsg struct {
	panels []ContentMenu
	found  bool
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForEvent blocks on the session channel and returns one event.
func waitForEvent(ch <-chan session.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg(ev)
	}
}

func navigate(nav navigateMsg) tea.Cmd {
	return func() tea.Msg { return nav }
}
