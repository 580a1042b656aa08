package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/panels"
	"github.com/nightfall/mafiatui/internal/subscribe"
	"github.com/nightfall/mafiatui/internal/tui/widgets"
)

// ContentMenu names a panel of the spectator screen.
type ContentMenu int

const (
	ChatMenu ContentMenu = iota
	PlayerListMenu
	GraveyardMenu
)

var allContentMenus = []ContentMenu{ChatMenu, PlayerListMenu, GraveyardMenu}

var contentMenuNames = map[ContentMenu]string{
	ChatMenu:       "chat",
	PlayerListMenu: "playerList",
	GraveyardMenu:  "graveyard",
}

func (m ContentMenu) String() string {
	if name, ok := contentMenuNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ContentMenu(%d)", int(m))
}

func parseContentMenu(name string) (ContentMenu, bool) {
	for m, n := range contentMenuNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// contentMenus outlives spectator screens so open panels survive
// reconnects and resizes.
var contentMenus panels.Handle[ContentMenu]

const layoutScreen = "spectator"

func panelCapacity(mobile bool) int {
	if mobile {
		return 2
	}
	return panels.Unlimited
}

func initialPanels(mobile bool) map[ContentMenu]bool {
	return map[ContentMenu]bool{
		ChatMenu:       true,
		PlayerListMenu: true,
		GraveyardMenu:  !mobile,
	}
}

type headerInfo struct {
	Phase       game.PhaseState
	SecondsLeft int64
	Host        string
}

func selectHeader(s *game.State) headerInfo {
	return headerInfo{
		Phase:       s.Phase,
		SecondsLeft: (s.TimeLeftMs + 999) / 1000,
		Host:        s.HostName,
	}
}

// phaseStarted is true while a phase has only just begun, and for the
// whole of the phases that exist to announce something.
func phaseStarted(within int) subscribe.Selector[bool] {
	return subscribe.Pure(func(s *game.State) bool {
		switch s.Phase.Type {
		case game.PhaseBriefing, game.PhaseObituary:
			return true
		}
		return s.SecondsElapsed() < within
	})
}

var phaseCategories = game.Of(game.CategoryPhase, game.CategoryPhaseTimeLeft, game.CategoryTick)

// panelMenu is one of the spectator screen's content panels.
type panelMenu interface {
	Title() string
	Mount() error
	Unmount()
	Invalidate()
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}

type spectatorScreen struct {
	env     *env
	header  *subscribe.Region[headerInfo]
	started *subscribe.Subscription[bool]
	menus   map[ContentMenu]panelMenu
	coord   *panels.Coordinator[ContentMenu]
}

func newSpectatorScreen(e *env) *spectatorScreen {
	s := &spectatorScreen{env: e}
	s.header = subscribe.NewRegion(e.Store, subscribe.Pure(selectHeader), phaseCategories,
		s.renderHeader, nil, subscribe.RequireReady[headerInfo]())
	s.started = subscribe.New(e.Store, phaseStarted(e.Config.UI.StartPhaseScreenSeconds), phaseCategories,
		subscribe.RequireReady[bool]())
	s.menus = map[ContentMenu]panelMenu{
		ChatMenu:       newChatMenu(e),
		PlayerListMenu: newPlayerListMenu(e),
		GraveyardMenu:  newGraveyardMenu(e),
	}
	return s
}

func (s *spectatorScreen) Title() string { return s.env.t("menu.header.spectating") }

func (s *spectatorScreen) Mount(anchor.Controller[Screen]) error {
	if err := s.header.Mount(); err != nil {
		return err
	}
	if err := s.started.Mount(); err != nil {
		return err
	}
	for _, id := range allContentMenus {
		if err := s.menus[id].Mount(); err != nil {
			return fmt.Errorf("mount %s: %w", id, err)
		}
	}
	e := s.env
	s.coord = contentMenus.Use(panelCapacity(e.mobile), allContentMenus, s.initial(),
		panels.WithLogger(e.Logger),
		panels.OnChange(func() { e.layoutDirty = true }))
	return nil
}

// initial restores the saved desktop layout when there is one.
func (s *spectatorScreen) initial() map[ContentMenu]bool {
	e := s.env
	if e.mobile || len(e.savedLayout) == 0 {
		return initialPanels(e.mobile)
	}
	open := make(map[ContentMenu]bool, len(e.savedLayout))
	for _, m := range e.savedLayout {
		open[m] = true
	}
	return open
}

func (s *spectatorScreen) Unmount() {
	s.header.Unmount()
	s.started.Unmount()
	for _, m := range s.menus {
		m.Unmount()
	}
}

func (s *spectatorScreen) Resize() {
	s.coord = contentMenus.Use(panelCapacity(s.env.mobile), allContentMenus, initialPanels(s.env.mobile))
	s.env.layoutDirty = false
}

func (s *spectatorScreen) Invalidate() {
	s.header.Invalidate()
	for _, m := range s.menus {
		m.Invalidate()
	}
}

func (s *spectatorScreen) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	e := s.env
	switch {
	case key.Matches(m, keys.Chat):
		s.coord.Toggle(ChatMenu)
		return s.persistLayout()
	case key.Matches(m, keys.Players):
		s.coord.Toggle(PlayerListMenu)
		return s.persistLayout()
	case key.Matches(m, keys.Graveyard):
		s.coord.Toggle(GraveyardMenu)
		return s.persistLayout()
	case key.Matches(m, keys.Back):
		// Drop the game locally first so the play menu does not bounce
		// straight back here before the server confirms.
		e.Store.Apply(game.LeaveGame())
		return navigate(navigateMsg{
			what:    "leave game",
			loading: newLoadingScreen(e, ""),
			action: func(ctx context.Context) error {
				if err := e.Session.Leave(ctx); err != nil {
					return err
				}
				return e.Session.SetOutsideLobbyState(ctx)
			},
			next:     func() Screen { return newPlayMenu(e) },
			fallback: func() Screen { return newStartMenu(e) },
		})
	}
	if s.coord.IsOpen(ChatMenu) {
		return s.menus[ChatMenu].Update(msg)
	}
	return nil
}

// persistLayout saves the open desktop panels after the user changed them.
func (s *spectatorScreen) persistLayout() tea.Cmd {
	e := s.env
	if !e.layoutDirty {
		return nil
	}
	e.layoutDirty = false
	if e.mobile {
		return nil
	}
	open := s.coord.OpenPanels()
	e.savedLayout = open
	repo := e.Repos.Layouts
	if repo == nil {
		return nil
	}
	names := make([]string, len(open))
	for i, m := range open {
		names[i] = m.String()
	}
	ctx := e.ctx
	return func() tea.Msg {
		if err := repo.Save(ctx, repository.PanelLayout{Screen: layoutScreen, Panels: names}); err != nil {
			return errMsg{what: "save panel layout", err: err}
		}
		return nil
	}
}

func (s *spectatorScreen) renderHeader(h headerInfo, ok bool, err error, width, _ int) string {
	e := s.env
	var text string
	switch {
	case err != nil:
		text = e.t("menu.error.region")
	case !ok:
		text = e.t("menu.header.spectating")
	default:
		text = fmt.Sprintf("%s %s  |  %s %d  %s  |  %ds %s",
			e.t("menu.header.spectating"), h.Host,
			e.t("menu.header.day"), h.Phase.Day, e.t("phase."+string(h.Phase.Type)),
			h.SecondsLeft, e.t("menu.header.timeLeft"))
	}
	return headerStyle.Width(width).MaxWidth(width).Render(text)
}

func (s *spectatorScreen) View(width, height int) string {
	e := s.env
	header := s.header.View(width, 1)
	help := mutedStyle.Render(e.t("menu.gameScreen.help"))
	bodyH := max(3, height-2)

	var body string
	if started, _ := s.started.Value(); started {
		info, _ := s.header.Subscription().Value()
		body = phaseStartedView(e, info, width, bodyH)
	} else {
		body = s.panelsView(width, bodyH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (s *spectatorScreen) panelsView(width, height int) string {
	var open []widgets.Widget
	for _, id := range allContentMenus {
		if !s.coord.IsOpen(id) {
			continue
		}
		menu := s.menus[id]
		open = append(open, widgets.Func(func(w, h int) string {
			return widgets.Pane{Title: menu.Title(), Content: menu.View(w-4, h-2)}.Render(w, h)
		}))
	}
	if len(open) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			mutedStyle.Render(s.env.t("menu.gameScreen.help")))
	}
	if s.env.mobile {
		return widgets.VStack{Widgets: open}.Render(width, height)
	}
	return widgets.HStack{Widgets: open, Gap: 1}.Render(width, height)
}

// phaseStartedView announces the phase that just began in place of the
// panels.
func phaseStartedView(e *env, h headerInfo, width, height int) string {
	title := bigTitle.Render(e.t("phase." + string(h.Phase.Type)))
	day := mutedStyle.Render(fmt.Sprintf("%s %d", e.t("menu.header.day"), h.Phase.Day))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, day))
}
