package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/session"
	"github.com/nightfall/mafiatui/internal/tui/widgets"
)

// Screen is anything the anchor can show, as content or as a cover card.
// Screens may also implement anchor.Mounter[Screen] and anchor.Unmounter.
type Screen interface {
	Title() string
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}

// resizer is implemented by screens whose layout depends on the viewport.
type resizer interface {
	Resize()
}

// invalidator is implemented by screens that cache rendered text.
type invalidator interface {
	Invalidate()
}

// backHandler lets a cover card consume esc instead of being dismissed.
type backHandler interface {
	HandleBack() bool
}

type Option func(*App)

// WithAnchor uses a, typically the instance main also placed in the context.
func WithAnchor(a *anchor.Anchor[Screen]) Option {
	return func(app *App) {
		if a != nil {
			app.anchor = a
		}
	}
}

// WithContext sets the context handed to session and database calls. A
// controller stored with anchor.NewContext becomes the screens' controller.
func WithContext(ctx context.Context) Option {
	return func(app *App) {
		if ctx != nil {
			app.env.ctx = ctx
		}
	}
}

// App is the root bubbletea model.
type App struct {
	env      *env
	anchor   *anchor.Anchor[Screen]
	lastTick time.Time
}

func New(deps Deps, opts ...Option) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.UI.Tick <= 0 {
		deps.Config.UI.Tick = time.Second
	}
	a := &App{env: &env{Deps: deps, ctx: context.Background(), width: 80, height: 24}}
	for _, opt := range opts {
		opt(a)
	}
	if a.anchor == nil {
		a.anchor = anchor.New[Screen](nil, anchor.WithLogger(deps.Logger))
	}
	a.env.ctrl = a.anchor
	if ctrl, ok := anchor.FromContext[Screen](a.env.ctx); ok {
		a.env.ctrl = ctrl
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if err := a.anchor.Install(); err != nil {
		a.env.fail("install", err)
	}
	a.env.setContent(newStartMenu(a.env))
	return tea.Batch(
		tickCmd(a.env.Config.UI.Tick),
		waitForEvent(a.env.Session.Events()),
		a.loadLayoutCmd(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := a.env
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		e.width, e.height = m.Width, m.Height
		e.mobile = m.Width < e.Config.UI.MobileWidth
		if r, ok := a.anchor.Content().(resizer); ok {
			r.Resize()
		}
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tickMsg:
		now := time.Time(m)
		if !a.lastTick.IsZero() {
			e.Store.Tick(now.Sub(a.lastTick))
		}
		a.lastTick = now
		return a, tickCmd(e.Config.UI.Tick)
	case sessionEventMsg:
		a.handleEvent(session.Event(m))
		return a, waitForEvent(e.Session.Events())
	case navigateMsg:
		return a, a.begin(m)
	case navDoneMsg:
		a.complete(m)
		return a, nil
	case statusMsg:
		e.status, e.statusErr = m.text, m.isErr
		return a, nil
	case errMsg:
		e.fail(m.what, m.err)
		return a, nil
	case localeChangedMsg:
		if inv, ok := a.anchor.Content().(invalidator); ok {
			inv.Invalidate()
		}
		return a, nil
	case layoutLoadedMsg:
		if m.found {
			e.savedLayout = m.panels
		}
		return a, nil
	}

	var cmds []tea.Cmd
	if cover, ok := a.anchor.CoverCard(); ok {
		cmds = append(cmds, cover.Update(msg))
	}
	if content := a.anchor.Content(); content != nil {
		cmds = append(cmds, content.Update(msg))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if key.Matches(m, keys.Quit) {
		return tea.Quit
	}
	if cover, ok := a.anchor.CoverCard(); ok {
		if key.Matches(m, keys.Back) {
			if bh, ok := cover.(backHandler); ok && bh.HandleBack() {
				return nil
			}
			if err := a.env.ctrl.ClearCoverCard(); err != nil {
				a.env.fail("close "+cover.Title(), err)
			}
			return nil
		}
		return cover.Update(m)
	}
	if content := a.anchor.Content(); content != nil {
		return content.Update(m)
	}
	return nil
}

func (a *App) handleEvent(ev session.Event) {
	e := a.env
	if len(ev.Updates) > 0 {
		e.Store.Apply(ev.Updates...)
	}
	if ev.Rejected != "" {
		e.status, e.statusErr = "join rejected: "+ev.Rejected, true
	}
	if ev.Err != nil {
		e.fail("connection", ev.Err)
	}
}

// begin shows the loading screen and runs the navigation's action off the
// UI goroutine.
func (a *App) begin(nav navigateMsg) tea.Cmd {
	t, err := a.anchor.Begin(nav.loading)
	if err != nil {
		a.env.fail(nav.what, err)
		return nil
	}
	ctx := a.env.ctx
	return func() tea.Msg {
		return navDoneMsg{ticket: t, nav: nav, err: nav.action(ctx)}
	}
}

func (a *App) complete(m navDoneMsg) {
	e := a.env
	if m.err != nil {
		if a.anchor.Current(m.ticket) {
			e.setContent(m.nav.fallback())
		}
		e.fail(m.nav.what, m.err)
		return
	}
	if _, err := a.anchor.Complete(m.ticket, m.nav.next()); err != nil {
		e.fail(m.nav.what, err)
	}
}

func (a *App) loadLayoutCmd() tea.Cmd {
	repo := a.env.Repos.Layouts
	if repo == nil {
		return nil
	}
	ctx := a.env.ctx
	return func() tea.Msg {
		layout, found, err := repo.Load(ctx, layoutScreen)
		if err != nil {
			return errMsg{what: "load panel layout", err: err}
		}
		var menus []ContentMenu
		for _, name := range layout.Panels {
			if m, ok := parseContentMenu(name); ok {
				menus = append(menus, m)
			}
		}
		return layoutLoadedMsg{panels: menus, found: found && len(menus) > 0}
	}
}

func (a *App) View() string {
	e := a.env
	w, h := e.width, max(1, e.height-1)
	body := ""
	if content := a.anchor.Content(); content != nil {
		body = content.View(w, h)
	}
	if cover, ok := a.anchor.CoverCard(); ok {
		cw, ch := coverSize(w, h, e.mobile)
		body = widgets.RenderCoverCard(body, cover.View(cw, ch), w, h)
	} else {
		body = lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(body)
	}
	return body + "\n" + a.statusLine(w)
}

// coverSize is the body area available to a cover card.
func coverSize(w, h int, mobile bool) (int, int) {
	fw, fh := widgets.CardChrome()
	cw, ch := w-fw, h-fh
	if !mobile {
		cw, ch = min(cw-4, 72), min(ch-2, 22)
	}
	return max(10, cw), max(3, ch)
}

func (a *App) statusLine(width int) string {
	e := a.env
	if e.status == "" {
		if _, ok := a.anchor.Content().(*startMenu); ok {
			return mutedStyle.Render(ansi.Truncate(e.t("menu.footer"), width, "…"))
		}
		return ""
	}
	style := statusStyle
	if e.statusErr {
		style = statusErrBar
	}
	return style.Width(width).Render(ansi.Truncate(e.status, width, "…"))
}

// Content returns the anchored screen. Used by tests and main.
func (a *App) Content() Screen { return a.anchor.Content() }

// CoverCard returns the cover card, if one is shown.
func (a *App) CoverCard() (Screen, bool) { return a.anchor.CoverCard() }

// Status returns the status bar text and whether it reports an error.
func (a *App) Status() (string, bool) { return a.env.status, a.env.statusErr }
