package tui

import (
	"context"

	"go.uber.org/zap"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/config"
	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/lang"
	"github.com/nightfall/mafiatui/internal/session"
	"github.com/nightfall/mafiatui/internal/wiki"
)

// Session is the part of session.Manager the screens drive.
type Session interface {
	SetOutsideLobbyState(ctx context.Context) error
	Spectate(ctx context.Context, lobbyID uint32) error
	Leave(ctx context.Context) error
	Events() <-chan session.Event
}

// Locales is the catalog surface the settings card needs.
type Locales interface {
	lang.Translator
	Locales() []lang.Locale
	Active() string
	SetLocale(locale string) error
}

// Repos are optional; a nil repo turns the matching persistence off.
type Repos struct {
	Settings  *repository.SettingsRepo
	GameModes *repository.GameModeRepo
	Layouts   *repository.PanelLayoutRepo
}

// Deps is everything the UI needs from main.
type Deps struct {
	Config  config.Config
	Store   *game.Store
	Session Session
	Lang    Locales
	Repos   Repos
	Wiki    *wiki.Wiki
	Logger  *zap.Logger
	// SaveConfig persists settings changes. Nil skips writing the file.
	SaveConfig func(config.Config) error
}

// env is shared by every screen of one App.
type env struct {
	Deps
	ctx    context.Context
	ctrl   anchor.Controller[Screen]
	width  int
	height int
	mobile bool

	savedLayout []ContentMenu
	layoutDirty bool

	status    string
	statusErr bool
}

func (e *env) t(key string) string { return e.Lang.Translate(key) }

func (e *env) setStatus(text string) {
	e.status, e.statusErr = text, false
}

// fail reports err in the status bar and the log.
func (e *env) fail(msg string, err error) {
	if err == nil {
		return
	}
	e.Logger.Error(msg, zap.Error(err))
	e.status, e.statusErr = msg+": "+err.Error(), true
}

// setContent swaps the anchored screen, reporting failures.
func (e *env) setContent(s Screen) {
	if err := e.ctrl.SetContent(s); err != nil {
		e.fail("show "+s.Title(), err)
	}
}

func (e *env) setCoverCard(s Screen) {
	if err := e.ctrl.SetCoverCard(s); err != nil {
		e.fail("open "+s.Title(), err)
	}
}
