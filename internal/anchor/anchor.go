// Package anchor holds the one slot at the top of the UI: the screen being
// shown and an optional cover card drawn over it.
package anchor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNotInstalled is returned by writes made before Install.
	ErrNotInstalled = errors.New("anchor: not installed")
	// ErrReentrantDepth is returned when content keeps replacing itself from
	// its own Mount beyond the configured depth.
	ErrReentrantDepth = errors.New("anchor: re-entrant content replacement too deep")
)

const defaultMaxDepth = 8

// Controller is the capability handed to screens. It is the only way code
// outside this package writes to the anchor.
type Controller[N any] interface {
	SetContent(n N) error
	SetCoverCard(n N) error
	ClearCoverCard() error
}

// Mounter is implemented by content that wants to run once it becomes the
// anchor's content. Mount may call back into the controller.
type Mounter[N any] interface {
	Mount(ctrl Controller[N]) error
}

// Unmounter is implemented by content that releases resources when replaced.
type Unmounter interface {
	Unmount()
}

type Option func(*config)

type config struct {
	logger   *zap.Logger
	maxDepth int
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxDepth caps how many nested SetContent calls a chain of Mount hooks
// may make.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// Anchor is single-goroutine: every call is expected from the UI loop.
type Anchor[N any] struct {
	cfg        config
	content    N
	cover      N
	hasCover   bool
	installed  bool
	depth      int
	generation uint64
}

func New[N any](initial N, opts ...Option) *Anchor[N] {
	cfg := config{logger: zap.NewNop(), maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Anchor[N]{cfg: cfg, content: initial}
}

// Install mounts the anchor and its initial content.
func (a *Anchor[N]) Install() error {
	if a.installed {
		return nil
	}
	a.installed = true
	a.generation++
	return a.mount(a.content)
}

// Uninstall unmounts the anchor. Outstanding tickets become stale and later
// writes fail with ErrNotInstalled.
func (a *Anchor[N]) Uninstall() {
	if !a.installed {
		return
	}
	a.unmount(a.content)
	if a.hasCover {
		a.unmount(a.cover)
	}
	a.installed = false
	a.generation++
}

func (a *Anchor[N]) Installed() bool { return a.installed }

func (a *Anchor[N]) Content() N { return a.content }

func (a *Anchor[N]) CoverCard() (N, bool) { return a.cover, a.hasCover }

// Generation changes on every content swap and on install/uninstall.
func (a *Anchor[N]) Generation() uint64 { return a.generation }

// SetContent replaces the displayed screen. The cover card is untouched.
func (a *Anchor[N]) SetContent(n N) error {
	if !a.installed {
		a.cfg.logger.Error("content set before install")
		return fmt.Errorf("set content: %w", ErrNotInstalled)
	}
	if a.depth >= a.cfg.maxDepth {
		a.cfg.logger.Error("content replacement loop", zap.Int("depth", a.depth))
		return fmt.Errorf("set content at depth %d: %w", a.depth, ErrReentrantDepth)
	}
	a.depth++
	defer func() { a.depth-- }()

	prev := a.content
	a.content = n
	a.generation++
	a.unmount(prev)
	return a.mount(n)
}

// SetCoverCard raises n over the current content.
func (a *Anchor[N]) SetCoverCard(n N) error {
	if !a.installed {
		a.cfg.logger.Error("cover card set before install")
		return fmt.Errorf("set cover card: %w", ErrNotInstalled)
	}
	if a.hasCover {
		a.unmount(a.cover)
	}
	a.cover, a.hasCover = n, true
	return a.mount(n)
}

// ClearCoverCard dismisses the cover card if one is shown.
func (a *Anchor[N]) ClearCoverCard() error {
	if !a.installed {
		return fmt.Errorf("clear cover card: %w", ErrNotInstalled)
	}
	if !a.hasCover {
		return nil
	}
	prev := a.cover
	var zero N
	a.cover, a.hasCover = zero, false
	a.unmount(prev)
	return nil
}

func (a *Anchor[N]) mount(n N) error {
	if m, ok := any(n).(Mounter[N]); ok {
		return m.Mount(a)
	}
	return nil
}

func (a *Anchor[N]) unmount(n N) {
	if u, ok := any(n).(Unmounter); ok {
		u.Unmount()
	}
}

type ctxKey struct{}

// NewContext returns a context carrying ctrl.
func NewContext[N any](ctx context.Context, ctrl Controller[N]) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctrl)
}

// FromContext returns the controller stored by NewContext.
func FromContext[N any](ctx context.Context) (Controller[N], bool) {
	ctrl, ok := ctx.Value(ctxKey{}).(Controller[N])
	return ctrl, ok
}
