package subscribe

import "github.com/nightfall/mafiatui/internal/game"

// RenderFunc draws a region from its derived value. ok is false while the
// subscription has no value; err carries a selector failure.
type RenderFunc[T any] func(v T, ok bool, err error, width, height int) string

// Region caches the rendered output of one subscription. It draws again only
// after the subscription reported a change or the available size moved.
type Region[T any] struct {
	sub     *Subscription[T]
	render  RenderFunc[T]
	dirty   bool
	width   int
	height  int
	cached  string
	renders int
	notify  func()
}

// NewRegion builds a region over a fresh subscription. notify, when set, is
// called each time the region becomes dirty.
func NewRegion[T any](src game.Source, sel Selector[T], cats game.Categories, render RenderFunc[T], notify func(), opts ...Option[T]) *Region[T] {
	r := &Region[T]{render: render, dirty: true, notify: notify}
	opts = append(opts, OnChange(func(Event[T]) { r.markDirty() }))
	r.sub = New(src, sel, cats, opts...)
	return r
}

func (r *Region[T]) Mount() error {
	r.dirty = true
	return r.sub.Mount()
}

func (r *Region[T]) Unmount() { r.sub.Unmount() }

func (r *Region[T]) Subscription() *Subscription[T] { return r.sub }

func (r *Region[T]) Dirty() bool { return r.dirty }

// Invalidate forces the next View to draw, e.g. after a locale change.
func (r *Region[T]) Invalidate() { r.markDirty() }

// Renders counts how many times the render function ran.
func (r *Region[T]) Renders() int { return r.renders }

func (r *Region[T]) View(width, height int) string {
	if !r.dirty && width == r.width && height == r.height {
		return r.cached
	}
	v, ok := r.sub.Value()
	r.cached = r.render(v, ok, r.sub.Err(), width, height)
	r.width, r.height = width, height
	r.dirty = false
	r.renders++
	return r.cached
}

func (r *Region[T]) markDirty() {
	r.dirty = true
	if r.notify != nil {
		r.notify()
	}
}
