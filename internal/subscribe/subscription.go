// Package subscribe binds pure selectors over the game store to UI regions.
//
// A Subscription recomputes only when an update touches one of its declared
// categories, and reports a change only when the recomputed value differs from
// the last one it handed out. Category filtering and value comparison are two
// separate steps; both must pass before OnChange fires.
package subscribe

import (
	"reflect"

	"github.com/nightfall/mafiatui/internal/game"
)

// Selector derives a value from a state snapshot. It must not retain or
// modify the snapshot. Without RequireReady it is called with nil while the
// store is empty.
type Selector[T any] func(s *game.State) (T, error)

// Pure adapts a selector that cannot fail.
func Pure[T any](fn func(s *game.State) T) Selector[T] {
	return func(s *game.State) (T, error) { return fn(s), nil }
}

// Event is delivered to OnChange callbacks.
type Event[T any] struct {
	Value T
	Ready bool
	Err   error
}

type Option[T any] func(*Subscription[T])

// RequireReady keeps the value absent, and the selector uncalled, while the
// store has no state.
func RequireReady[T any]() Option[T] {
	return func(s *Subscription[T]) { s.requireReady = true }
}

// WithComparator replaces the default equality check.
func WithComparator[T any](eq func(a, b T) bool) Option[T] {
	return func(s *Subscription[T]) {
		if eq != nil {
			s.equal = eq
		}
	}
}

// OnChange registers the callback fired after a relevant, value-changing
// recomputation or a selector failure.
func OnChange[T any](fn func(Event[T])) Option[T] {
	return func(s *Subscription[T]) { s.onChange = fn }
}

type Subscription[T any] struct {
	src          game.Source
	selector     Selector[T]
	categories   game.Categories
	requireReady bool
	equal        func(a, b T) bool
	onChange     func(Event[T])

	value      T
	ready      bool
	hadState   bool
	err        error
	recomputes int
	release    func()
}

func New[T any](src game.Source, sel Selector[T], cats game.Categories, opts ...Option[T]) *Subscription[T] {
	s := &Subscription[T]{
		src:        src,
		selector:   sel,
		categories: cats,
		equal:      defaultEqual[T],
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount registers with the store and computes the initial value. Calling it
// on a mounted subscription does nothing.
func (s *Subscription[T]) Mount() error {
	if s.release != nil {
		return nil
	}
	s.release = s.src.OnUpdate(s.handle)
	_, err := s.recompute()
	return err
}

// Unmount releases the store listener. No callback is delivered afterwards.
func (s *Subscription[T]) Unmount() {
	if s.release == nil {
		return
	}
	s.release()
	s.release = nil
}

func (s *Subscription[T]) Mounted() bool { return s.release != nil }

// Value returns the last derived value. ok is false while nothing has been
// derived, which includes the not-ready case.
func (s *Subscription[T]) Value() (v T, ok bool) {
	return s.value, s.ready
}

// Err returns the error from the most recent recomputation.
func (s *Subscription[T]) Err() error { return s.err }

// Recomputes counts selector invocations.
func (s *Subscription[T]) Recomputes() int { return s.recomputes }

func (s *Subscription[T]) Categories() game.Categories { return s.categories }

// Refresh is the two-phase step run for every store update: it ignores
// updates outside the declared categories, then recomputes and compares.
// changed is true only when the derived value moved (or readiness flipped).
func (s *Subscription[T]) Refresh(changed game.Categories) (bool, error) {
	if !s.relevant(changed) {
		return false, nil
	}
	return s.recompute()
}

func (s *Subscription[T]) handle(changed game.Categories) {
	if s.release == nil {
		return
	}
	moved, err := s.Refresh(changed)
	if s.onChange == nil {
		return
	}
	if err != nil || moved {
		s.onChange(Event[T]{Value: s.value, Ready: s.ready, Err: err})
	}
}

// relevant decides phase one. A store that loses or gains its snapshot must
// reach require-ready subscriptions regardless of their categories.
func (s *Subscription[T]) relevant(changed game.Categories) bool {
	if changed.Intersects(s.categories) {
		return true
	}
	if !s.requireReady {
		return false
	}
	_, has := s.src.Current()
	return has != s.hadState
}

func (s *Subscription[T]) recompute() (bool, error) {
	state, has := s.src.Current()
	s.hadState = has
	if !has && s.requireReady {
		wasReady := s.ready
		var zero T
		s.value, s.ready, s.err = zero, false, nil
		return wasReady, nil
	}
	s.recomputes++
	next, err := s.selector(state)
	if err != nil {
		s.err = err
		return false, err
	}
	s.err = nil
	if s.ready && s.equal(s.value, next) {
		return false, nil
	}
	s.value, s.ready = next, true
	return true, nil
}

// defaultEqual uses == when both values can be compared at run time. A
// comparable type may still hold an uncomparable dynamic value in an
// interface field, so the check is on the values, not the type.
func defaultEqual[T any](a, b T) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsValid() && vb.IsValid() && va.Type() == vb.Type() && va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}
