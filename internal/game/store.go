package game

import (
	"time"

	"go.uber.org/zap"
)

// Listener is told which categories an update touched.
type Listener func(changed Categories)

// Source is the read side of the store that subscriptions depend on.
type Source interface {
	Current() (*State, bool)
	OnUpdate(fn Listener) (unsubscribe func())
}

// Update mutates a private copy of the state and reports what it changed.
type Update func(s *State) Categories

type listenerEntry struct {
	id int
	fn Listener
}

// Store owns the authoritative State. It is not safe for concurrent use:
// every call is expected on the UI goroutine, between renders.
type Store struct {
	state     *State
	listeners []listenerEntry
	nextID    int
	logger    *zap.Logger
}

type StoreOption func(*Store)

func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest snapshot, or false before the first update.
func (s *Store) Current() (*State, bool) {
	if s.state == nil {
		return nil, false
	}
	return s.state, true
}

// OnUpdate registers fn. Listeners run synchronously, in registration order,
// inside Apply and Tick.
func (s *Store) OnUpdate(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	released := false
	return func() {
		if released {
			return
		}
		released = true
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners reports how many listeners are registered.
func (s *Store) Listeners() int { return len(s.listeners) }

// Apply runs the updates against a copy of the current state, publishes the
// copy and notifies listeners once with the union of changed categories.
func (s *Store) Apply(updates ...Update) Categories {
	var next *State
	var changed Categories
	if s.state == nil {
		next = &State{}
		changed = changed.With(CategoryGameState)
	} else {
		next = s.state.clone()
	}
	for _, u := range updates {
		if u == nil {
			continue
		}
		changed = changed.Union(u(next))
	}
	normalize(next)
	if changed.Empty() {
		return changed
	}
	s.state = next
	s.dispatch(changed)
	return changed
}

// Tick advances the phase clock. It never lets TimeLeftMs go below zero and
// does nothing outside a game.
func (s *Store) Tick(elapsed time.Duration) Categories {
	if s.state == nil || !s.state.Spectating || elapsed <= 0 {
		return 0
	}
	next := s.state.clone()
	next.TimeLeftMs -= elapsed.Milliseconds()
	if next.TimeLeftMs < 0 {
		next.TimeLeftMs = 0
	}
	changed := Of(CategoryTick)
	s.state = next
	s.dispatch(changed)
	return changed
}

// Reset drops the snapshot entirely; subscriptions that require a ready
// state go back to having no value.
func (s *Store) Reset() {
	if s.state == nil {
		return
	}
	s.state = nil
	s.dispatch(AllCategories())
}

func (s *Store) dispatch(changed Categories) {
	s.logger.Debug("store update", zap.String("categories", changed.String()), zap.Int("listeners", len(s.listeners)))
	snapshot := make([]listenerEntry, len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		if !s.registered(l.id) {
			continue
		}
		l.fn(changed)
	}
}

func (s *Store) registered(id int) bool {
	for _, l := range s.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func normalize(st *State) {
	if st.PhaseTimes == nil {
		st.PhaseTimes = DefaultPhaseTimes()
	}
	if !st.Phase.Type.Valid() {
		st.Phase.Type = PhaseBriefing
	}
	if _, ok := st.PhaseTimes[st.Phase.Type]; !ok {
		st.PhaseTimes[st.Phase.Type] = DefaultPhaseTimes()[st.Phase.Type]
	}
	if st.TimeLeftMs < 0 {
		st.TimeLeftMs = 0
	}
}
