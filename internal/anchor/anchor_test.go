package anchor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type screen struct {
	name     string
	mounts   int
	unmounts int
	onMount  func(ctrl Controller[*screen]) error
}

func (s *screen) Mount(ctrl Controller[*screen]) error {
	s.mounts++
	if s.onMount != nil {
		return s.onMount(ctrl)
	}
	return nil
}

func (s *screen) Unmount() { s.unmounts++ }

func TestWritesBeforeInstallFail(t *testing.T) {
	a := New(&screen{name: "start"})
	require.ErrorIs(t, a.SetContent(&screen{name: "x"}), ErrNotInstalled)
	require.ErrorIs(t, a.SetCoverCard(&screen{name: "m"}), ErrNotInstalled)
	require.ErrorIs(t, a.ClearCoverCard(), ErrNotInstalled)
	require.Equal(t, "start", a.Content().name)
}

func TestContentAndCoverAreIndependent(t *testing.T) {
	start := &screen{name: "Screen0"}
	a := New(start)
	require.Equal(t, "Screen0", a.Content().name)
	require.NoError(t, a.Install())
	require.Equal(t, 1, start.mounts)

	require.NoError(t, a.SetContent(&screen{name: "Screen1"}))
	require.Equal(t, "Screen1", a.Content().name)
	require.Equal(t, 1, start.unmounts)

	modal := &screen{name: "Modal1"}
	require.NoError(t, a.SetCoverCard(modal))
	require.Equal(t, "Screen1", a.Content().name)
	cover, ok := a.CoverCard()
	require.True(t, ok)
	require.Same(t, modal, cover)

	require.NoError(t, a.ClearCoverCard())
	_, ok = a.CoverCard()
	require.False(t, ok)
	require.Equal(t, 1, modal.unmounts)
	require.Equal(t, "Screen1", a.Content().name)
}

func TestReentrantSetContentIsApplied(t *testing.T) {
	final := &screen{name: "final"}
	redirect := &screen{name: "redirect", onMount: func(ctrl Controller[*screen]) error {
		return ctrl.SetContent(final)
	}}
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())
	require.NoError(t, a.SetContent(redirect))
	require.Same(t, final, a.Content())
	require.Equal(t, 1, redirect.unmounts)
}

func TestReentrantLoopIsCapped(t *testing.T) {
	var ping, pong *screen
	ping = &screen{name: "ping", onMount: func(ctrl Controller[*screen]) error { return ctrl.SetContent(pong) }}
	pong = &screen{name: "pong", onMount: func(ctrl Controller[*screen]) error { return ctrl.SetContent(ping) }}

	a := New(&screen{name: "start"}, WithMaxDepth(4))
	require.NoError(t, a.Install())
	err := a.SetContent(ping)
	require.ErrorIs(t, err, ErrReentrantDepth)
	require.Equal(t, 4, ping.mounts+pong.mounts)
	require.NoError(t, a.SetContent(&screen{name: "after"}))
	require.Equal(t, "after", a.Content().name)
}

func TestStaleTicketIsDropped(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())

	ticket, err := a.Begin(&screen{name: "loading"})
	require.NoError(t, err)
	require.True(t, a.Current(ticket))

	require.NoError(t, a.SetContent(&screen{name: "elsewhere"}))
	applied, err := a.Complete(ticket, &screen{name: "lobby"})
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, "elsewhere", a.Content().name)
}

func TestTicketStaleAfterUninstall(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())
	ticket, err := a.Begin(&screen{name: "loading"})
	require.NoError(t, err)
	a.Uninstall()

	applied, err := a.Complete(ticket, &screen{name: "lobby"})
	require.NoError(t, err)
	require.False(t, applied)
	require.Zero(t, Ticket{}.generation)
	require.False(t, a.Current(Ticket{}))
}

func TestCoverCardSurvivesNavigation(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())
	require.NoError(t, a.SetCoverCard(&screen{name: "wiki"}))
	ticket, err := a.Begin(&screen{name: "loading"})
	require.NoError(t, err)
	applied, err := a.Complete(ticket, &screen{name: "lobby"})
	require.NoError(t, err)
	require.True(t, applied)
	cover, ok := a.CoverCard()
	require.True(t, ok)
	require.Equal(t, "wiki", cover.name)
}

func TestNavigate(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())

	var sawLoading string
	applied, err := a.Navigate(context.Background(),
		&screen{name: "loading"},
		func(context.Context) error { sawLoading = a.Content().name; return nil },
		func() *screen { return &screen{name: "lobby"} },
		&screen{name: "start"},
	)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, "loading", sawLoading)
	require.Equal(t, "lobby", a.Content().name)

	boom := errors.New("offline")
	applied, err = a.Navigate(context.Background(),
		&screen{name: "loading"},
		func(context.Context) error { return boom },
		func() *screen { return &screen{name: "never"} },
		&screen{name: "start"},
	)
	require.ErrorIs(t, err, boom)
	require.False(t, applied)
	require.Equal(t, "start", a.Content().name)
}

func TestNavigateReportsFailedFallback(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())

	offline := errors.New("offline")
	broken := errors.New("fallback broke")
	applied, err := a.Navigate(context.Background(),
		&screen{name: "loading"},
		func(context.Context) error { return offline },
		func() *screen { return &screen{name: "never"} },
		&screen{name: "start", onMount: func(Controller[*screen]) error { return broken }},
	)
	require.False(t, applied)
	require.ErrorIs(t, err, offline)
	require.ErrorIs(t, err, broken)
}

func TestControllerThroughContext(t *testing.T) {
	a := New(&screen{name: "start"})
	require.NoError(t, a.Install())
	ctx := NewContext[*screen](context.Background(), a)

	ctrl, ok := FromContext[*screen](ctx)
	require.True(t, ok)
	require.NoError(t, ctrl.SetContent(&screen{name: "via ctx"}))
	require.Equal(t, "via ctx", a.Content().name)

	_, ok = FromContext[string](ctx)
	require.False(t, ok)
}
