package anchor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Ticket identifies one in-flight navigation started by Begin.
type Ticket struct {
	generation uint64
}

// Begin shows the loading placeholder and returns a ticket for Complete.
func (a *Anchor[N]) Begin(loading N) (Ticket, error) {
	if err := a.SetContent(loading); err != nil {
		return Ticket{}, err
	}
	return Ticket{generation: a.generation}, nil
}

// Current reports whether nothing has replaced the content since t was issued
// and the anchor is still installed.
func (a *Anchor[N]) Current(t Ticket) bool {
	return a.installed && t.generation != 0 && t.generation == a.generation
}

// Complete shows next if t is still current. A stale ticket is dropped and
// reported as (false, nil).
func (a *Anchor[N]) Complete(t Ticket, next N) (bool, error) {
	if !a.Current(t) {
		a.cfg.logger.Debug("dropping stale navigation", zap.Uint64("ticket", t.generation), zap.Uint64("generation", a.generation))
		return false, nil
	}
	if err := a.SetContent(next); err != nil {
		return false, err
	}
	return true, nil
}

// Navigate runs the loading, await, swap sequence in one call: it shows
// loading, waits for action, then shows next() unless something else took
// over the anchor meanwhile. If action fails the loading screen is replaced
// by fallback.
func (a *Anchor[N]) Navigate(ctx context.Context, loading N, action func(context.Context) error, next func() N, fallback N) (bool, error) {
	t, err := a.Begin(loading)
	if err != nil {
		return false, err
	}
	if err := action(ctx); err != nil {
		if a.Current(t) {
			if ferr := a.SetContent(fallback); ferr != nil {
				return false, errors.Join(err, fmt.Errorf("show fallback: %w", ferr))
			}
		}
		return false, err
	}
	return a.Complete(t, next())
}
