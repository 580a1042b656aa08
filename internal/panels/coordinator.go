// Package panels decides which of a screen's optional panels are open.
//
// A Coordinator holds a fixed set of panel ids and never lets more than
// maxOpen of them be open at once. When opening one more would break the
// limit, the panel that has been open the longest is closed first.
package panels

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
)

// Unlimited lifts the capacity limit.
const Unlimited = math.MaxInt

type Option func(*options)

type options struct {
	logger   *zap.Logger
	onChange func()
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// OnChange is called after every operation that changed the open set.
func OnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

type Coordinator[ID comparable] struct {
	ids     []ID
	maxOpen int
	// opened holds the open panels, oldest first.
	opened []ID
	opts   options
}

// New builds a coordinator over ids. Panels marked open in initial are opened
// in the order ids lists them, so when initial asks for more than maxOpen the
// earliest listed ones are the ones evicted.
func New[ID comparable](maxOpen int, ids []ID, initial map[ID]bool, opts ...Option) *Coordinator[ID] {
	c := &Coordinator[ID]{ids: slices.Clone(ids), opts: options{logger: zap.NewNop()}}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.maxOpen = c.sanitize(maxOpen)
	for _, id := range c.ids {
		if initial[id] {
			c.open(id)
		}
	}
	return c
}

func (c *Coordinator[ID]) MaxOpen() int { return c.maxOpen }

func (c *Coordinator[ID]) IsOpen(id ID) bool {
	return slices.Contains(c.opened, id)
}

// Open opens id, evicting the oldest open panel if the limit requires it.
func (c *Coordinator[ID]) Open(id ID) {
	if c.open(id) {
		c.changed()
	}
}

// Close closes id. Closing a closed panel does nothing.
func (c *Coordinator[ID]) Close(id ID) {
	if c.close(id) {
		c.changed()
	}
}

// Toggle closes an open panel, or opens a closed one under the same rule as
// Open.
func (c *Coordinator[ID]) Toggle(id ID) {
	if c.IsOpen(id) {
		c.Close(id)
		return
	}
	c.Open(id)
}

// SetMaxOpen changes the limit and evicts the oldest open panels until the
// open set fits again.
func (c *Coordinator[ID]) SetMaxOpen(n int) {
	n = c.sanitize(n)
	if n == c.maxOpen {
		return
	}
	c.maxOpen = n
	evicted := false
	for len(c.opened) > c.maxOpen {
		c.evictOldest()
		evicted = true
	}
	if evicted {
		c.changed()
	}
}

// OpenPanels lists the open panels, oldest first.
func (c *Coordinator[ID]) OpenPanels() []ID {
	return slices.Clone(c.opened)
}

// Snapshot reports every known panel and whether it is open.
func (c *Coordinator[ID]) Snapshot() map[ID]bool {
	out := make(map[ID]bool, len(c.ids))
	for _, id := range c.ids {
		out[id] = c.IsOpen(id)
	}
	return out
}

func (c *Coordinator[ID]) IDs() []ID { return slices.Clone(c.ids) }

func (c *Coordinator[ID]) open(id ID) bool {
	if !slices.Contains(c.ids, id) {
		c.opts.logger.Warn("ignoring unknown panel", zap.String("panel", fmt.Sprint(id)))
		return false
	}
	if c.IsOpen(id) || c.maxOpen == 0 {
		return false
	}
	for len(c.opened) >= c.maxOpen {
		c.evictOldest()
	}
	c.opened = append(c.opened, id)
	return true
}

func (c *Coordinator[ID]) close(id ID) bool {
	idx := slices.Index(c.opened, id)
	if idx < 0 {
		return false
	}
	c.opened = slices.Delete(c.opened, idx, idx+1)
	return true
}

func (c *Coordinator[ID]) evictOldest() {
	oldest := c.opened[0]
	c.opened = slices.Delete(c.opened, 0, 1)
	c.opts.logger.Debug("evicted panel", zap.String("panel", fmt.Sprint(oldest)), zap.Int("max_open", c.maxOpen))
}

func (c *Coordinator[ID]) sanitize(n int) int {
	if n < 0 {
		c.opts.logger.Warn("negative panel capacity, treating as zero", zap.Int("max_open", n))
		return 0
	}
	return n
}

func (c *Coordinator[ID]) changed() {
	if c.opts.onChange != nil {
		c.opts.onChange()
	}
}
