package panels

// Handle keeps a coordinator alive across rebuilds of the screen that owns
// it. Screens declare one as a package-level variable; each rebuild calls
// Use with the capacity that fits the current viewport.
type Handle[ID comparable] struct {
	c *Coordinator[ID]
}

// Use returns the held coordinator, creating it from ids and initial on the
// first call. Later calls only apply maxOpen, which keeps as many of the
// already open panels as still fit.
func (h *Handle[ID]) Use(maxOpen int, ids []ID, initial map[ID]bool, opts ...Option) *Coordinator[ID] {
	if h.c == nil {
		h.c = New(maxOpen, ids, initial, opts...)
		return h.c
	}
	h.c.SetMaxOpen(maxOpen)
	return h.c
}

// Get returns the held coordinator, or nil before the first Use.
func (h *Handle[ID]) Get() *Coordinator[ID] { return h.c }

// Reset forgets the coordinator so the next Use starts from its initial set.
func (h *Handle[ID]) Reset() { h.c = nil }
