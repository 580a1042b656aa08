// Package widgets contains stateless render primitives: pane chrome, stacks
// and the cover card compositor. Nothing here handles keys or game state.
package widgets
