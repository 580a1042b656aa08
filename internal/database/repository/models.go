package repository

import "time"

// GameMode is a saved preset the game modes editor can load and share.
type GameMode struct {
	ID         string
	Name       string
	PhaseTimes map[string]int
	Roles      []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PanelLayout records which panels a screen had open, oldest first.
type PanelLayout struct {
	Screen string
	Panels []string
}
