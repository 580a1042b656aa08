package repository

import (
	"context"
	"database/sql"
)

// PanelLayoutRepo remembers which panels each screen had open.
type PanelLayoutRepo struct {
	db *sql.DB
}

func NewPanelLayoutRepo(db *sql.DB) *PanelLayoutRepo { return &PanelLayoutRepo{db: db} }

// Save replaces the stored layout for l.Screen.
func (r *PanelLayoutRepo) Save(ctx context.Context, l PanelLayout) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM panel_layouts WHERE screen = ?`, l.Screen); err != nil {
			return err
		}
		for i, panel := range l.Panels {
			if _, err := tx.ExecContext(ctx, `INSERT INTO panel_layouts(screen, panel, position) VALUES (?, ?, ?)`, l.Screen, panel, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the stored layout; found is false when the screen never saved one.
func (r *PanelLayoutRepo) Load(ctx context.Context, screen string) (layout PanelLayout, found bool, err error) {
	rows, err := r.db.QueryContext(ctx, `SELECT panel FROM panel_layouts WHERE screen = ? ORDER BY position`, screen)
	if err != nil {
		return PanelLayout{}, false, err
	}
	defer rows.Close()
	layout.Screen = screen
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return PanelLayout{}, false, err
		}
		layout.Panels = append(layout.Panels, p)
		found = true
	}
	return layout, found, rows.Err()
}
