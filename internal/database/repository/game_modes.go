package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateName is returned when a game mode name is already taken.
var ErrDuplicateName = errors.New("game mode name already exists")

// GameModeRepo handles saved game mode presets.
type GameModeRepo struct {
	db DBTX
}

// NewGameModeRepo works on a pool or inside a caller's transaction.
func NewGameModeRepo(db DBTX) *GameModeRepo { return &GameModeRepo{db: db} }

func (r *GameModeRepo) Upsert(ctx context.Context, g GameMode) error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return fmt.Errorf("game mode name required")
	}
	times, err := json.Marshal(g.PhaseTimes)
	if err != nil {
		return fmt.Errorf("encode phase times: %w", err)
	}
	roles := g.Roles
	if roles == nil {
		roles = []string{}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}

	// the name check and the write must see the same snapshot
	return atomically(ctx, r.db, func(q DBTX) error {
		existing, err := byName(ctx, q, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != g.ID {
			return fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
		_, err = q.ExecContext(ctx, `
		INSERT INTO game_modes(id, name, phase_times, roles, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		 name=excluded.name,
		 phase_times=excluded.phase_times,
		 roles=excluded.roles,
		 updated_at=CURRENT_TIMESTAMP;
		`, g.ID, name, string(times), string(rolesJSON))
		return err
	})
}

func (r *GameModeRepo) ByName(ctx context.Context, name string) (*GameMode, error) {
	return byName(ctx, r.db, name)
}

func byName(ctx context.Context, q DBTX, name string) (*GameMode, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name, phase_times, roles, created_at, updated_at FROM game_modes WHERE name = ?`, strings.TrimSpace(name))
	g, err := scanGameMode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameModeRepo) List(ctx context.Context) ([]GameMode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, phase_times, roles, created_at, updated_at FROM game_modes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GameMode
	for rows.Next() {
		g, err := scanGameMode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GameModeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM game_modes WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGameMode(s scanner) (GameMode, error) {
	var g GameMode
	var times, roles string
	if err := s.Scan(&g.ID, &g.Name, &times, &roles, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return GameMode{}, err
	}
	if err := json.Unmarshal([]byte(times), &g.PhaseTimes); err != nil {
		return GameMode{}, fmt.Errorf("decode phase times for %s: %w", g.ID, err)
	}
	if err := json.Unmarshal([]byte(roles), &g.Roles); err != nil {
		return GameMode{}, fmt.Errorf("decode roles for %s: %w", g.ID, err)
	}
	return g, nil
}
