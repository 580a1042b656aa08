package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/game"
)

// SeedDefaults ensures the stock game modes exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	return repository.WithTx(ctx, db, func(tx *sql.Tx) error {
		modes := repository.NewGameModeRepo(tx)
		existing, err := modes.List(ctx)
		if err != nil {
			return fmt.Errorf("list game modes: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}
		for _, d := range defaultModes {
			times := make(map[string]int, len(game.PhaseOrder))
			for phase, secs := range game.DefaultPhaseTimes() {
				times[phase.String()] = int(float64(secs) * d.scale)
			}
			id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("mode:"+d.name)).String()
			if err := modes.Upsert(ctx, repository.GameMode{ID: id, Name: d.name, PhaseTimes: times, Roles: d.roles}); err != nil {
				return fmt.Errorf("seed %s: %w", d.name, err)
			}
		}
		return nil
	})
}

var defaultModes = []struct {
	name  string
	roles []string
	scale float64
}{
	{name: "Classic", roles: []string{"jailor", "doctor", "sheriff", "mafioso", "consort", "jester", "townInvestigative", "townProtective", "any"}, scale: 1},
	{name: "Quick", roles: []string{"sheriff", "doctor", "mafioso", "jester", "any"}, scale: 0.5},
}
