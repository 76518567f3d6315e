// internal/lineup/assign.go

// Package lineup owns line assignments and the text composed from them.
package lineup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appdb "github.com/courtcall/courtcall/internal/db"
)

var (
	ErrLineNotFound = errors.New("match line not found")

	// ErrCapacityExceeded rejects assignments larger than the line supports.
	// Silently truncating would hide a captain's mistake.
	ErrCapacityExceeded = errors.New("assignment exceeds line capacity")
)

// Capacity returns the player limit for a line type: 1 for singles, 2 for
// doubles.
func Capacity(lineType string) int {
	if lineType == "doubles" {
		return 2
	}
	return 1
}

// Dedupe removes repeated ids preserving first-seen order. Clients resubmit
// the same player twice often enough that this runs before the capacity check.
func Dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Assigner replaces the full assignment set of a match line.
type Assigner struct {
	db *appdb.DB
}

func NewAssigner(database *appdb.DB) *Assigner {
	return &Assigner{db: database}
}

// SetLinePlayers replaces the line's assignments with the given players,
// de-duplicated, positions assigned 1..n in input order. The whole
// replacement is one transaction. Availability is not consulted: captains
// may assign unavailable or no-response players on purpose.
func (a *Assigner) SetLinePlayers(ctx context.Context, lineID int64, playerIDs []int64) error {
	line, err := a.db.Queries.GetMatchLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLineNotFound
		}
		return fmt.Errorf("resolve line: %w", err)
	}

	distinct := Dedupe(playerIDs)
	if len(distinct) > Capacity(line.LineType) {
		return fmt.Errorf("%w: %s line holds %d, got %d distinct players",
			ErrCapacityExceeded, line.LineType, Capacity(line.LineType), len(distinct))
	}

	return a.db.RunInTx(ctx, func(tx *appdb.DB) error {
		if err := tx.Queries.DeleteLinePlayers(ctx, lineID); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		for i, playerID := range distinct {
			if err := tx.Queries.CreateLinePlayer(ctx, lineID, playerID, int64(i+1)); err != nil {
				return fmt.Errorf("assign player %d: %w", playerID, err)
			}
		}
		return nil
	})
}
