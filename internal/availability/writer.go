// internal/availability/writer.go
package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appdb "github.com/courtcall/courtcall/internal/db"
)

var (
	ErrPlayerNotFound = errors.New("player not found or inactive")
	ErrMatchNotFound  = errors.New("match not found")
)

// ResponseInput is one target of a response batch. A nil MatchLineID targets
// the whole match.
type ResponseInput struct {
	MatchLineID *int64
	Available   bool
}

// Writer is the only mutator of player_availability. Responses are
// replace-on-write: there is no delete-response operation, and "no response"
// is the absence of a row.
type Writer struct {
	db *appdb.DB
}

func NewWriter(database *appdb.DB) *Writer {
	return &Writer{db: database}
}

// Submit applies a batch of responses for one player and one match as a
// single transaction. Each target row is deleted then re-inserted with a
// fresh response timestamp, so resubmitting the same batch is idempotent and
// a failure partway leaves no partial state.
func (w *Writer) Submit(ctx context.Context, playerID, matchID int64, responses []ResponseInput) error {
	if _, err := w.db.Queries.GetActivePlayer(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("resolve player: %w", err)
	}

	if _, err := w.db.Queries.GetMatch(ctx, matchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("resolve match: %w", err)
	}

	now := time.Now().UTC()

	return w.db.RunInTx(ctx, func(tx *appdb.DB) error {
		for _, r := range responses {
			lineID := sql.NullInt64{}
			if r.MatchLineID != nil {
				lineID = sql.NullInt64{Int64: *r.MatchLineID, Valid: true}
			}

			if err := tx.Queries.DeleteAvailability(ctx, playerID, matchID, lineID); err != nil {
				return fmt.Errorf("delete availability: %w", err)
			}
			if err := tx.Queries.CreateAvailability(ctx, playerID, matchID, lineID, r.Available, now); err != nil {
				return fmt.Errorf("insert availability: %w", err)
			}
		}
		return nil
	})
}
