// internal/db/availability.go
package db

import (
	"context"
	"database/sql"
	"time"
)

const availabilityColumns = "pa.id, pa.player_id, pa.match_id, pa.match_line_id, pa.available, pa.response_date"

// ListMatchAvailability returns every raw response for a match with player
// name and cell joined on, ordered by player name.
func (q *Queries) ListMatchAvailability(ctx context.Context, matchID int64) ([]AvailabilityRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+availabilityColumns+`, p.name, p.cell
		FROM player_availability pa
		JOIN players p ON p.id = pa.player_id
		WHERE pa.match_id = ?
		ORDER BY p.name`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []AvailabilityRow
	for rows.Next() {
		var r AvailabilityRow
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.MatchID, &r.MatchLineID,
			&r.Available, &r.ResponseDate, &r.Name, &r.Cell); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// ListPlayerMatchAvailability returns one player's current responses for a match.
func (q *Queries) ListPlayerMatchAvailability(ctx context.Context, matchID, playerID int64) ([]PlayerAvailability, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+availabilityColumns+`
		FROM player_availability pa
		WHERE pa.match_id = ? AND pa.player_id = ?`, matchID, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []PlayerAvailability
	for rows.Next() {
		var r PlayerAvailability
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.MatchID, &r.MatchLineID,
			&r.Available, &r.ResponseDate); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// DeleteAvailability removes the row keyed by (player, match, line-or-NULL).
// The explicit IS NULL branch is what makes the whole-match key unique;
// SQLite's UNIQUE constraint does not compare NULLs.
func (q *Queries) DeleteAvailability(ctx context.Context, playerID, matchID int64, lineID sql.NullInt64) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM player_availability
		WHERE player_id = ? AND match_id = ?
		  AND (match_line_id = ? OR (match_line_id IS NULL AND ? IS NULL))`,
		playerID, matchID, lineID, lineID)
	return err
}

func (q *Queries) CreateAvailability(ctx context.Context, playerID, matchID int64, lineID sql.NullInt64, available bool, responseDate time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO player_availability (player_id, match_id, match_line_id, available, response_date)
		VALUES (?, ?, ?, ?, ?)`,
		playerID, matchID, lineID, available, responseDate)
	return err
}
