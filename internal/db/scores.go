// internal/db/scores.go
package db

import (
	"context"
	"database/sql"
)

const scoreColumns = `id, match_line_id, set1_us, set1_them, set2_us, set2_them,
	set3_us, set3_them, result, notes`

func scanScore(row interface{ Scan(...any) error }) (MatchScore, error) {
	var s MatchScore
	err := row.Scan(&s.ID, &s.MatchLineID,
		&s.Set1Us, &s.Set1Them, &s.Set2Us, &s.Set2Them, &s.Set3Us, &s.Set3Them,
		&s.Result, &s.Notes)
	return s, err
}

func (q *Queries) GetScore(ctx context.Context, lineID int64) (MatchScore, error) {
	return scanScore(q.db.QueryRowContext(ctx,
		"SELECT "+scoreColumns+" FROM match_scores WHERE match_line_id = ?", lineID))
}

type ScoreParams struct {
	Set1Us   sql.NullInt64
	Set1Them sql.NullInt64
	Set2Us   sql.NullInt64
	Set2Them sql.NullInt64
	Set3Us   sql.NullInt64
	Set3Them sql.NullInt64
	Result   sql.NullString
	Notes    sql.NullString
}

// UpsertScore overwrites the line's score wholesale. At most one score row
// exists per line.
func (q *Queries) UpsertScore(ctx context.Context, lineID int64, arg ScoreParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO match_scores (match_line_id, set1_us, set1_them, set2_us, set2_them,
			set3_us, set3_them, result, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_line_id) DO UPDATE SET
			set1_us = excluded.set1_us, set1_them = excluded.set1_them,
			set2_us = excluded.set2_us, set2_them = excluded.set2_them,
			set3_us = excluded.set3_us, set3_them = excluded.set3_them,
			result = excluded.result, notes = excluded.notes`,
		lineID, arg.Set1Us, arg.Set1Them, arg.Set2Us, arg.Set2Them,
		arg.Set3Us, arg.Set3Them, arg.Result, arg.Notes)
	return err
}
