// internal/db/players.go
package db

import (
	"context"
	"database/sql"
)

const playerColumns = "id, name, email, cell, active, created_at"

func scanPlayer(row interface{ Scan(...any) error }) (Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Cell, &p.Active, &p.CreatedAt)
	return p, err
}

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+playerColumns+" FROM players ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ListActivePlayers returns the default roster used when a match has no team.
func (q *Queries) ListActivePlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE active = 1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id = ?", id))
}

// GetActivePlayer resolves a player only if they have not been deactivated.
func (q *Queries) GetActivePlayer(ctx context.Context, id int64) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id = ? AND active = 1", id))
}

type CreatePlayerParams struct {
	Name  string
	Email sql.NullString
	Cell  sql.NullString
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO players (name, email, cell) VALUES (?, ?, ?)",
		arg.Name, arg.Email, arg.Cell)
	if err != nil {
		return Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Player{}, err
	}
	return q.GetPlayer(ctx, id)
}

type UpdatePlayerParams struct {
	ID     int64
	Name   string
	Email  sql.NullString
	Cell   sql.NullString
	Active bool
}

func (q *Queries) UpdatePlayer(ctx context.Context, arg UpdatePlayerParams) (Player, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE players SET name = ?, email = ?, cell = ?, active = ? WHERE id = ?",
		arg.Name, arg.Email, arg.Cell, arg.Active, arg.ID)
	if err != nil {
		return Player{}, err
	}
	return q.GetPlayer(ctx, arg.ID)
}

// DeletePlayer is destructive: availability and line assignments cascade.
func (q *Queries) DeletePlayer(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	return err
}

// ListPlayerLineHistory returns every line a player was assigned to, newest
// match first, with score and partner names for the record view.
func (q *Queries) ListPlayerLineHistory(ctx context.Context, playerID int64) ([]PlayerLineHistoryRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT
			m.match_date, m.match_time, m.is_home, m.away_address,
			o.name,
			ml.line_number, ml.line_type,
			ms.set1_us, ms.set1_them, ms.set2_us, ms.set2_them, ms.set3_us, ms.set3_them, ms.result,
			GROUP_CONCAT(p2.name, ' / ')
		FROM match_line_players mlp
		JOIN match_lines ml ON ml.id = mlp.match_line_id
		JOIN matches m ON m.id = ml.match_id
		LEFT JOIN opponents o ON o.id = m.opponent_id
		LEFT JOIN match_scores ms ON ms.match_line_id = ml.id
		LEFT JOIN match_line_players mlp2 ON mlp2.match_line_id = ml.id AND mlp2.player_id != mlp.player_id
		LEFT JOIN players p2 ON p2.id = mlp2.player_id
		WHERE mlp.player_id = ?
		GROUP BY ml.id
		ORDER BY m.match_date DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []PlayerLineHistoryRow
	for rows.Next() {
		var h PlayerLineHistoryRow
		if err := rows.Scan(
			&h.MatchDate, &h.MatchTime, &h.IsHome, &h.AwayAddress,
			&h.OpponentName,
			&h.LineNumber, &h.LineType,
			&h.Set1Us, &h.Set1Them, &h.Set2Us, &h.Set2Them, &h.Set3Us, &h.Set3Them, &h.Result,
			&h.PartnerNames,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
