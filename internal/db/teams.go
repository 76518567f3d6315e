// internal/db/teams.go
package db

import (
	"context"
	"database/sql"
)

const teamColumns = "id, name, description, active, created_at"

func scanTeam(row interface{ Scan(...any) error }) (Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Active, &t.CreatedAt)
	return t, err
}

// ListTeams returns all teams, active first, then by name.
func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM teams ORDER BY active DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (q *Queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	return scanTeam(q.db.QueryRowContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE id = ?", id))
}

func (q *Queries) CreateTeam(ctx context.Context, name string, description sql.NullString) (Team, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO teams (name, description) VALUES (?, ?)", name, description)
	if err != nil {
		return Team{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Team{}, err
	}
	return q.GetTeam(ctx, id)
}

func (q *Queries) UpdateTeam(ctx context.Context, id int64, name string, description sql.NullString) (Team, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE teams SET name = ?, description = ? WHERE id = ?", name, description, id)
	if err != nil {
		return Team{}, err
	}
	return q.GetTeam(ctx, id)
}

// SetTeamActive flips the soft-delete flag. Deactivation hides the team from
// pickers but preserves its seasons and match history.
func (q *Queries) SetTeamActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.ExecContext(ctx, "UPDATE teams SET active = ? WHERE id = ?", active, id)
	return err
}

// ListTeamPlayers returns the full roster of a team ordered by name.
func (q *Queries) ListTeamPlayers(ctx context.Context, teamID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.email, p.cell, p.active, p.created_at
		FROM players p
		JOIN team_players tp ON tp.player_id = p.id
		WHERE tp.team_id = ?
		ORDER BY p.name`, teamID)
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

// ListActiveTeamPlayers returns only active roster members, the eligible
// player set for team-scoped matches.
func (q *Queries) ListActiveTeamPlayers(ctx context.Context, teamID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.email, p.cell, p.active, p.created_at
		FROM players p
		JOIN team_players tp ON tp.player_id = p.id
		WHERE tp.team_id = ? AND p.active = 1
		ORDER BY p.name`, teamID)
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

func (q *Queries) AddTeamPlayer(ctx context.Context, teamID, playerID int64) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO team_players (team_id, player_id) VALUES (?, ?)", teamID, playerID)
	return err
}

func (q *Queries) RemoveTeamPlayer(ctx context.Context, teamID, playerID int64) error {
	_, err := q.db.ExecContext(ctx,
		"DELETE FROM team_players WHERE team_id = ? AND player_id = ?", teamID, playerID)
	return err
}
