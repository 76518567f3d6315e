// internal/db/matches.go
package db

import (
	"context"
	"database/sql"
)

const matchColumns = `m.id, m.season_id, m.opponent_id, m.team_id, m.match_date, m.match_time,
	m.is_home, m.away_address, m.use_custom_dates, m.notes, m.status, m.created_at`

func scanMatchFields(row interface{ Scan(...any) error }, m *Match, extra ...any) error {
	dest := []any{
		&m.ID, &m.SeasonID, &m.OpponentID, &m.TeamID, &m.MatchDate, &m.MatchTime,
		&m.IsHome, &m.AwayAddress, &m.UseCustomDates, &m.Notes, &m.Status, &m.CreatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (q *Queries) GetMatch(ctx context.Context, id int64) (Match, error) {
	var m Match
	err := scanMatchFields(q.db.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM matches m WHERE m.id = ?", id), &m)
	return m, err
}

// GetMatchDetail joins opponent, season, and team names onto the match row.
func (q *Queries) GetMatchDetail(ctx context.Context, id int64) (MatchDetailRow, error) {
	var r MatchDetailRow
	err := scanMatchFields(q.db.QueryRowContext(ctx, `
		SELECT `+matchColumns+`, o.name, o.address, s.name, t.name
		FROM matches m
		LEFT JOIN opponents o ON o.id = m.opponent_id
		LEFT JOIN seasons s ON s.id = m.season_id
		LEFT JOIN teams t ON t.id = m.team_id
		WHERE m.id = ?`, id),
		&r.Match, &r.OpponentName, &r.OpponentAddress, &r.SeasonName, &r.TeamName)
	return r, err
}

func (q *Queries) ListMatches(ctx context.Context) ([]MatchListRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+matchColumns+`, o.name, s.name
		FROM matches m
		LEFT JOIN opponents o ON o.id = m.opponent_id
		LEFT JOIN seasons s ON s.id = m.season_id
		ORDER BY m.match_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatchListRows(rows)
}

func (q *Queries) ListMatchesByTeam(ctx context.Context, teamID int64) ([]MatchListRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+matchColumns+`, o.name, s.name
		FROM matches m
		LEFT JOIN opponents o ON o.id = m.opponent_id
		LEFT JOIN seasons s ON s.id = m.season_id
		WHERE m.team_id = ?
		ORDER BY m.match_date DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatchListRows(rows)
}

// ListScheduledMatchesBetween feeds the availability reminder job.
func (q *Queries) ListScheduledMatchesBetween(ctx context.Context, fromDate, toDate string) ([]MatchListRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+matchColumns+`, o.name, s.name
		FROM matches m
		LEFT JOIN opponents o ON o.id = m.opponent_id
		LEFT JOIN seasons s ON s.id = m.season_id
		WHERE m.status = 'scheduled' AND m.match_date >= ? AND m.match_date <= ?
		ORDER BY m.match_date`, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatchListRows(rows)
}

func collectMatchListRows(rows *sql.Rows) ([]MatchListRow, error) {
	var matches []MatchListRow
	for rows.Next() {
		var r MatchListRow
		if err := scanMatchFields(rows, &r.Match, &r.OpponentName, &r.SeasonName); err != nil {
			return nil, err
		}
		matches = append(matches, r)
	}
	return matches, rows.Err()
}

type MatchParams struct {
	SeasonID       sql.NullInt64
	OpponentID     sql.NullInt64
	TeamID         sql.NullInt64
	MatchDate      string
	MatchTime      sql.NullString
	IsHome         bool
	AwayAddress    sql.NullString
	UseCustomDates bool
	Notes          sql.NullString
}

func (q *Queries) CreateMatch(ctx context.Context, arg MatchParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO matches (season_id, opponent_id, team_id, match_date, match_time,
			is_home, away_address, use_custom_dates, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.SeasonID, arg.OpponentID, arg.TeamID, arg.MatchDate, arg.MatchTime,
		arg.IsHome, arg.AwayAddress, arg.UseCustomDates, arg.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type UpdateMatchParams struct {
	MatchParams
	Status string
}

func (q *Queries) UpdateMatch(ctx context.Context, id int64, arg UpdateMatchParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE matches SET season_id = ?, opponent_id = ?, team_id = ?, match_date = ?,
			match_time = ?, is_home = ?, away_address = ?, use_custom_dates = ?,
			notes = ?, status = ?
		WHERE id = ?`,
		arg.SeasonID, arg.OpponentID, arg.TeamID, arg.MatchDate,
		arg.MatchTime, arg.IsHome, arg.AwayAddress, arg.UseCustomDates,
		arg.Notes, arg.Status, id)
	return err
}

// DeleteMatch is destructive: lines, assignments, scores, availability, and
// tokens all cascade.
func (q *Queries) DeleteMatch(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	return err
}

const lineColumns = "id, match_id, line_number, line_type, custom_date, custom_time"

func scanLine(row interface{ Scan(...any) error }) (MatchLine, error) {
	var l MatchLine
	err := row.Scan(&l.ID, &l.MatchID, &l.LineNumber, &l.LineType, &l.CustomDate, &l.CustomTime)
	return l, err
}

func (q *Queries) ListMatchLines(ctx context.Context, matchID int64) ([]MatchLine, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+lineColumns+" FROM match_lines WHERE match_id = ? ORDER BY line_number", matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []MatchLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (q *Queries) GetMatchLine(ctx context.Context, id int64) (MatchLine, error) {
	return scanLine(q.db.QueryRowContext(ctx,
		"SELECT "+lineColumns+" FROM match_lines WHERE id = ?", id))
}

type LineParams struct {
	LineNumber int64
	LineType   string
	CustomDate sql.NullString
	CustomTime sql.NullString
}

func (q *Queries) CreateMatchLine(ctx context.Context, matchID int64, arg LineParams) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO match_lines (match_id, line_number, line_type, custom_date, custom_time) VALUES (?, ?, ?, ?, ?)",
		matchID, arg.LineNumber, arg.LineType, arg.CustomDate, arg.CustomTime)
	return err
}

func (q *Queries) UpdateMatchLine(ctx context.Context, matchID, lineID int64, lineType string, customDate, customTime sql.NullString) (MatchLine, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE match_lines SET custom_date = ?, custom_time = ?, line_type = ? WHERE id = ? AND match_id = ?",
		customDate, customTime, lineType, lineID, matchID)
	if err != nil {
		return MatchLine{}, err
	}
	return q.GetMatchLine(ctx, lineID)
}

func (q *Queries) DeleteMatchLines(ctx context.Context, matchID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM match_lines WHERE match_id = ?", matchID)
	return err
}

// ListLinePlayers returns a line's assignments in position order with player
// contact info joined on.
func (q *Queries) ListLinePlayers(ctx context.Context, lineID int64) ([]LinePlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT mlp.id, mlp.match_line_id, mlp.player_id, mlp.position, p.name, p.email, p.cell
		FROM match_line_players mlp
		JOIN players p ON p.id = mlp.player_id
		WHERE mlp.match_line_id = ?
		ORDER BY mlp.position`, lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []LinePlayerRow
	for rows.Next() {
		var r LinePlayerRow
		if err := rows.Scan(&r.ID, &r.MatchLineID, &r.PlayerID, &r.Position, &r.Name, &r.Email, &r.Cell); err != nil {
			return nil, err
		}
		players = append(players, r)
	}
	return players, rows.Err()
}

func (q *Queries) DeleteLinePlayers(ctx context.Context, lineID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM match_line_players WHERE match_line_id = ?", lineID)
	return err
}

func (q *Queries) CreateLinePlayer(ctx context.Context, lineID, playerID, position int64) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO match_line_players (match_line_id, player_id, position) VALUES (?, ?, ?)",
		lineID, playerID, position)
	return err
}
