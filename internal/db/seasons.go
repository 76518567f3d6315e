// internal/db/seasons.go
package db

import (
	"context"
	"database/sql"
)

const seasonColumns = "id, name, default_day_of_week, default_time, team_id, created_at"

func scanSeason(row interface{ Scan(...any) error }) (Season, error) {
	var s Season
	err := row.Scan(&s.ID, &s.Name, &s.DefaultDayOfWeek, &s.DefaultTime, &s.TeamID, &s.CreatedAt)
	return s, err
}

func (q *Queries) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeasons(rows)
}

func (q *Queries) ListSeasonsByTeam(ctx context.Context, teamID int64) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE team_id = ? ORDER BY created_at DESC", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeasons(rows)
}

func collectSeasons(rows *sql.Rows) ([]Season, error) {
	var seasons []Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	return scanSeason(q.db.QueryRowContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE id = ?", id))
}

type SeasonParams struct {
	Name             string
	DefaultDayOfWeek sql.NullInt64
	DefaultTime      sql.NullString
	TeamID           sql.NullInt64
}

func (q *Queries) CreateSeason(ctx context.Context, arg SeasonParams) (Season, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO seasons (name, default_day_of_week, default_time, team_id) VALUES (?, ?, ?, ?)",
		arg.Name, arg.DefaultDayOfWeek, arg.DefaultTime, arg.TeamID)
	if err != nil {
		return Season{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Season{}, err
	}
	return q.GetSeason(ctx, id)
}

func (q *Queries) UpdateSeason(ctx context.Context, id int64, arg SeasonParams) (Season, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE seasons SET name = ?, default_day_of_week = ?, default_time = ? WHERE id = ?",
		arg.Name, arg.DefaultDayOfWeek, arg.DefaultTime, id)
	if err != nil {
		return Season{}, err
	}
	return q.GetSeason(ctx, id)
}

func (q *Queries) DeleteSeason(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM seasons WHERE id = ?", id)
	return err
}

// ListLineTemplates returns a season's line templates in line order, used to
// seed lines on new matches.
func (q *Queries) ListLineTemplates(ctx context.Context, seasonID int64) ([]LineTemplate, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, season_id, line_number, line_type FROM line_templates WHERE season_id = ? ORDER BY line_number",
		seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []LineTemplate
	for rows.Next() {
		var t LineTemplate
		if err := rows.Scan(&t.ID, &t.SeasonID, &t.LineNumber, &t.LineType); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (q *Queries) CreateLineTemplate(ctx context.Context, seasonID, lineNumber int64, lineType string) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO line_templates (season_id, line_number, line_type) VALUES (?, ?, ?)",
		seasonID, lineNumber, lineType)
	return err
}

func (q *Queries) DeleteLineTemplates(ctx context.Context, seasonID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM line_templates WHERE season_id = ?", seasonID)
	return err
}
