// internal/db/opponents.go
package db

import (
	"context"
	"database/sql"
)

func scanOpponent(row interface{ Scan(...any) error }) (Opponent, error) {
	var o Opponent
	err := row.Scan(&o.ID, &o.Name, &o.Address, &o.Notes)
	return o, err
}

func (q *Queries) ListOpponents(ctx context.Context) ([]Opponent, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, name, address, notes FROM opponents ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opponents []Opponent
	for rows.Next() {
		o, err := scanOpponent(rows)
		if err != nil {
			return nil, err
		}
		opponents = append(opponents, o)
	}
	return opponents, rows.Err()
}

func (q *Queries) GetOpponent(ctx context.Context, id int64) (Opponent, error) {
	return scanOpponent(q.db.QueryRowContext(ctx,
		"SELECT id, name, address, notes FROM opponents WHERE id = ?", id))
}

type OpponentParams struct {
	Name    string
	Address sql.NullString
	Notes   sql.NullString
}

func (q *Queries) CreateOpponent(ctx context.Context, arg OpponentParams) (Opponent, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO opponents (name, address, notes) VALUES (?, ?, ?)",
		arg.Name, arg.Address, arg.Notes)
	if err != nil {
		return Opponent{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Opponent{}, err
	}
	return q.GetOpponent(ctx, id)
}

func (q *Queries) UpdateOpponent(ctx context.Context, id int64, arg OpponentParams) (Opponent, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE opponents SET name = ?, address = ?, notes = ? WHERE id = ?",
		arg.Name, arg.Address, arg.Notes, id)
	if err != nil {
		return Opponent{}, err
	}
	return q.GetOpponent(ctx, id)
}

func (q *Queries) DeleteOpponent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM opponents WHERE id = ?", id)
	return err
}
