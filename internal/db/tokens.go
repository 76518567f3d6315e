// internal/db/tokens.go
package db

import (
	"context"
	"database/sql"
)

// CreateAvailabilityToken mints a personal availability link credential.
func (q *Queries) CreateAvailabilityToken(ctx context.Context, playerID, matchID int64, token string, expiresAt sql.NullString) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO availability_tokens (player_id, match_id, token, expires_at) VALUES (?, ?, ?, ?)",
		playerID, matchID, token, expiresAt)
	return err
}

// GetAvailabilityToken resolves a token with the player name joined on.
func (q *Queries) GetAvailabilityToken(ctx context.Context, token string) (TokenRow, error) {
	var r TokenRow
	err := q.db.QueryRowContext(ctx, `
		SELECT at.id, at.player_id, at.match_id, at.token, at.expires_at, at.created_at, p.name
		FROM availability_tokens at
		JOIN players p ON p.id = at.player_id
		WHERE at.token = ?`, token).
		Scan(&r.ID, &r.PlayerID, &r.MatchID, &r.Token, &r.ExpiresAt, &r.CreatedAt, &r.PlayerName)
	return r, err
}

// DeleteAvailabilityTokens drops any previously minted tokens for the pair so
// a re-send invalidates old links.
func (q *Queries) DeleteAvailabilityTokens(ctx context.Context, playerID, matchID int64) error {
	_, err := q.db.ExecContext(ctx,
		"DELETE FROM availability_tokens WHERE player_id = ? AND match_id = ?", playerID, matchID)
	return err
}
