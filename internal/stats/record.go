// internal/stats/record.go

// Package stats derives win/loss records from scored line history.
package stats

import "github.com/courtcall/courtcall/internal/db"

// Record is a player's win/loss summary. Played counts only lines with a
// recorded result; unscored lines are scheduled-but-unresolved.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Played int `json:"played"`
}

// FromHistory folds a player's line history into a Record. Defaulted results
// count the same as played ones.
func FromHistory(history []db.PlayerLineHistoryRow) Record {
	var r Record
	for _, h := range history {
		if !h.Result.Valid {
			continue
		}
		r.Played++
		switch h.Result.String {
		case "win", "default_win":
			r.Wins++
		case "loss", "default_loss":
			r.Losses++
		}
	}
	return r
}
