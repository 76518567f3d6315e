package stats

import (
	"database/sql"
	"testing"

	"github.com/courtcall/courtcall/internal/db"
)

func result(v string) db.PlayerLineHistoryRow {
	return db.PlayerLineHistoryRow{Result: sql.NullString{String: v, Valid: v != ""}}
}

func TestFromHistory(t *testing.T) {
	history := []db.PlayerLineHistoryRow{
		result("win"),
		result("loss"),
		result("default_win"),
		result("default_loss"),
		result(""), // unscored line
	}

	got := FromHistory(history)

	if got.Wins != 2 {
		t.Errorf("wins = %d, want 2", got.Wins)
	}
	if got.Losses != 2 {
		t.Errorf("losses = %d, want 2", got.Losses)
	}
	if got.Played != 4 {
		t.Errorf("played = %d, want 4", got.Played)
	}
}

func TestFromHistoryEmpty(t *testing.T) {
	if got := FromHistory(nil); got != (Record{}) {
		t.Errorf("expected zero record, got %+v", got)
	}
}
