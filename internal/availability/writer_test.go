package availability

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	appdb "github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/testutil"
)

func seedPlayerAndMatch(t *testing.T, database *appdb.DB) (playerID, matchID int64) {
	t.Helper()
	ctx := context.Background()

	player, err := database.Queries.CreatePlayer(ctx, appdb.CreatePlayerParams{Name: "Al"})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	matchID, err = database.Queries.CreateMatch(ctx, appdb.MatchParams{
		MatchDate: "2026-04-04",
		IsHome:    true,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return player.ID, matchID
}

func TestSubmitWholeMatchIdempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	playerID, matchID := seedPlayerAndMatch(t, database)
	writer := NewWriter(database)

	batch := []ResponseInput{{MatchLineID: nil, Available: true}}
	if err := writer.Submit(ctx, playerID, matchID, batch); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := writer.Submit(ctx, playerID, matchID, batch); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	rows, err := database.Queries.ListPlayerMatchAvailability(ctx, matchID, playerID)
	if err != nil {
		t.Fatalf("list availability: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row after resubmission, got %d", len(rows))
	}
	if !rows[0].Available {
		t.Error("expected available=true")
	}
	if rows[0].MatchLineID.Valid {
		t.Error("expected NULL match_line_id for whole-match response")
	}
}

func TestSubmitReplacesValue(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	playerID, matchID := seedPlayerAndMatch(t, database)
	writer := NewWriter(database)

	if err := writer.Submit(ctx, playerID, matchID, []ResponseInput{{Available: true}}); err != nil {
		t.Fatalf("submit yes: %v", err)
	}
	if err := writer.Submit(ctx, playerID, matchID, []ResponseInput{{Available: false}}); err != nil {
		t.Fatalf("submit no: %v", err)
	}

	rows, err := database.Queries.ListPlayerMatchAvailability(ctx, matchID, playerID)
	if err != nil {
		t.Fatalf("list availability: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Available {
		t.Error("expected the later submission to win")
	}
}

func TestSubmitPerLineBatch(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	playerID, matchID := seedPlayerAndMatch(t, database)

	for i := int64(1); i <= 2; i++ {
		if err := database.Queries.CreateMatchLine(ctx, matchID, appdb.LineParams{
			LineNumber: i,
			LineType:   "doubles",
			CustomDate: sql.NullString{String: "2026-04-04", Valid: true},
		}); err != nil {
			t.Fatalf("create line: %v", err)
		}
	}
	lines, err := database.Queries.ListMatchLines(ctx, matchID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}

	writer := NewWriter(database)
	batch := []ResponseInput{
		{MatchLineID: &lines[0].ID, Available: true},
		{MatchLineID: &lines[1].ID, Available: false},
	}
	if err := writer.Submit(ctx, playerID, matchID, batch); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rows, err := database.Queries.ListPlayerMatchAvailability(ctx, matchID, playerID)
	if err != nil {
		t.Fatalf("list availability: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
}

func TestSubmitRejectsUnknownPlayer(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	_, matchID := seedPlayerAndMatch(t, database)
	writer := NewWriter(database)

	err := writer.Submit(ctx, 9999, matchID, []ResponseInput{{Available: true}})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestSubmitRejectsInactivePlayer(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	playerID, matchID := seedPlayerAndMatch(t, database)

	if _, err := database.Queries.UpdatePlayer(ctx, appdb.UpdatePlayerParams{
		ID: playerID, Name: "Al", Active: false,
	}); err != nil {
		t.Fatalf("deactivate player: %v", err)
	}

	writer := NewWriter(database)
	err := writer.Submit(ctx, playerID, matchID, []ResponseInput{{Available: true}})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound for inactive player, got %v", err)
	}
}

func TestSubmitRejectsUnknownMatch(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	playerID, _ := seedPlayerAndMatch(t, database)
	writer := NewWriter(database)

	err := writer.Submit(ctx, playerID, 9999, []ResponseInput{{Available: true}})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}
