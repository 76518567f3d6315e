package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appdb "github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/testutil"
)

func newTestMux(t *testing.T) (*http.ServeMux, *appdb.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	InitHandlers(database)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams", HandleList)
	mux.HandleFunc("POST /api/teams", HandleCreate)
	mux.HandleFunc("GET /api/teams/{id}", HandleGet)
	mux.HandleFunc("PUT /api/teams/{id}", HandleUpdate)
	mux.HandleFunc("PATCH /api/teams/{id}/activate", HandleSetActive(true))
	mux.HandleFunc("PATCH /api/teams/{id}/deactivate", HandleSetActive(false))
	mux.HandleFunc("GET /api/teams/{id}/players", HandleListPlayers)
	mux.HandleFunc("POST /api/teams/{id}/players", HandleAddPlayer)
	mux.HandleFunc("DELETE /api/teams/{id}/players/{playerId}", HandleRemovePlayer)
	return mux, database
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createTeam(t *testing.T, mux *http.ServeMux, name string) teamView {
	t.Helper()
	rec := doJSON(t, mux, "POST", "/api/teams", fmt.Sprintf(`{"name":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var team teamView
	if err := json.Unmarshal(rec.Body.Bytes(), &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	return team
}

func TestTeamLifecycle(t *testing.T) {
	mux, _ := newTestMux(t)

	team := createTeam(t, mux, "Tuesday Night")
	if !team.Active {
		t.Fatal("new teams should start active")
	}

	rec := doJSON(t, mux, "PATCH", fmt.Sprintf("/api/teams/%d/deactivate", team.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, mux, "GET", fmt.Sprintf("/api/teams/%d", team.ID), "")
	var fetched teamView
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if fetched.Active {
		t.Error("expected team to be inactive after deactivate")
	}

	rec = doJSON(t, mux, "PATCH", fmt.Sprintf("/api/teams/%d/activate", team.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, mux, "GET", fmt.Sprintf("/api/teams/%d", team.ID), "")
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if !fetched.Active {
		t.Error("expected team to be active after activate")
	}
}

func TestListPutsActiveTeamsFirst(t *testing.T) {
	mux, _ := newTestMux(t)

	first := createTeam(t, mux, "Alpha")
	createTeam(t, mux, "Beta")
	rec := doJSON(t, mux, "PATCH", fmt.Sprintf("/api/teams/%d/deactivate", first.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: got %d", rec.Code)
	}

	rec = doJSON(t, mux, "GET", "/api/teams", "")
	var listed []teamView
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected two teams, got %d", len(listed))
	}
	if listed[0].Name != "Beta" || !listed[0].Active {
		t.Errorf("expected active Beta first, got %+v", listed)
	}
}

func TestRosterAddIsIdempotent(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	team := createTeam(t, mux, "Ladder")
	player, err := database.Queries.CreatePlayer(ctx, appdb.CreatePlayerParams{Name: "Al"})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	body := fmt.Sprintf(`{"player_id":%d}`, player.ID)
	for i := 0; i < 2; i++ {
		rec := doJSON(t, mux, "POST", fmt.Sprintf("/api/teams/%d/players", team.ID), body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add player attempt %d: got %d: %s", i+1, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, mux, "GET", fmt.Sprintf("/api/teams/%d/players", team.ID), "")
	var roster []rosterView
	if err := json.Unmarshal(rec.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected one roster entry after duplicate add, got %d", len(roster))
	}
}

func TestRosterRemove(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	team := createTeam(t, mux, "Ladder")
	player, err := database.Queries.CreatePlayer(ctx, appdb.CreatePlayerParams{Name: "Bo"})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if err := database.Queries.AddTeamPlayer(ctx, team.ID, player.ID); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	rec := doJSON(t, mux, "DELETE", fmt.Sprintf("/api/teams/%d/players/%d", team.ID, player.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", rec.Code)
	}

	roster, err := database.Queries.ListTeamPlayers(ctx, team.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 0 {
		t.Fatalf("expected empty roster, got %d entries", len(roster))
	}
}

func TestAddPlayerToMissingTeam(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, "POST", "/api/teams/999/players", `{"player_id":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
