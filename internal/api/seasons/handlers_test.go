package seasons

import (
	"context"
	"database/sql"
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
	mux.HandleFunc("GET /api/seasons", HandleList)
	mux.HandleFunc("POST /api/seasons", HandleCreate)
	mux.HandleFunc("GET /api/seasons/{id}", HandleGet)
	mux.HandleFunc("PUT /api/seasons/{id}", HandleUpdate)
	mux.HandleFunc("DELETE /api/seasons/{id}", HandleDelete)
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

func TestCreateSeasonWithLines(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{
		"name": "Spring 2026",
		"default_day_of_week": 2,
		"default_time": "18:30",
		"lines": [
			{"line_number": 1, "line_type": "singles"},
			{"line_number": 2, "line_type": "doubles"}
		]
	}`
	rec := doJSON(t, mux, "POST", "/api/seasons", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created seasonView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.Lines) != 2 {
		t.Fatalf("expected two line templates, got %d", len(created.Lines))
	}
	if created.Lines[0].LineType != "singles" || created.Lines[1].LineNumber != 2 {
		t.Errorf("unexpected templates: %+v", created.Lines)
	}
	if created.DefaultTime == nil || *created.DefaultTime != "18:30" {
		t.Errorf("expected default_time to round-trip, got %v", created.DefaultTime)
	}
}

func TestCreateSeasonRejectsBadLineType(t *testing.T) {
	mux, database := newTestMux(t)

	body := `{"name":"Spring","lines":[{"line_number":1,"line_type":"triples"}]}`
	rec := doJSON(t, mux, "POST", "/api/seasons", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	seasons, err := database.Queries.ListSeasons(context.Background())
	if err != nil {
		t.Fatalf("list seasons: %v", err)
	}
	if len(seasons) != 0 {
		t.Fatal("rejected request must not create a season")
	}
}

func TestUpdateReplacesLineTemplates(t *testing.T) {
	mux, database := newTestMux(t)

	rec := doJSON(t, mux, "POST", "/api/seasons", `{"name":"Fall","lines":[{"line_number":1,"line_type":"singles"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}
	var created seasonView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	body := `{"name":"Fall","lines":[{"line_number":1,"line_type":"doubles"},{"line_number":2,"line_type":"doubles"}]}`
	rec = doJSON(t, mux, "PUT", fmt.Sprintf("/api/seasons/%d", created.ID), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	templates, err := database.Queries.ListLineTemplates(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 2 || templates[0].LineType != "doubles" {
		t.Fatalf("expected templates replaced wholesale, got %+v", templates)
	}
}

func TestUpdateWithoutLinesKeepsTemplates(t *testing.T) {
	mux, database := newTestMux(t)

	rec := doJSON(t, mux, "POST", "/api/seasons", `{"name":"Fall","lines":[{"line_number":1,"line_type":"singles"}]}`)
	var created seasonView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	rec = doJSON(t, mux, "PUT", fmt.Sprintf("/api/seasons/%d", created.ID), `{"name":"Fall Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rec.Code, rec.Body.String())
	}

	templates, err := database.Queries.ListLineTemplates(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected templates untouched, got %d", len(templates))
	}
}

func TestListFiltersByTeam(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, "Ladder", sql.NullString{})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	rec := doJSON(t, mux, "POST", "/api/seasons", fmt.Sprintf(`{"name":"Team Season","team_id":%d}`, team.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team season: got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, mux, "POST", "/api/seasons", `{"name":"Open Season"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create open season: got %d", rec.Code)
	}

	rec = doJSON(t, mux, "GET", fmt.Sprintf("/api/seasons?team_id=%d", team.ID), "")
	var listed []seasonView
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "Team Season" {
		t.Fatalf("expected only the team's season, got %+v", listed)
	}
}

func TestDeleteSeasonKeepsMatches(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	rec := doJSON(t, mux, "POST", "/api/seasons", `{"name":"Spring"}`)
	var created seasonView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	matchID, err := database.Queries.CreateMatch(ctx, appdb.MatchParams{
		SeasonID:  sql.NullInt64{Int64: created.ID, Valid: true},
		MatchDate: "2026-05-02",
		IsHome:    true,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}

	rec = doJSON(t, mux, "DELETE", fmt.Sprintf("/api/seasons/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}

	match, err := database.Queries.GetMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("expected match to survive season delete: %v", err)
	}
	if match.SeasonID.Valid {
		t.Error("expected season_id to be NULL after season delete")
	}
}
