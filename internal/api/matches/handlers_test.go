package matches

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
	mux.HandleFunc("GET /api/matches", HandleList)
	mux.HandleFunc("POST /api/matches", HandleCreate)
	mux.HandleFunc("GET /api/matches/{id}", HandleGet)
	mux.HandleFunc("PUT /api/matches/{id}", HandleUpdate)
	mux.HandleFunc("DELETE /api/matches/{id}", HandleDelete)
	mux.HandleFunc("PATCH /api/matches/{id}/lines/{lineId}", HandleUpdateLine)
	mux.HandleFunc("POST /api/matches/{id}/lines/{lineId}/players", HandleAssignPlayers)
	mux.HandleFunc("POST /api/matches/{id}/lines/{lineId}/score", HandleRecordScore)
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

func createMatch(t *testing.T, mux *http.ServeMux, body string) matchView {
	t.Helper()
	rec := doJSON(t, mux, "POST", "/api/matches", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create match: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var m matchView
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	return m
}

func getDetail(t *testing.T, mux *http.ServeMux, id int64) matchDetailView {
	t.Helper()
	rec := doJSON(t, mux, "GET", fmt.Sprintf("/api/matches/%d", id), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get match: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detail matchDetailView
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	return detail
}

func TestCreateMatchWithExplicitLines(t *testing.T) {
	mux, _ := newTestMux(t)

	m := createMatch(t, mux, `{
		"match_date": "2026-06-06",
		"is_home": false,
		"away_address": "99 Baseline Rd",
		"lines": [
			{"line_number": 1, "line_type": "singles"},
			{"line_number": 2, "line_type": "doubles"}
		]
	}`)
	if m.Status != "scheduled" {
		t.Errorf("expected new match to be scheduled, got %q", m.Status)
	}

	detail := getDetail(t, mux, m.ID)
	if len(detail.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(detail.Lines))
	}
	if detail.Lines[1].LineType != "doubles" {
		t.Errorf("unexpected lines: %+v", detail.Lines)
	}
}

func TestCreateMatchSeedsLinesFromSeason(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	season, err := database.Queries.CreateSeason(ctx, appdb.SeasonParams{Name: "Spring"})
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}
	for i := int64(1); i <= 3; i++ {
		if err := database.Queries.CreateLineTemplate(ctx, season.ID, i, "doubles"); err != nil {
			t.Fatalf("seed template: %v", err)
		}
	}

	m := createMatch(t, mux, fmt.Sprintf(`{"season_id":%d,"match_date":"2026-06-07","is_home":true}`, season.ID))
	detail := getDetail(t, mux, m.ID)
	if len(detail.Lines) != 3 {
		t.Fatalf("expected three seeded lines, got %d", len(detail.Lines))
	}
}

func TestCreateMatchRequiresDate(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, "POST", "/api/matches", `{"is_home":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateMatchStatus(t *testing.T) {
	mux, _ := newTestMux(t)

	m := createMatch(t, mux, `{"match_date":"2026-06-08","is_home":true}`)

	rec := doJSON(t, mux, "PUT", fmt.Sprintf("/api/matches/%d", m.ID),
		`{"match_date":"2026-06-08","is_home":true,"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated matchView
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Status != "completed" {
		t.Errorf("expected completed, got %q", updated.Status)
	}

	rec = doJSON(t, mux, "PUT", fmt.Sprintf("/api/matches/%d", m.ID),
		`{"match_date":"2026-06-08","is_home":true,"status":"postponed"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestAssignPlayersEnforcesCapacity(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	m := createMatch(t, mux, `{"match_date":"2026-06-09","is_home":true,"lines":[{"line_number":1,"line_type":"singles"}]}`)
	detail := getDetail(t, mux, m.ID)
	lineID := detail.Lines[0].ID

	var ids []int64
	for _, name := range []string{"Al", "Bo"} {
		p, err := database.Queries.CreatePlayer(ctx, appdb.CreatePlayerParams{Name: name})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		ids = append(ids, p.ID)
	}

	rec := doJSON(t, mux, "POST", fmt.Sprintf("/api/matches/%d/lines/%d/players", m.ID, lineID),
		fmt.Sprintf(`{"player_ids":[%d,%d]}`, ids[0], ids[1]))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for over-capacity singles line, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, "POST", fmt.Sprintf("/api/matches/%d/lines/%d/players", m.ID, lineID),
		fmt.Sprintf(`{"player_ids":[%d]}`, ids[0]))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	detail = getDetail(t, mux, m.ID)
	if len(detail.Lines[0].Players) != 1 || detail.Lines[0].Players[0].Name != "Al" {
		t.Fatalf("unexpected assignments: %+v", detail.Lines[0].Players)
	}
}

func TestAssignPlayersToForeignLine(t *testing.T) {
	mux, _ := newTestMux(t)

	first := createMatch(t, mux, `{"match_date":"2026-06-10","is_home":true,"lines":[{"line_number":1,"line_type":"doubles"}]}`)
	second := createMatch(t, mux, `{"match_date":"2026-06-11","is_home":true}`)
	detail := getDetail(t, mux, first.ID)

	rec := doJSON(t, mux, "POST",
		fmt.Sprintf("/api/matches/%d/lines/%d/players", second.ID, detail.Lines[0].ID),
		`{"player_ids":[]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for line on another match, got %d", rec.Code)
	}
}

func TestScoreRoundtrip(t *testing.T) {
	mux, _ := newTestMux(t)

	m := createMatch(t, mux, `{"match_date":"2026-06-12","is_home":true,"lines":[{"line_number":1,"line_type":"doubles"}]}`)
	detail := getDetail(t, mux, m.ID)
	lineID := detail.Lines[0].ID

	rec := doJSON(t, mux, "POST", fmt.Sprintf("/api/matches/%d/lines/%d/score", m.ID, lineID),
		`{"set1_us":6,"set1_them":4,"set2_us":7,"set2_them":5,"result":"win"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record score: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	detail = getDetail(t, mux, m.ID)
	score := detail.Lines[0].Score
	if score == nil || score.Result == nil || *score.Result != "win" {
		t.Fatalf("expected recorded win, got %+v", score)
	}
	if score.Set3Us != nil {
		t.Error("expected unplayed set to stay null")
	}

	rec = doJSON(t, mux, "POST", fmt.Sprintf("/api/matches/%d/lines/%d/score", m.ID, lineID),
		`{"set1_us":4,"set1_them":6,"result":"loss"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("overwrite score: expected 200, got %d", rec.Code)
	}
	detail = getDetail(t, mux, m.ID)
	score = detail.Lines[0].Score
	if *score.Result != "loss" || score.Set2Us != nil {
		t.Fatalf("expected wholesale overwrite, got %+v", score)
	}
}

func TestScoreRejectsBadResult(t *testing.T) {
	mux, _ := newTestMux(t)

	m := createMatch(t, mux, `{"match_date":"2026-06-13","is_home":true,"lines":[{"line_number":1,"line_type":"singles"}]}`)
	detail := getDetail(t, mux, m.ID)

	rec := doJSON(t, mux, "POST", fmt.Sprintf("/api/matches/%d/lines/%d/score", m.ID, detail.Lines[0].ID),
		`{"result":"draw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateLineCustomSchedule(t *testing.T) {
	mux, _ := newTestMux(t)

	m := createMatch(t, mux, `{"match_date":"2026-06-14","is_home":true,"use_custom_dates":true,"lines":[{"line_number":1,"line_type":"doubles"}]}`)
	detail := getDetail(t, mux, m.ID)

	rec := doJSON(t, mux, "PATCH", fmt.Sprintf("/api/matches/%d/lines/%d", m.ID, detail.Lines[0].ID),
		`{"line_type":"doubles","custom_date":"2026-06-15","custom_time":"19:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch line: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var line lineView
	if err := json.Unmarshal(rec.Body.Bytes(), &line); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if line.CustomDate == nil || *line.CustomDate != "2026-06-15" {
		t.Errorf("expected custom date to persist, got %+v", line)
	}
}

func TestDeleteMatchCascades(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	m := createMatch(t, mux, `{"match_date":"2026-06-16","is_home":true,"lines":[{"line_number":1,"line_type":"doubles"}]}`)
	detail := getDetail(t, mux, m.ID)
	lineID := detail.Lines[0].ID

	rec := doJSON(t, mux, "DELETE", fmt.Sprintf("/api/matches/%d", m.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	if _, err := database.Queries.GetMatchLine(ctx, lineID); err == nil {
		t.Fatal("expected lines to cascade on match delete")
	}
}

func TestListFiltersByTeam(t *testing.T) {
	mux, database := newTestMux(t)
	ctx := context.Background()

	team, err := database.Queries.CreateTeam(ctx, "Ladder", sql.NullString{})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	createMatch(t, mux, fmt.Sprintf(`{"team_id":%d,"match_date":"2026-06-17","is_home":true}`, team.ID))
	createMatch(t, mux, `{"match_date":"2026-06-18","is_home":true}`)

	rec := doJSON(t, mux, "GET", fmt.Sprintf("/api/matches?team_id=%d", team.ID), "")
	var listed []matchView
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].MatchDate != "2026-06-17" {
		t.Fatalf("expected only the team's match, got %+v", listed)
	}
}
