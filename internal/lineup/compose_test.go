package lineup

import (
	"strings"
	"testing"
)

var riverside = MatchInfo{
	ID:           7,
	OpponentName: "Riverside Club",
	Date:         "2026-04-04",
	Time:         "09:00",
	IsHome:       true,
}

func TestAvailabilityRequest(t *testing.T) {
	got := AvailabilityRequest(riverside, "https://courtcall.example/", Player{ID: 1, Name: "Al"})

	if !strings.Contains(got, "Hi Al!") {
		t.Errorf("missing greeting: %q", got)
	}
	if !strings.Contains(got, "vs Riverside Club on 2026-04-04") {
		t.Errorf("missing match summary: %q", got)
	}
	if !strings.Contains(got, "https://courtcall.example/availability/match/7") {
		t.Errorf("missing shareable link: %q", got)
	}
}

func TestAvailabilityRequestTeamPrefixAndTBD(t *testing.T) {
	m := MatchInfo{ID: 3, TeamName: "Net Assets", Date: "2026-05-01"}
	got := AvailabilityRequest(m, "http://localhost:5173", Player{Name: "Bo"})

	if !strings.HasPrefix(got, "Net Assets\n\n") {
		t.Errorf("expected team prefix, got %q", got)
	}
	if !strings.Contains(got, "vs TBD") {
		t.Errorf("expected TBD opponent, got %q", got)
	}
}

func TestLineupSummary(t *testing.T) {
	lines := []Line{
		{Number: 1, Type: "doubles", Players: []Player{{ID: 1, Name: "Al"}, {ID: 2, Name: "Bo"}}},
		{Number: 2, Type: "singles", Players: nil},
		{Number: 3, Type: "singles", Players: []Player{{ID: 3, Name: "Cora"}}},
	}

	got := LineupSummary(riverside, lines)

	if !strings.Contains(got, "Doubles Line 1: Al & Bo") {
		t.Errorf("missing doubles line: %q", got)
	}
	if !strings.Contains(got, "Singles Line 3: Cora") {
		t.Errorf("missing singles line: %q", got)
	}
	if strings.Contains(got, "Line 2") {
		t.Errorf("empty line must be omitted: %q", got)
	}
}

func TestLineupSummaryCollapsesDuplicateAssignment(t *testing.T) {
	lines := []Line{
		{Number: 1, Type: "doubles", Players: []Player{{ID: 1, Name: "Al"}, {ID: 1, Name: "Al"}}},
	}

	got := LineupSummary(riverside, lines)
	if !strings.Contains(got, "Doubles Line 1: Al\n") {
		t.Errorf("duplicate player must collapse to one name: %q", got)
	}
}

func TestLineupSummaryGroupsByCustomDate(t *testing.T) {
	m := riverside
	m.UseCustomDates = true
	lines := []Line{
		{Number: 1, Type: "singles", CustomDate: "2026-04-04", CustomTime: "09:00", Players: []Player{{ID: 1, Name: "Al"}}},
		{Number: 2, Type: "singles", CustomDate: "2026-04-04", CustomTime: "09:00", Players: []Player{{ID: 2, Name: "Bo"}}},
		{Number: 3, Type: "doubles", CustomDate: "2026-04-11", CustomTime: "10:00", Players: []Player{{ID: 3, Name: "Cora"}, {ID: 4, Name: "Dee"}}},
	}

	got := LineupSummary(m, lines)

	first := strings.Index(got, "2026-04-04 09:00")
	second := strings.Index(got, "2026-04-11 10:00")
	if first == -1 || second == -1 || second < first {
		t.Fatalf("expected date headings in order, got %q", got)
	}
	if strings.Count(got, "2026-04-04 09:00") != 1 {
		t.Errorf("shared date heading must appear once: %q", got)
	}
}

func TestAssignmentMessages(t *testing.T) {
	lines := []Line{
		{Number: 1, Type: "doubles", Players: []Player{
			{ID: 1, Name: "Al", Cell: "+15551230001"},
			{ID: 2, Name: "Bo", Cell: "+15551230002"},
		}},
	}

	messages := AssignmentMessages(riverside, lines)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	first := messages[0].Body
	if !strings.Contains(first, "Hi Al! You're playing Doubles Line 1 vs Riverside Club") {
		t.Errorf("unexpected body: %q", first)
	}
	if !strings.Contains(first, "Partner: Bo.") {
		t.Errorf("missing partner: %q", first)
	}
	if !strings.Contains(first, "on 2026-04-04 at 09:00 (Home)") {
		t.Errorf("missing schedule/location: %q", first)
	}
}

func TestAssignmentMessagesSkipsPlayersWithoutContact(t *testing.T) {
	lines := []Line{
		{Number: 1, Type: "doubles", Players: []Player{
			{ID: 1, Name: "Al"},
			{ID: 2, Name: "Bo", Email: "bo@example.com"},
		}},
	}

	messages := AssignmentMessages(riverside, lines)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Player.Name != "Bo" {
		t.Errorf("expected message for Bo, got %s", messages[0].Player.Name)
	}
	// Al has no channel but still shows up as Bo's partner.
	if !strings.Contains(messages[0].Body, "Partner: Al.") {
		t.Errorf("missing partner mention: %q", messages[0].Body)
	}
}

func TestAssignmentMessagesAwayLocationAndDuplicatePartner(t *testing.T) {
	m := MatchInfo{ID: 9, OpponentName: "Hillcrest", Date: "2026-06-01", IsHome: false, AwayAddress: "12 Hill Rd"}
	lines := []Line{
		{Number: 2, Type: "doubles", Players: []Player{
			{ID: 1, Name: "Al", Cell: "+15551230001"},
			{ID: 1, Name: "Al", Cell: "+15551230001"},
		}},
	}

	messages := AssignmentMessages(m, lines)
	if len(messages) != 2 {
		t.Fatalf("expected a message per assignment row, got %d", len(messages))
	}
	for _, msg := range messages {
		if strings.Contains(msg.Body, "Partner:") {
			t.Errorf("player must not be their own partner: %q", msg.Body)
		}
		if !strings.Contains(msg.Body, "(Away at 12 Hill Rd)") {
			t.Errorf("missing away location: %q", msg.Body)
		}
	}
}

func TestComposersArePure(t *testing.T) {
	lines := []Line{
		{Number: 1, Type: "doubles", Players: []Player{
			{ID: 1, Name: "Al", Cell: "+15551230001"},
			{ID: 2, Name: "Bo", Cell: "+15551230002"},
		}},
	}

	first := LineupSummary(riverside, lines)
	second := LineupSummary(riverside, lines)
	if first != second {
		t.Error("LineupSummary must be repeatable")
	}

	m1 := AssignmentMessages(riverside, lines)
	m2 := AssignmentMessages(riverside, lines)
	if len(m1) != len(m2) || m1[0].Body != m2[0].Body {
		t.Error("AssignmentMessages must be repeatable")
	}
}
