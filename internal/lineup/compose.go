// internal/lineup/compose.go
package lineup

import (
	"fmt"
	"strings"
)

// MatchInfo is the slice of a match the composer needs. All fields are plain
// strings; callers flatten NULL columns to "" before composing.
type MatchInfo struct {
	ID             int64
	OpponentName   string
	TeamName       string
	Date           string
	Time           string
	IsHome         bool
	AwayAddress    string
	UseCustomDates bool
}

// Line is a match line with its assigned players for composition.
type Line struct {
	Number     int64
	Type       string
	CustomDate string
	CustomTime string
	Players    []Player
}

// Player carries display name and contact channels.
type Player struct {
	ID    int64
	Name  string
	Cell  string
	Email string
}

// PlayerMessage is a personalized message addressed to one player.
type PlayerMessage struct {
	Player Player
	Body   string
}

// All composers are pure formatting over their inputs; nothing here touches
// the store, so previews can be generated repeatedly.

// AvailabilityLink builds the shareable team availability URL for a match.
func AvailabilityLink(baseURL string, matchID int64) string {
	return fmt.Sprintf("%s/availability/match/%d", strings.TrimRight(baseURL, "/"), matchID)
}

// AvailabilityRequest builds the per-player availability request text with
// the shareable link and match summary.
func AvailabilityRequest(m MatchInfo, baseURL string, p Player) string {
	link := AvailabilityLink(baseURL, m.ID)
	return fmt.Sprintf("%sHi %s! Tennis match vs %s on %s. Mark your availability: %s",
		teamPrefix(m), p.Name, opponentOrTBD(m), m.Date, link)
}

// LineupSummary lists each line's label and assigned player names, grouped
// under a date heading when the match uses custom dates. Lines with nobody
// assigned are omitted.
func LineupSummary(m MatchInfo, lines []Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lineup vs %s", opponentOrTBD(m))
	if !m.UseCustomDates {
		fmt.Fprintf(&b, " on %s", m.Date)
	}
	b.WriteString("\n")

	currentDate := ""
	for _, line := range lines {
		if len(line.Players) == 0 {
			continue
		}

		if m.UseCustomDates {
			date := lineDate(m, line)
			if t := lineTime(m, line); t != "" {
				date += " " + t
			}
			if date != currentDate {
				currentDate = date
				fmt.Fprintf(&b, "\n%s\n", date)
			}
		}

		fmt.Fprintf(&b, "%s: %s\n", lineLabel(line), strings.Join(dedupeNames(line.Players), " & "))
	}
	return b.String()
}

// AssignmentMessages builds one personalized message per assigned player with
// a contact channel, naming their line and partners. Players with neither
// cell nor email are skipped.
func AssignmentMessages(m MatchInfo, lines []Line) []PlayerMessage {
	var messages []PlayerMessage
	prefix := teamPrefix(m)

	for _, line := range lines {
		if len(line.Players) == 0 {
			continue
		}

		dateStr := lineDate(m, line)
		timeStr := lineTime(m, line)
		location := "Home"
		if !m.IsHome {
			addr := m.AwayAddress
			if addr == "" {
				addr = "TBD"
			}
			location = "Away at " + addr
		}

		for _, player := range line.Players {
			if player.Cell == "" && player.Email == "" {
				continue
			}

			var partners []string
			seen := make(map[int64]bool)
			for _, other := range line.Players {
				// De-dup by identity: the same player assigned twice must
				// not list themselves as their own partner.
				if other.ID == player.ID || seen[other.ID] {
					continue
				}
				seen[other.ID] = true
				partners = append(partners, other.Name)
			}

			partnerStr := ""
			if len(partners) > 0 {
				partnerStr = fmt.Sprintf(" Partner: %s.", strings.Join(partners, ", "))
			}

			when := dateStr
			if timeStr != "" {
				when += " at " + timeStr
			}

			body := fmt.Sprintf("%sHi %s! You're playing %s vs %s on %s (%s).%s Good luck!",
				prefix, player.Name, lineLabel(line), opponentOrTBD(m), when, location, partnerStr)
			messages = append(messages, PlayerMessage{Player: player, Body: body})
		}
	}
	return messages
}

func lineLabel(line Line) string {
	kind := "Singles"
	if line.Type == "doubles" {
		kind = "Doubles"
	}
	return fmt.Sprintf("%s Line %d", kind, line.Number)
}

func lineDate(m MatchInfo, line Line) string {
	if line.CustomDate != "" {
		return line.CustomDate
	}
	return m.Date
}

func lineTime(m MatchInfo, line Line) string {
	if line.CustomTime != "" {
		return line.CustomTime
	}
	return m.Time
}

func teamPrefix(m MatchInfo) string {
	if m.TeamName == "" {
		return ""
	}
	return m.TeamName + "\n\n"
}

func opponentOrTBD(m MatchInfo) string {
	if m.OpponentName == "" {
		return "TBD"
	}
	return m.OpponentName
}

func dedupeNames(players []Player) []string {
	seen := make(map[int64]bool, len(players))
	var out []string
	for _, p := range players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p.Name)
	}
	return out
}
