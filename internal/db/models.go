// internal/db/models.go
package db

import (
	"database/sql"
	"time"
)

// Row types mirror the relational schema. Column names and the
// NULL-as-whole-match convention on player_availability.match_line_id are
// load-bearing for external tooling and must not drift.

type Player struct {
	ID        int64
	Name      string
	Email     sql.NullString
	Cell      sql.NullString
	Active    bool
	CreatedAt time.Time
}

type Opponent struct {
	ID      int64
	Name    string
	Address sql.NullString
	Notes   sql.NullString
}

type Team struct {
	ID          int64
	Name        string
	Description sql.NullString
	Active      bool
	CreatedAt   time.Time
}

type Season struct {
	ID               int64
	Name             string
	DefaultDayOfWeek sql.NullInt64
	DefaultTime      sql.NullString
	TeamID           sql.NullInt64
	CreatedAt        time.Time
}

type LineTemplate struct {
	ID         int64
	SeasonID   int64
	LineNumber int64
	LineType   string
}

type Match struct {
	ID             int64
	SeasonID       sql.NullInt64
	OpponentID     sql.NullInt64
	TeamID         sql.NullInt64
	MatchDate      string
	MatchTime      sql.NullString
	IsHome         bool
	AwayAddress    sql.NullString
	UseCustomDates bool
	Notes          sql.NullString
	Status         string
	CreatedAt      time.Time
}

// MatchListRow joins opponent and season names for list views.
type MatchListRow struct {
	Match
	OpponentName sql.NullString
	SeasonName   sql.NullString
}

// MatchDetailRow additionally carries team name and opponent address for
// the full-detail fetch.
type MatchDetailRow struct {
	Match
	OpponentName    sql.NullString
	OpponentAddress sql.NullString
	SeasonName      sql.NullString
	TeamName        sql.NullString
}

type MatchLine struct {
	ID         int64
	MatchID    int64
	LineNumber int64
	LineType   string
	CustomDate sql.NullString
	CustomTime sql.NullString
}

type MatchLinePlayer struct {
	ID          int64
	MatchLineID int64
	PlayerID    int64
	Position    int64
}

// LinePlayerRow joins player contact info onto a line assignment.
type LinePlayerRow struct {
	MatchLinePlayer
	Name  string
	Email sql.NullString
	Cell  sql.NullString
}

type MatchScore struct {
	ID          int64
	MatchLineID int64
	Set1Us      sql.NullInt64
	Set1Them    sql.NullInt64
	Set2Us      sql.NullInt64
	Set2Them    sql.NullInt64
	Set3Us      sql.NullInt64
	Set3Them    sql.NullInt64
	Result      sql.NullString
	Notes       sql.NullString
}

type PlayerAvailability struct {
	ID           int64
	PlayerID     int64
	MatchID      int64
	MatchLineID  sql.NullInt64
	Available    bool
	ResponseDate time.Time
}

// AvailabilityRow joins player name and contact info onto a raw response.
type AvailabilityRow struct {
	PlayerAvailability
	Name string
	Cell sql.NullString
}

type AvailabilityToken struct {
	ID        int64
	PlayerID  int64
	MatchID   int64
	Token     string
	ExpiresAt sql.NullString
	CreatedAt time.Time
}

// TokenRow joins the player name onto a token for the public respond page.
type TokenRow struct {
	AvailabilityToken
	PlayerName string
}

// PlayerLineHistoryRow is one line a player was assigned to, with its match
// context, score, and partner names, for the player record view.
type PlayerLineHistoryRow struct {
	MatchDate    string
	MatchTime    sql.NullString
	IsHome       bool
	AwayAddress  sql.NullString
	OpponentName sql.NullString
	LineNumber   int64
	LineType     string
	Set1Us       sql.NullInt64
	Set1Them     sql.NullInt64
	Set2Us       sql.NullInt64
	Set2Them     sql.NullInt64
	Set3Us       sql.NullInt64
	Set3Them     sql.NullInt64
	Result       sql.NullString
	PartnerNames sql.NullString
}
