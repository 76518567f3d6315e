// internal/api/availability/handlers.go

// Package availability exposes the player-facing availability surface: the
// shared team page, personal token links, response submission, and the
// captain-side notification endpoints.
package availability

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/api/apiutil"
	coreavail "github.com/courtcall/courtcall/internal/availability"
	appdb "github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/lineup"
	"github.com/courtcall/courtcall/internal/notify"
)

const availabilityQueryTimeout = 5 * time.Second

// Options carries the request-independent wiring for this package.
type Options struct {
	BaseURL  string
	TokenTTL time.Duration
	SMS      notify.SMSSender
	Email    notify.EmailSender
}

var (
	queries  *appdb.Queries
	database *appdb.DB
	writer   *coreavail.Writer
	options  Options
)

func InitHandlers(db *appdb.DB, opts Options) {
	if db == nil {
		return
	}
	database = db
	queries = db.Queries
	writer = coreavail.NewWriter(db)
	options = opts
}

type playerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type lineView struct {
	ID         int64   `json:"id"`
	LineNumber int64   `json:"line_number"`
	LineType   string  `json:"line_type"`
	CustomDate *string `json:"custom_date"`
	CustomTime *string `json:"custom_time"`
}

type matchContext struct {
	ID             int64   `json:"id"`
	MatchDate      string  `json:"match_date"`
	MatchTime      *string `json:"match_time"`
	IsHome         bool    `json:"is_home"`
	AwayAddress    *string `json:"away_address"`
	UseCustomDates bool    `json:"use_custom_dates"`
	Status         string  `json:"status"`
	OpponentName   *string `json:"opponent_name"`
	SeasonName     *string `json:"season_name"`
	TeamName       *string `json:"team_name"`
}

func toMatchContext(detail appdb.MatchDetailRow) matchContext {
	return matchContext{
		ID:             detail.ID,
		MatchDate:      detail.MatchDate,
		MatchTime:      apiutil.NullStringPtr(detail.MatchTime),
		IsHome:         detail.IsHome,
		AwayAddress:    apiutil.NullStringPtr(detail.AwayAddress),
		UseCustomDates: detail.UseCustomDates,
		Status:         detail.Status,
		OpponentName:   apiutil.NullStringPtr(detail.OpponentName),
		SeasonName:     apiutil.NullStringPtr(detail.SeasonName),
		TeamName:       apiutil.NullStringPtr(detail.TeamName),
	}
}

func toLineViews(lines []appdb.MatchLine) []lineView {
	views := make([]lineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, lineView{
			ID:         l.ID,
			LineNumber: l.LineNumber,
			LineType:   l.LineType,
			CustomDate: apiutil.NullStringPtr(l.CustomDate),
			CustomTime: apiutil.NullStringPtr(l.CustomTime),
		})
	}
	return views
}

// rosterFor returns the match's candidate responders: the team roster when the
// match belongs to a team, otherwise every active player.
func rosterFor(ctx context.Context, m appdb.Match) ([]appdb.Player, error) {
	if m.TeamID.Valid {
		return queries.ListActiveTeamPlayers(ctx, m.TeamID.Int64)
	}
	return queries.ListActivePlayers(ctx)
}

type responseInput struct {
	MatchLineID *int64 `json:"match_line_id"`
	Available   bool   `json:"available"`
}

func toWriterInputs(responses []responseInput) []coreavail.ResponseInput {
	inputs := make([]coreavail.ResponseInput, 0, len(responses))
	for _, r := range responses {
		inputs = append(inputs, coreavail.ResponseInput{
			MatchLineID: r.MatchLineID,
			Available:   r.Available,
		})
	}
	return inputs
}

// GET /api/availability/match/{matchId}/team. Data behind the shared team
// link. No auth: the URL itself is the credential. Lines are only included
// when the match schedules them on their own dates.
func HandleTeamPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	detail, err := queries.GetMatchDetail(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	roster, err := rosterFor(ctx, detail.Match)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load roster")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}
	players := make([]playerRef, 0, len(roster))
	for _, p := range roster {
		players = append(players, playerRef{ID: p.ID, Name: p.Name})
	}

	var lines []lineView
	if detail.UseCustomDates {
		matchLines, err := queries.ListMatchLines(ctx, matchID)
		if err != nil {
			logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load lines")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
			return
		}
		lines = toLineViews(matchLines)
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"match":   toMatchContext(detail),
		"players": players,
		"lines":   lines,
	})
}

// GET /api/availability/match/{matchId}/player/{playerId}
func HandlePlayerAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	playerID, err := apiutil.PathID(r, "playerId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	rows, err := queries.ListPlayerMatchAvailability(ctx, matchID, playerID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load availability")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"availability": toResponseViews(rows),
	})
}

type responseView struct {
	PlayerID     int64     `json:"player_id"`
	MatchLineID  *int64    `json:"match_line_id"`
	Available    bool      `json:"available"`
	ResponseDate time.Time `json:"response_date"`
}

func toResponseViews(rows []appdb.PlayerAvailability) []responseView {
	views := make([]responseView, 0, len(rows))
	for _, row := range rows {
		views = append(views, responseView{
			PlayerID:     row.PlayerID,
			MatchLineID:  apiutil.NullInt64Ptr(row.MatchLineID),
			Available:    row.Available,
			ResponseDate: row.ResponseDate,
		})
	}
	return views
}

type respondRequest struct {
	PlayerID  int64           `json:"player_id"`
	Responses []responseInput `json:"responses"`
}

// POST /api/availability/match/{matchId}/respond. Resubmission replaces the
// player's earlier answer for the same target.
func HandleRespond(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req respondRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	if err := writer.Submit(ctx, req.PlayerID, matchID, toWriterInputs(req.Responses)); err != nil {
		switch {
		case errors.Is(err, coreavail.ErrPlayerNotFound):
			apiutil.WriteError(w, http.StatusNotFound, "Player not found")
		case errors.Is(err, coreavail.ErrMatchNotFound):
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
		default:
			logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to save availability")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to save availability")
		}
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type availabilityRowView struct {
	responseView
	Name string  `json:"name"`
	Cell *string `json:"cell"`
}

// GET /api/availability/match/{matchId}. Captain view: raw rows plus the
// aggregated roll-up.
func HandleMatchAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	m, err := queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	rows, err := queries.ListMatchAvailability(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load availability")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	roster, err := rosterFor(ctx, m)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load roster")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}
	matchLines, err := queries.ListMatchLines(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load lines")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	rowViews := make([]availabilityRowView, 0, len(rows))
	for _, row := range rows {
		rowViews = append(rowViews, availabilityRowView{
			responseView: responseView{
				PlayerID:     row.PlayerID,
				MatchLineID:  apiutil.NullInt64Ptr(row.MatchLineID),
				Available:    row.Available,
				ResponseDate: row.ResponseDate,
			},
			Name: row.Name,
			Cell: apiutil.NullStringPtr(row.Cell),
		})
	}

	summary := coreavail.Aggregate(m.UseCustomDates,
		aggregateLines(matchLines), aggregateRoster(roster), aggregateResponses(rows))

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"availability": rowViews,
		"summary":      toSummaryView(summary),
	})
}

func aggregateLines(lines []appdb.MatchLine) []coreavail.Line {
	out := make([]coreavail.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, coreavail.Line{
			ID:         l.ID,
			LineNumber: l.LineNumber,
			LineType:   l.LineType,
			CustomDate: l.CustomDate.String,
			CustomTime: l.CustomTime.String,
		})
	}
	return out
}

func aggregateRoster(players []appdb.Player) []coreavail.PlayerRef {
	out := make([]coreavail.PlayerRef, 0, len(players))
	for _, p := range players {
		out = append(out, coreavail.PlayerRef{ID: p.ID, Name: p.Name})
	}
	return out
}

func aggregateResponses(rows []appdb.AvailabilityRow) []coreavail.Response {
	out := make([]coreavail.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, coreavail.Response{
			PlayerID:    row.PlayerID,
			MatchLineID: apiutil.NullInt64Ptr(row.MatchLineID),
			Available:   row.Available,
		})
	}
	return out
}

type groupView struct {
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Available map[int64]bool `json:"responses"`
}

type summaryView struct {
	Available   []playerRef `json:"available"`
	Unavailable []playerRef `json:"unavailable"`
	NoResponse  []playerRef `json:"no_response"`
	Groups      []groupView `json:"groups"`
}

func toSummaryView(s coreavail.Summary) summaryView {
	refs := func(players []coreavail.PlayerRef) []playerRef {
		out := make([]playerRef, 0, len(players))
		for _, p := range players {
			out = append(out, playerRef{ID: p.ID, Name: p.Name})
		}
		return out
	}

	groups := make([]groupView, 0, len(s.GroupOrder))
	for _, key := range s.GroupOrder {
		groups = append(groups, groupView{
			Date:      key.Date,
			Time:      key.Time,
			Available: s.Groups[key],
		})
	}

	return summaryView{
		Available:   refs(s.Available),
		Unavailable: refs(s.Unavailable),
		NoResponse:  refs(s.NoResponse),
		Groups:      groups,
	}
}

// loadToken resolves and expiry-checks a token. On failure it writes the
// response and returns ok=false. Expired links answer the same as unknown
// ones so a token cannot be probed for existence.
func loadToken(ctx context.Context, w http.ResponseWriter, r *http.Request, token string) (appdb.TokenRow, bool) {
	row, err := queries.GetAvailabilityToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusForbidden, "Invalid or expired link")
		return appdb.TokenRow{}, false
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to resolve availability token")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to resolve link")
		return appdb.TokenRow{}, false
	}
	if tokenExpired(row, time.Now()) {
		apiutil.WriteError(w, http.StatusForbidden, "Invalid or expired link")
		return appdb.TokenRow{}, false
	}
	return row, true
}

func tokenExpired(row appdb.TokenRow, now time.Time) bool {
	if !row.ExpiresAt.Valid {
		return false
	}
	expiresAt, err := time.Parse(time.RFC3339, row.ExpiresAt.String)
	if err != nil {
		// An unparseable expiry reads as a dead link, not a permanent one.
		return true
	}
	return now.After(expiresAt)
}

// GET /api/availability/respond/{token}. Page data for a personal link.
func HandleTokenPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	row, ok := loadToken(ctx, w, r, r.PathValue("token"))
	if !ok {
		return
	}

	detail, err := queries.GetMatchDetail(ctx, row.MatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", row.MatchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	var lines []lineView
	if detail.UseCustomDates {
		matchLines, err := queries.ListMatchLines(ctx, row.MatchID)
		if err != nil {
			logger.Error().Err(err).Int64("match_id", row.MatchID).Msg("Failed to load lines")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
			return
		}
		lines = toLineViews(matchLines)
	}

	current, err := queries.ListPlayerMatchAvailability(ctx, row.MatchID, row.PlayerID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", row.MatchID).Msg("Failed to load availability")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"player":               playerRef{ID: row.PlayerID, Name: row.PlayerName},
		"match":                toMatchContext(detail),
		"lines":                lines,
		"current_availability": toResponseViews(current),
		"token":                row.Token,
	})
}

type tokenRespondRequest struct {
	Responses []responseInput `json:"responses"`
}

// POST /api/availability/respond/{token}
func HandleTokenRespond(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req tokenRespondRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	row, ok := loadToken(ctx, w, r, r.PathValue("token"))
	if !ok {
		return
	}

	if err := writer.Submit(ctx, row.PlayerID, row.MatchID, toWriterInputs(req.Responses)); err != nil {
		switch {
		case errors.Is(err, coreavail.ErrPlayerNotFound), errors.Is(err, coreavail.ErrMatchNotFound):
			apiutil.WriteError(w, http.StatusForbidden, "Invalid or expired link")
		default:
			logger.Error().Err(err).Int64("match_id", row.MatchID).Msg("Failed to save availability")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to save availability")
		}
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Availability saved!",
	})
}

func composerMatch(detail appdb.MatchDetailRow) lineup.MatchInfo {
	return lineup.MatchInfo{
		ID:             detail.ID,
		OpponentName:   detail.OpponentName.String,
		TeamName:       detail.TeamName.String,
		Date:           detail.MatchDate,
		Time:           detail.MatchTime.String,
		IsHome:         detail.IsHome,
		AwayAddress:    detail.AwayAddress.String,
		UseCustomDates: detail.UseCustomDates,
	}
}

type notifyMessageView struct {
	Player  playerRef `json:"player"`
	Cell    *string   `json:"cell"`
	Email   *string   `json:"email"`
	Message string    `json:"message"`
}

type notifyRequest struct {
	BaseURL string `json:"base_url"`
}

// POST /api/availability/notify/{matchId}. Composes the shareable link and a
// personalized request per roster player. Delivery is a separate call.
func HandleNotify(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The body is optional; a bare POST uses the configured base URL.
	var req notifyRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		req = notifyRequest{}
	}
	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = options.BaseURL
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	detail, err := queries.GetMatchDetail(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	roster, err := rosterFor(ctx, detail.Match)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load roster")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}

	m := composerMatch(detail)
	messages := make([]notifyMessageView, 0, len(roster))
	for _, p := range roster {
		messages = append(messages, notifyMessageView{
			Player:  playerRef{ID: p.ID, Name: p.Name},
			Cell:    apiutil.NullStringPtr(p.Cell),
			Email:   apiutil.NullStringPtr(p.Email),
			Message: lineup.AvailabilityRequest(m, baseURL, lineup.Player{ID: p.ID, Name: p.Name}),
		})
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"link":     lineup.AvailabilityLink(baseURL, matchID),
		"messages": messages,
	})
}

// POST /api/availability/notify-assignment/{matchId}. One message per
// assigned player with a contact channel.
func HandleNotifyAssignment(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	detail, err := queries.GetMatchDetail(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	matchLines, err := queries.ListMatchLines(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load lines")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load lines")
		return
	}

	lines := make([]lineup.Line, 0, len(matchLines))
	for _, l := range matchLines {
		assigned, err := queries.ListLinePlayers(ctx, l.ID)
		if err != nil {
			logger.Error().Err(err).Int64("line_id", l.ID).Msg("Failed to load line players")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load lines")
			return
		}
		players := make([]lineup.Player, 0, len(assigned))
		for _, p := range assigned {
			players = append(players, lineup.Player{
				ID:    p.PlayerID,
				Name:  p.Name,
				Cell:  p.Cell.String,
				Email: p.Email.String,
			})
		}
		lines = append(lines, lineup.Line{
			Number:     l.LineNumber,
			Type:       l.LineType,
			CustomDate: l.CustomDate.String,
			CustomTime: l.CustomTime.String,
			Players:    players,
		})
	}

	composed := lineup.AssignmentMessages(composerMatch(detail), lines)
	messages := make([]notifyMessageView, 0, len(composed))
	for _, msg := range composed {
		view := notifyMessageView{
			Player:  playerRef{ID: msg.Player.ID, Name: msg.Player.Name},
			Message: msg.Body,
		}
		if msg.Player.Cell != "" {
			cell := msg.Player.Cell
			view.Cell = &cell
		}
		if msg.Player.Email != "" {
			email := msg.Player.Email
			view.Email = &email
		}
		messages = append(messages, view)
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"summary":  lineup.LineupSummary(composerMatch(detail), lines),
	})
}

type sendMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendRequest struct {
	Messages []sendMessage `json:"messages"`
}

const emailSubject = "Tennis match update"

// POST /api/availability/send-sms. Best-effort delivery; one failed
// recipient never blocks the rest. Numbers are normalized to E.164 first.
// Email addresses in the recipient slot fall back to SES when configured.
func HandleSendSMS(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if options.SMS == nil && options.Email == nil {
		apiutil.WriteError(w, http.StatusBadRequest,
			"Twilio not configured. Set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER")
		return
	}

	var req sendRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var smsMessages []notify.Message
	var results []notify.Result
	for _, msg := range req.Messages {
		if msg.To == "" {
			continue
		}
		switch {
		case notify.IsPhoneNumber(msg.To):
			if options.SMS == nil {
				results = append(results, notify.Result{
					To: msg.To, Status: notify.StatusFailed, Error: "SMS delivery not configured",
				})
				continue
			}
			smsMessages = append(smsMessages, notify.Message{
				To:   notify.NormalizePhone(msg.To),
				Body: msg.Body,
			})
		case strings.Contains(msg.To, "@"):
			if options.Email == nil {
				results = append(results, notify.Result{
					To: msg.To, Status: notify.StatusFailed, Error: "email delivery not configured",
				})
				continue
			}
			if err := options.Email.Send(r.Context(), msg.To, emailSubject, msg.Body); err != nil {
				logger.Warn().Err(err).Str("to", msg.To).Msg("Email delivery failed")
				results = append(results, notify.Result{To: msg.To, Status: notify.StatusFailed, Error: err.Error()})
				continue
			}
			results = append(results, notify.Result{To: msg.To, Status: notify.StatusSent})
		default:
			results = append(results, notify.Result{
				To: msg.To, Status: notify.StatusFailed, Error: "not a deliverable phone number or email",
			})
		}
	}

	results = append(results, notify.SendBatch(r.Context(), options.SMS, smsMessages)...)

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

type mintedTokenView struct {
	Player playerRef `json:"player"`
	Token  string    `json:"token"`
	Link   string    `json:"link"`
}

// POST /api/availability/tokens/{matchId}. Mints one personal link per
// roster player. Re-minting invalidates the previous links.
func HandleMintTokens(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "matchId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	m, err := queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	roster, err := rosterFor(ctx, m)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load roster")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}

	expiresAt := sql.NullString{}
	if options.TokenTTL > 0 {
		expiresAt = sql.NullString{
			String: time.Now().UTC().Add(options.TokenTTL).Format(time.RFC3339),
			Valid:  true,
		}
	}

	var minted []mintedTokenView
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		for _, p := range roster {
			if txErr := tx.Queries.DeleteAvailabilityTokens(ctx, p.ID, matchID); txErr != nil {
				return txErr
			}
			token := uuid.NewString()
			if txErr := tx.Queries.CreateAvailabilityToken(ctx, p.ID, matchID, token, expiresAt); txErr != nil {
				return txErr
			}
			minted = append(minted, mintedTokenView{
				Player: playerRef{ID: p.ID, Name: p.Name},
				Token:  token,
				Link:   options.BaseURL + "/availability/respond/" + token,
			})
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to mint availability tokens")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to mint availability tokens")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, map[string]any{"tokens": minted})
}
