// internal/api/matches/handlers.go
package matches

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/api/apiutil"
	appdb "github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/lineup"
	"github.com/courtcall/courtcall/internal/match"
)

const matchQueryTimeout = 5 * time.Second

var (
	queries  *appdb.Queries
	database *appdb.DB
	assigner *lineup.Assigner
)

func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
	queries = db.Queries
	assigner = lineup.NewAssigner(db)
}

type lineRequest struct {
	LineNumber int64   `json:"line_number"`
	LineType   string  `json:"line_type"`
	CustomDate *string `json:"custom_date"`
	CustomTime *string `json:"custom_time"`
}

type matchRequest struct {
	SeasonID       *int64        `json:"season_id"`
	OpponentID     *int64        `json:"opponent_id"`
	TeamID         *int64        `json:"team_id"`
	MatchDate      string        `json:"match_date"`
	MatchTime      string        `json:"match_time"`
	IsHome         bool          `json:"is_home"`
	AwayAddress    string        `json:"away_address"`
	UseCustomDates bool          `json:"use_custom_dates"`
	Notes          string        `json:"notes"`
	Status         string        `json:"status"`
	Lines          []lineRequest `json:"lines"`
}

type matchView struct {
	ID             int64     `json:"id"`
	SeasonID       *int64    `json:"season_id"`
	OpponentID     *int64    `json:"opponent_id"`
	TeamID         *int64    `json:"team_id"`
	MatchDate      string    `json:"match_date"`
	MatchTime      *string   `json:"match_time"`
	IsHome         bool      `json:"is_home"`
	AwayAddress    *string   `json:"away_address"`
	UseCustomDates bool      `json:"use_custom_dates"`
	Notes          *string   `json:"notes"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	OpponentName   *string   `json:"opponent_name,omitempty"`
	SeasonName     *string   `json:"season_name,omitempty"`
}

func toView(m appdb.Match) matchView {
	return matchView{
		ID:             m.ID,
		SeasonID:       apiutil.NullInt64Ptr(m.SeasonID),
		OpponentID:     apiutil.NullInt64Ptr(m.OpponentID),
		TeamID:         apiutil.NullInt64Ptr(m.TeamID),
		MatchDate:      m.MatchDate,
		MatchTime:      apiutil.NullStringPtr(m.MatchTime),
		IsHome:         m.IsHome,
		AwayAddress:    apiutil.NullStringPtr(m.AwayAddress),
		UseCustomDates: m.UseCustomDates,
		Notes:          apiutil.NullStringPtr(m.Notes),
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
}

func toListView(row appdb.MatchListRow) matchView {
	v := toView(row.Match)
	v.OpponentName = apiutil.NullStringPtr(row.OpponentName)
	v.SeasonName = apiutil.NullStringPtr(row.SeasonName)
	return v
}

type linePlayerView struct {
	PlayerID int64   `json:"player_id"`
	Position int64   `json:"position"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Cell     *string `json:"cell"`
}

type scoreView struct {
	Set1Us   *int64  `json:"set1_us"`
	Set1Them *int64  `json:"set1_them"`
	Set2Us   *int64  `json:"set2_us"`
	Set2Them *int64  `json:"set2_them"`
	Set3Us   *int64  `json:"set3_us"`
	Set3Them *int64  `json:"set3_them"`
	Result   *string `json:"result"`
	Notes    *string `json:"notes"`
}

type lineView struct {
	ID         int64            `json:"id"`
	LineNumber int64            `json:"line_number"`
	LineType   string           `json:"line_type"`
	CustomDate *string          `json:"custom_date"`
	CustomTime *string          `json:"custom_time"`
	Players    []linePlayerView `json:"players"`
	Score      *scoreView       `json:"score"`
}

type matchDetailView struct {
	matchView
	OpponentAddress *string    `json:"opponent_address"`
	TeamName        *string    `json:"team_name"`
	Lines           []lineView `json:"lines"`
}

func toScoreView(s appdb.MatchScore) *scoreView {
	return &scoreView{
		Set1Us:   apiutil.NullInt64Ptr(s.Set1Us),
		Set1Them: apiutil.NullInt64Ptr(s.Set1Them),
		Set2Us:   apiutil.NullInt64Ptr(s.Set2Us),
		Set2Them: apiutil.NullInt64Ptr(s.Set2Them),
		Set3Us:   apiutil.NullInt64Ptr(s.Set3Us),
		Set3Them: apiutil.NullInt64Ptr(s.Set3Them),
		Result:   apiutil.NullStringPtr(s.Result),
		Notes:    apiutil.NullStringPtr(s.Notes),
	}
}

// GET /api/matches?team_id=N. Newest first.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, hasTeam, err := apiutil.QueryInt64(r, "team_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	var rows []appdb.MatchListRow
	if hasTeam {
		rows, err = queries.ListMatchesByTeam(ctx, teamID)
	} else {
		rows, err = queries.ListMatches(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list matches")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load matches")
		return
	}

	views := make([]matchView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toListView(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/matches/{id}. Full detail: match context plus each line with its
// assigned players and score.
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	detail, err := queries.GetMatchDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	lines, err := queries.ListMatchLines(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to load match lines")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	lineViews := make([]lineView, 0, len(lines))
	for _, line := range lines {
		players, err := queries.ListLinePlayers(ctx, line.ID)
		if err != nil {
			logger.Error().Err(err).Int64("line_id", line.ID).Msg("Failed to load line players")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
			return
		}
		playerViews := make([]linePlayerView, 0, len(players))
		for _, p := range players {
			playerViews = append(playerViews, linePlayerView{
				PlayerID: p.PlayerID,
				Position: p.Position,
				Name:     p.Name,
				Email:    apiutil.NullStringPtr(p.Email),
				Cell:     apiutil.NullStringPtr(p.Cell),
			})
		}

		var score *scoreView
		s, err := queries.GetScore(ctx, line.ID)
		switch {
		case err == nil:
			score = toScoreView(s)
		case errors.Is(err, sql.ErrNoRows):
			// unscored line
		default:
			logger.Error().Err(err).Int64("line_id", line.ID).Msg("Failed to load score")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
			return
		}

		lineViews = append(lineViews, lineView{
			ID:         line.ID,
			LineNumber: line.LineNumber,
			LineType:   line.LineType,
			CustomDate: apiutil.NullStringPtr(line.CustomDate),
			CustomTime: apiutil.NullStringPtr(line.CustomTime),
			Players:    playerViews,
			Score:      score,
		})
	}

	view := matchDetailView{
		matchView:       toView(detail.Match),
		OpponentAddress: apiutil.NullStringPtr(detail.OpponentAddress),
		TeamName:        apiutil.NullStringPtr(detail.TeamName),
		Lines:           lineViews,
	}
	view.OpponentName = apiutil.NullStringPtr(detail.OpponentName)
	view.SeasonName = apiutil.NullStringPtr(detail.SeasonName)

	_ = apiutil.WriteJSON(w, http.StatusOK, view)
}

func validateLines(lines []lineRequest) error {
	for _, line := range lines {
		if line.LineNumber <= 0 {
			return errors.New("line_number must be positive")
		}
		if err := apiutil.ValidateLineType(line.LineType); err != nil {
			return err
		}
	}
	return nil
}

func toMatchParams(req matchRequest) appdb.MatchParams {
	return appdb.MatchParams{
		SeasonID:       apiutil.ToNullInt64(req.SeasonID),
		OpponentID:     apiutil.ToNullInt64(req.OpponentID),
		TeamID:         apiutil.ToNullInt64(req.TeamID),
		MatchDate:      req.MatchDate,
		MatchTime:      apiutil.ToNullString(req.MatchTime),
		IsHome:         req.IsHome,
		AwayAddress:    apiutil.ToNullString(req.AwayAddress),
		UseCustomDates: req.UseCustomDates,
		Notes:          apiutil.ToNullString(req.Notes),
	}
}

// POST /api/matches. Explicit lines win; otherwise the season's line
// templates seed the match.
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req matchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MatchDate == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "match_date is required")
		return
	}
	if err := validateLines(req.Lines); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	var matchID int64
	err := database.RunInTx(ctx, func(tx *appdb.DB) error {
		var txErr error
		matchID, txErr = tx.Queries.CreateMatch(ctx, toMatchParams(req))
		if txErr != nil {
			return txErr
		}

		lines := req.Lines
		if len(lines) == 0 && req.SeasonID != nil {
			templates, txErr := tx.Queries.ListLineTemplates(ctx, *req.SeasonID)
			if txErr != nil {
				return txErr
			}
			for _, tpl := range templates {
				lines = append(lines, lineRequest{LineNumber: tpl.LineNumber, LineType: tpl.LineType})
			}
		}
		for _, line := range lines {
			if txErr := tx.Queries.CreateMatchLine(ctx, matchID, appdb.LineParams{
				LineNumber: line.LineNumber,
				LineType:   line.LineType,
				CustomDate: nullStringFromPtr(line.CustomDate),
				CustomTime: nullStringFromPtr(line.CustomTime),
			}); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}

	created, err := queries.GetMatch(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load created match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, toView(created))
}

// PUT /api/matches/{id}. Replaces lines wholesale when provided, which drops
// their assignments and scores with them.
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req matchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MatchDate == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "match_date is required")
		return
	}
	status, err := match.ParseStatus(req.Status)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateLines(req.Lines); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, err := queries.GetMatch(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Match not found")
			return
		}
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to load match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load match")
		return
	}

	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		if txErr := tx.Queries.UpdateMatch(ctx, id, appdb.UpdateMatchParams{
			MatchParams: toMatchParams(req),
			Status:      status.String(),
		}); txErr != nil {
			return txErr
		}
		if req.Lines == nil {
			return nil
		}
		if txErr := tx.Queries.DeleteMatchLines(ctx, id); txErr != nil {
			return txErr
		}
		for _, line := range req.Lines {
			if txErr := tx.Queries.CreateMatchLine(ctx, id, appdb.LineParams{
				LineNumber: line.LineNumber,
				LineType:   line.LineType,
				CustomDate: nullStringFromPtr(line.CustomDate),
				CustomTime: nullStringFromPtr(line.CustomTime),
			}); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to update match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update match")
		return
	}

	updated, err := queries.GetMatch(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to load updated match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update match")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, toView(updated))
}

// DELETE /api/matches/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if err := queries.DeleteMatch(ctx, id); err != nil {
		logger.Error().Err(err).Int64("match_id", id).Msg("Failed to delete match")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete match")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type lineUpdateRequest struct {
	LineType   string  `json:"line_type"`
	CustomDate *string `json:"custom_date"`
	CustomTime *string `json:"custom_time"`
}

// PATCH /api/matches/{id}/lines/{lineId}. Per-line schedule overrides.
func HandleUpdateLine(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lineID, err := apiutil.PathID(r, "lineId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req lineUpdateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := apiutil.ValidateLineType(req.LineType); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadMatchLine(ctx, w, r, matchID, lineID); !ok {
		return
	}

	updated, err := queries.UpdateMatchLine(ctx, matchID, lineID, req.LineType,
		nullStringFromPtr(req.CustomDate), nullStringFromPtr(req.CustomTime))
	if err != nil {
		logger.Error().Err(err).Int64("line_id", lineID).Msg("Failed to update line")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update line")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, lineView{
		ID:         updated.ID,
		LineNumber: updated.LineNumber,
		LineType:   updated.LineType,
		CustomDate: apiutil.NullStringPtr(updated.CustomDate),
		CustomTime: apiutil.NullStringPtr(updated.CustomTime),
		Players:    []linePlayerView{},
	})
}

type assignRequest struct {
	PlayerIDs []int64 `json:"player_ids"`
}

// POST /api/matches/{id}/lines/{lineId}/players. Replaces the line's
// assignments. Over-capacity batches are rejected outright.
func HandleAssignPlayers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lineID, err := apiutil.PathID(r, "lineId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req assignRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadMatchLine(ctx, w, r, matchID, lineID); !ok {
		return
	}

	if err := assigner.SetLinePlayers(ctx, lineID, req.PlayerIDs); err != nil {
		switch {
		case errors.Is(err, lineup.ErrCapacityExceeded):
			apiutil.WriteError(w, http.StatusConflict, err.Error())
		case errors.Is(err, lineup.ErrLineNotFound):
			apiutil.WriteError(w, http.StatusNotFound, "Line not found")
		default:
			logger.Error().Err(err).Int64("line_id", lineID).Msg("Failed to assign players")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to assign players")
		}
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type scoreRequest struct {
	Set1Us   *int64 `json:"set1_us"`
	Set1Them *int64 `json:"set1_them"`
	Set2Us   *int64 `json:"set2_us"`
	Set2Them *int64 `json:"set2_them"`
	Set3Us   *int64 `json:"set3_us"`
	Set3Them *int64 `json:"set3_them"`
	Result   string `json:"result"`
	Notes    string `json:"notes"`
}

func validResult(result string) bool {
	switch result {
	case "", "win", "loss", "default_win", "default_loss":
		return true
	}
	return false
}

// POST /api/matches/{id}/lines/{lineId}/score. Wholesale overwrite; resending
// with fewer sets clears the omitted ones.
func HandleRecordScore(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lineID, err := apiutil.PathID(r, "lineId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req scoreRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validResult(req.Result) {
		apiutil.WriteError(w, http.StatusBadRequest, "result must be one of win, loss, default_win, default_loss")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadMatchLine(ctx, w, r, matchID, lineID); !ok {
		return
	}

	if err := queries.UpsertScore(ctx, lineID, appdb.ScoreParams{
		Set1Us:   apiutil.ToNullInt64(req.Set1Us),
		Set1Them: apiutil.ToNullInt64(req.Set1Them),
		Set2Us:   apiutil.ToNullInt64(req.Set2Us),
		Set2Them: apiutil.ToNullInt64(req.Set2Them),
		Set3Us:   apiutil.ToNullInt64(req.Set3Us),
		Set3Them: apiutil.ToNullInt64(req.Set3Them),
		Result:   apiutil.ToNullString(req.Result),
		Notes:    apiutil.ToNullString(req.Notes),
	}); err != nil {
		logger.Error().Err(err).Int64("line_id", lineID).Msg("Failed to record score")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to record score")
		return
	}

	score, err := queries.GetScore(ctx, lineID)
	if err != nil {
		logger.Error().Err(err).Int64("line_id", lineID).Msg("Failed to load score")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to record score")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, toScoreView(score))
}

// loadMatchLine fetches a line and verifies it belongs to the match in the
// URL. On failure it writes the response and returns ok=false.
func loadMatchLine(ctx context.Context, w http.ResponseWriter, r *http.Request, matchID, lineID int64) (appdb.MatchLine, bool) {
	line, err := queries.GetMatchLine(ctx, lineID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "Line not found")
		return appdb.MatchLine{}, false
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("line_id", lineID).Msg("Failed to load line")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load line")
		return appdb.MatchLine{}, false
	}
	if line.MatchID != matchID {
		apiutil.WriteError(w, http.StatusNotFound, "Line not found")
		return appdb.MatchLine{}, false
	}
	return line, true
}

func nullStringFromPtr(value *string) sql.NullString {
	if value == nil || *value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
