// internal/api/players/handlers.go
package players

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/api/apiutil"
	appdb "github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/stats"
)

const playerQueryTimeout = 5 * time.Second

var (
	queries  *appdb.Queries
	database *appdb.DB
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
	queries = db.Queries
}

type playerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Cell   string `json:"cell"`
	Active *bool  `json:"active"`
}

type playerView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Cell      *string   `json:"cell"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toView(p appdb.Player) playerView {
	return playerView{
		ID:        p.ID,
		Name:      p.Name,
		Email:     apiutil.NullStringPtr(p.Email),
		Cell:      apiutil.NullStringPtr(p.Cell),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}

type historyView struct {
	MatchDate    string  `json:"match_date"`
	MatchTime    *string `json:"match_time"`
	IsHome       bool    `json:"is_home"`
	AwayAddress  *string `json:"away_address"`
	OpponentName *string `json:"opponent_name"`
	LineNumber   int64   `json:"line_number"`
	LineType     string  `json:"line_type"`
	Set1Us       *int64  `json:"set1_us"`
	Set1Them     *int64  `json:"set1_them"`
	Set2Us       *int64  `json:"set2_us"`
	Set2Them     *int64  `json:"set2_them"`
	Set3Us       *int64  `json:"set3_us"`
	Set3Them     *int64  `json:"set3_them"`
	Result       *string `json:"result"`
	PartnerNames *string `json:"partner_names"`
}

// GET /api/players
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	players, err := queries.ListPlayers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load players")
		return
	}

	views := make([]playerView, 0, len(players))
	for _, p := range players {
		views = append(views, toView(p))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/players/{id}. Player plus match history and win/loss record.
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	player, err := queries.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Player not found")
			return
		}
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to load player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load player")
		return
	}

	history, err := queries.ListPlayerLineHistory(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to load player history")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load player history")
		return
	}

	historyViews := make([]historyView, 0, len(history))
	for _, h := range history {
		historyViews = append(historyViews, historyView{
			MatchDate:    h.MatchDate,
			MatchTime:    apiutil.NullStringPtr(h.MatchTime),
			IsHome:       h.IsHome,
			AwayAddress:  apiutil.NullStringPtr(h.AwayAddress),
			OpponentName: apiutil.NullStringPtr(h.OpponentName),
			LineNumber:   h.LineNumber,
			LineType:     h.LineType,
			Set1Us:       apiutil.NullInt64Ptr(h.Set1Us),
			Set1Them:     apiutil.NullInt64Ptr(h.Set1Them),
			Set2Us:       apiutil.NullInt64Ptr(h.Set2Us),
			Set2Them:     apiutil.NullInt64Ptr(h.Set2Them),
			Set3Us:       apiutil.NullInt64Ptr(h.Set3Us),
			Set3Them:     apiutil.NullInt64Ptr(h.Set3Them),
			Result:       apiutil.NullStringPtr(h.Result),
			PartnerNames: apiutil.NullStringPtr(h.PartnerNames),
		})
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"player":  toView(player),
		"history": historyViews,
		"record":  stats.FromHistory(history),
	})
}

// POST /api/players
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req playerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	player, err := queries.CreatePlayer(ctx, appdb.CreatePlayerParams{
		Name:  name,
		Email: apiutil.ToNullString(req.Email),
		Cell:  apiutil.ToNullString(req.Cell),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create player")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, toView(player))
}

// PUT /api/players/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req playerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	if _, err := queries.GetPlayer(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Player not found")
			return
		}
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to load player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load player")
		return
	}

	player, err := queries.UpdatePlayer(ctx, appdb.UpdatePlayerParams{
		ID:     id,
		Name:   name,
		Email:  apiutil.ToNullString(req.Email),
		Cell:   apiutil.ToNullString(req.Cell),
		Active: active,
	})
	if err != nil {
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to update player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update player")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(player))
}

// DELETE /api/players/{id}. Destructive; availability and assignments cascade.
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	if err := queries.DeletePlayer(ctx, id); err != nil {
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to delete player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete player")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type importRequest struct {
	Players []playerRequest `json:"players"`
}

// POST /api/players/import. Bulk import; rows without a name are skipped.
func HandleImport(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req importRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Players == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "players must be an array")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	// The batch lands atomically: one bad row rolls back the whole import.
	imported := 0
	err := database.RunInTx(ctx, func(tx *appdb.DB) error {
		imported = 0
		for _, p := range req.Players {
			name, err := apiutil.RequireName(p.Name)
			if err != nil {
				continue
			}
			if _, err := tx.Queries.CreatePlayer(ctx, appdb.CreatePlayerParams{
				Name:  name,
				Email: apiutil.ToNullString(p.Email),
				Cell:  apiutil.ToNullString(p.Cell),
			}); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to import players")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to import players")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, map[string]int{"imported": imported})
}
