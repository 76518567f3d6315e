// internal/api/teams/handlers.go
package teams

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/api/apiutil"
	appdb "github.com/courtcall/courtcall/internal/db"
)

const teamQueryTimeout = 5 * time.Second

var queries *appdb.Queries

func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type teamView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toView(team appdb.Team) teamView {
	return teamView{
		ID:          team.ID,
		Name:        team.Name,
		Description: apiutil.NullStringPtr(team.Description),
		Active:      team.Active,
		CreatedAt:   team.CreatedAt,
	}
}

type rosterView struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Cell   *string `json:"cell"`
	Active bool    `json:"active"`
}

func toRosterViews(players []appdb.Player) []rosterView {
	views := make([]rosterView, 0, len(players))
	for _, p := range players {
		views = append(views, rosterView{
			ID:     p.ID,
			Name:   p.Name,
			Email:  apiutil.NullStringPtr(p.Email),
			Cell:   apiutil.NullStringPtr(p.Cell),
			Active: p.Active,
		})
	}
	return views
}

// GET /api/teams. Active teams first, then by name.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	teams, err := queries.ListTeams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load teams")
		return
	}

	views := make([]teamView, 0, len(teams))
	for _, team := range teams {
		views = append(views, toView(team))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/teams/{id}
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := queries.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Team not found")
			return
		}
		logger.Error().Err(err).Int64("team_id", id).Msg("Failed to load team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load team")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(team))
}

// POST /api/teams
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := queries.CreateTeam(ctx, name, apiutil.ToNullString(req.Description))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, toView(team))
}

// PUT /api/teams/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req teamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := queries.UpdateTeam(ctx, id, name, apiutil.ToNullString(req.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Team not found")
			return
		}
		logger.Error().Err(err).Int64("team_id", id).Msg("Failed to update team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update team")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(team))
}

// PATCH /api/teams/{id}/activate and /api/teams/{id}/deactivate. Deactivated
// teams keep their history but drop out of the public availability pages.
func HandleSetActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())

		id, err := apiutil.PathID(r, "id")
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
		defer cancel()

		if _, err := queries.GetTeam(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				apiutil.WriteError(w, http.StatusNotFound, "Team not found")
				return
			}
			logger.Error().Err(err).Int64("team_id", id).Msg("Failed to load team")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load team")
			return
		}

		if err := queries.SetTeamActive(ctx, id, active); err != nil {
			logger.Error().Err(err).Int64("team_id", id).Msg("Failed to change team status")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to change team status")
			return
		}

		_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true, "active": active})
	}
}

// GET /api/teams/{id}/players
func HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	players, err := queries.ListTeamPlayers(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", id).Msg("Failed to list team players")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toRosterViews(players))
}

type addPlayerRequest struct {
	PlayerID int64 `json:"player_id"`
}

// POST /api/teams/{id}/players. Adding an existing member is a no-op.
func HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req addPlayerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	if _, err := queries.GetTeam(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Team not found")
			return
		}
		logger.Error().Err(err).Int64("team_id", id).Msg("Failed to load team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load team")
		return
	}
	if _, err := queries.GetPlayer(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Player not found")
			return
		}
		logger.Error().Err(err).Int64("player_id", req.PlayerID).Msg("Failed to load player")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load player")
		return
	}

	if err := queries.AddTeamPlayer(ctx, id, req.PlayerID); err != nil {
		logger.Error().Err(err).
			Int64("team_id", id).
			Int64("player_id", req.PlayerID).
			Msg("Failed to add player to team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to add player to team")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// DELETE /api/teams/{id}/players/{playerId}
func HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	playerID, err := apiutil.PathID(r, "playerId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	if err := queries.RemoveTeamPlayer(ctx, id, playerID); err != nil {
		logger.Error().Err(err).
			Int64("team_id", id).
			Int64("player_id", playerID).
			Msg("Failed to remove player from team")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to remove player from team")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
