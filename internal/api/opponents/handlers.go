// internal/api/opponents/handlers.go
package opponents

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

const opponentQueryTimeout = 5 * time.Second

var queries *appdb.Queries

func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

type opponentRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type opponentView struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func toView(o appdb.Opponent) opponentView {
	return opponentView{
		ID:      o.ID,
		Name:    o.Name,
		Address: apiutil.NullStringPtr(o.Address),
		Notes:   apiutil.NullStringPtr(o.Notes),
	}
}

// GET /api/opponents
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), opponentQueryTimeout)
	defer cancel()

	opponents, err := queries.ListOpponents(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list opponents")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load opponents")
		return
	}

	views := make([]opponentView, 0, len(opponents))
	for _, o := range opponents {
		views = append(views, toView(o))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/opponents/{id}
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opponentQueryTimeout)
	defer cancel()

	opponent, err := queries.GetOpponent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Opponent not found")
			return
		}
		logger.Error().Err(err).Int64("opponent_id", id).Msg("Failed to load opponent")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load opponent")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(opponent))
}

// POST /api/opponents
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req opponentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opponentQueryTimeout)
	defer cancel()

	opponent, err := queries.CreateOpponent(ctx, appdb.OpponentParams{
		Name:    name,
		Address: apiutil.ToNullString(req.Address),
		Notes:   apiutil.ToNullString(req.Notes),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create opponent")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create opponent")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusCreated, toView(opponent))
}

// PUT /api/opponents/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req opponentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opponentQueryTimeout)
	defer cancel()

	opponent, err := queries.UpdateOpponent(ctx, id, appdb.OpponentParams{
		Name:    name,
		Address: apiutil.ToNullString(req.Address),
		Notes:   apiutil.ToNullString(req.Notes),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Opponent not found")
			return
		}
		logger.Error().Err(err).Int64("opponent_id", id).Msg("Failed to update opponent")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update opponent")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(opponent))
}

// DELETE /api/opponents/{id}. Matches that referenced them keep a NULL opponent.
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opponentQueryTimeout)
	defer cancel()

	if err := queries.DeleteOpponent(ctx, id); err != nil {
		logger.Error().Err(err).Int64("opponent_id", id).Msg("Failed to delete opponent")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete opponent")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
