// internal/api/seasons/handlers.go
package seasons

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

const seasonQueryTimeout = 5 * time.Second

var (
	queries  *appdb.Queries
	database *appdb.DB
)

func InitHandlers(db *appdb.DB) {
	if db == nil {
		return
	}
	database = db
	queries = db.Queries
}

type lineTemplateRequest struct {
	LineNumber int64  `json:"line_number"`
	LineType   string `json:"line_type"`
}

type seasonRequest struct {
	Name             string                `json:"name"`
	DefaultDayOfWeek *int64                `json:"default_day_of_week"`
	DefaultTime      string                `json:"default_time"`
	TeamID           *int64                `json:"team_id"`
	Lines            []lineTemplateRequest `json:"lines"`
}

type lineTemplateView struct {
	LineNumber int64  `json:"line_number"`
	LineType   string `json:"line_type"`
}

type seasonView struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	DefaultDayOfWeek *int64             `json:"default_day_of_week"`
	DefaultTime      *string            `json:"default_time"`
	TeamID           *int64             `json:"team_id"`
	CreatedAt        time.Time          `json:"created_at"`
	Lines            []lineTemplateView `json:"lines"`
}

func toView(s appdb.Season, templates []appdb.LineTemplate) seasonView {
	lines := make([]lineTemplateView, 0, len(templates))
	for _, tpl := range templates {
		lines = append(lines, lineTemplateView{LineNumber: tpl.LineNumber, LineType: tpl.LineType})
	}
	return seasonView{
		ID:               s.ID,
		Name:             s.Name,
		DefaultDayOfWeek: apiutil.NullInt64Ptr(s.DefaultDayOfWeek),
		DefaultTime:      apiutil.NullStringPtr(s.DefaultTime),
		TeamID:           apiutil.NullInt64Ptr(s.TeamID),
		CreatedAt:        s.CreatedAt,
		Lines:            lines,
	}
}

func validateLines(lines []lineTemplateRequest) error {
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

// GET /api/seasons?team_id=N. Newest first; team_id narrows to one team.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, hasTeam, err := apiutil.QueryInt64(r, "team_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	var seasons []appdb.Season
	if hasTeam {
		seasons, err = queries.ListSeasonsByTeam(ctx, teamID)
	} else {
		seasons, err = queries.ListSeasons(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list seasons")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load seasons")
		return
	}

	views := make([]seasonView, 0, len(seasons))
	for _, s := range seasons {
		templates, err := queries.ListLineTemplates(ctx, s.ID)
		if err != nil {
			logger.Error().Err(err).Int64("season_id", s.ID).Msg("Failed to load line templates")
			apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load seasons")
			return
		}
		views = append(views, toView(s, templates))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/seasons/{id}
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	season, err := queries.GetSeason(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Season not found")
			return
		}
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to load season")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load season")
		return
	}

	templates, err := queries.ListLineTemplates(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to load line templates")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load season")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, toView(season, templates))
}

// POST /api/seasons. The season and its line templates land in one transaction.
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req seasonRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateLines(req.Lines); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	var created appdb.Season
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		var txErr error
		created, txErr = tx.Queries.CreateSeason(ctx, appdb.SeasonParams{
			Name:             name,
			DefaultDayOfWeek: apiutil.ToNullInt64(req.DefaultDayOfWeek),
			DefaultTime:      apiutil.ToNullString(req.DefaultTime),
			TeamID:           apiutil.ToNullInt64(req.TeamID),
		})
		if txErr != nil {
			return txErr
		}
		for _, line := range req.Lines {
			if txErr := tx.Queries.CreateLineTemplate(ctx, created.ID, line.LineNumber, line.LineType); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create season")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create season")
		return
	}

	templates, err := queries.ListLineTemplates(ctx, created.ID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", created.ID).Msg("Failed to load line templates")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create season")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, toView(created, templates))
}

// PUT /api/seasons/{id}. Line templates are replaced wholesale when provided.
// Existing matches keep the lines they were seeded with.
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req seasonRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, err := apiutil.RequireName(req.Name)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateLines(req.Lines); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	if _, err := queries.GetSeason(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusNotFound, "Season not found")
			return
		}
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to load season")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to load season")
		return
	}

	var updated appdb.Season
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		var txErr error
		updated, txErr = tx.Queries.UpdateSeason(ctx, id, appdb.SeasonParams{
			Name:             name,
			DefaultDayOfWeek: apiutil.ToNullInt64(req.DefaultDayOfWeek),
			DefaultTime:      apiutil.ToNullString(req.DefaultTime),
		})
		if txErr != nil {
			return txErr
		}
		if req.Lines == nil {
			return nil
		}
		if txErr := tx.Queries.DeleteLineTemplates(ctx, id); txErr != nil {
			return txErr
		}
		for _, line := range req.Lines {
			if txErr := tx.Queries.CreateLineTemplate(ctx, id, line.LineNumber, line.LineType); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to update season")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update season")
		return
	}

	templates, err := queries.ListLineTemplates(ctx, id)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to load line templates")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to update season")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, toView(updated, templates))
}

// DELETE /api/seasons/{id}. Matches in the season survive with season_id NULL.
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seasonQueryTimeout)
	defer cancel()

	if err := queries.DeleteSeason(ctx, id); err != nil {
		logger.Error().Err(err).Int64("season_id", id).Msg("Failed to delete season")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to delete season")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
