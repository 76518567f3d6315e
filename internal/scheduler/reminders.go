package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/availability"
	"github.com/courtcall/courtcall/internal/config"
	"github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/lineup"
	"github.com/courtcall/courtcall/internal/notify"
)

const reminderJobTimeout = 2 * time.Minute

// RegisterReminderJobs registers the availability reminder task. Every run
// looks at scheduled matches up to DaysBefore days out and nudges players who
// have not responded yet. Delivery is best-effort: players without a cell get
// an email when the email client is configured, and failures only log.
func RegisterReminderJobs(database *db.DB, cfg *config.Config, sms notify.SMSSender, email notify.EmailSender) error {
	if database == nil {
		return fmt.Errorf("reminder jobs require database")
	}
	if cfg == nil || !cfg.Reminders.Enabled {
		log.Debug().Msg("Availability reminders disabled")
		return nil
	}

	jobName := "availability_reminders"
	jobLogger := log.With().
		Str("component", "availability_reminders_job").
		Str("job_name", jobName).
		Str("cron", cfg.Reminders.Cron).
		Logger()

	daysBefore := cfg.Reminders.DaysBefore
	baseURL := cfg.App.BaseURL

	_, err := AddJob(jobName, cfg.Reminders.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if sms == nil && email == nil {
			jobLogger.Debug().Msg("Reminder job skipped: no delivery channel configured")
			return
		}

		now := time.Now()
		from := now.Format("2006-01-02")
		to := now.AddDate(0, 0, daysBefore).Format("2006-01-02")

		matches, err := database.Queries.ListScheduledMatchesBetween(ctx, from, to)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load upcoming matches for reminders")
			return
		}

		for _, m := range matches {
			if err := remindMatch(ctx, database, m, baseURL, sms, email); err != nil {
				jobLogger.Error().Err(err).Int64("match_id", m.ID).Msg("Failed to send availability reminders")
			}
		}
	})
	if err != nil {
		return fmt.Errorf("add availability reminder job: %w", err)
	}

	return nil
}

// remindMatch messages every roster player still in the NoResponse bucket.
func remindMatch(ctx context.Context, database *db.DB, m db.MatchListRow, baseURL string, sms notify.SMSSender, email notify.EmailSender) error {
	logger := log.Ctx(ctx).With().Int64("match_id", m.ID).Logger()

	var roster []db.Player
	var err error
	if m.TeamID.Valid {
		roster, err = database.Queries.ListActiveTeamPlayers(ctx, m.TeamID.Int64)
	} else {
		roster, err = database.Queries.ListActivePlayers(ctx)
	}
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if len(roster) == 0 {
		return nil
	}

	rows, err := database.Queries.ListMatchAvailability(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("load availability: %w", err)
	}
	matchLines, err := database.Queries.ListMatchLines(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("load lines: %w", err)
	}

	refs := make([]availability.PlayerRef, 0, len(roster))
	byID := make(map[int64]db.Player, len(roster))
	for _, p := range roster {
		refs = append(refs, availability.PlayerRef{ID: p.ID, Name: p.Name})
		byID[p.ID] = p
	}
	lines := make([]availability.Line, 0, len(matchLines))
	for _, l := range matchLines {
		lines = append(lines, availability.Line{
			ID:         l.ID,
			LineNumber: l.LineNumber,
			LineType:   l.LineType,
			CustomDate: l.CustomDate.String,
			CustomTime: l.CustomTime.String,
		})
	}
	responses := make([]availability.Response, 0, len(rows))
	for _, row := range rows {
		var lineID *int64
		if row.MatchLineID.Valid {
			id := row.MatchLineID.Int64
			lineID = &id
		}
		responses = append(responses, availability.Response{
			PlayerID:    row.PlayerID,
			MatchLineID: lineID,
			Available:   row.Available,
		})
	}

	summary := availability.Aggregate(m.UseCustomDates, lines, refs, responses)
	if len(summary.NoResponse) == 0 {
		return nil
	}

	info := lineup.MatchInfo{
		ID:           m.ID,
		OpponentName: m.OpponentName.String,
		TeamName:     "",
		Date:         m.MatchDate,
		Time:         m.MatchTime.String,
		IsHome:       m.IsHome,
		AwayAddress:  m.AwayAddress.String,
	}

	for _, ref := range summary.NoResponse {
		player := byID[ref.ID]
		body := lineup.AvailabilityRequest(info, baseURL, lineup.Player{ID: player.ID, Name: player.Name})

		switch {
		case player.Cell.Valid && sms != nil:
			if err := sms.SendSMS(ctx, notify.NormalizePhone(player.Cell.String), body); err != nil {
				logger.Warn().Err(err).Int64("player_id", player.ID).Msg("Reminder SMS failed")
			}
		case player.Email.Valid && email != nil:
			if err := email.Send(ctx, player.Email.String, "Tennis match availability", body); err != nil {
				logger.Warn().Err(err).Int64("player_id", player.ID).Msg("Reminder email failed")
			}
		default:
			logger.Debug().Int64("player_id", player.ID).Msg("No reminder channel for player")
		}
	}

	return nil
}
