// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtcall/courtcall/internal/api"
	availapi "github.com/courtcall/courtcall/internal/api/availability"
	"github.com/courtcall/courtcall/internal/api/auth"
	"github.com/courtcall/courtcall/internal/api/matches"
	"github.com/courtcall/courtcall/internal/api/opponents"
	"github.com/courtcall/courtcall/internal/api/players"
	"github.com/courtcall/courtcall/internal/api/seasons"
	"github.com/courtcall/courtcall/internal/api/teams"
	"github.com/courtcall/courtcall/internal/config"
	"github.com/courtcall/courtcall/internal/db"
	"github.com/courtcall/courtcall/internal/notify"
)

func newServer(cfg *config.Config, database *db.DB, sms notify.SMSSender, email notify.EmailSender) *http.Server {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	auth.InitHandlers(cfg.Auth.CaptainPasswordHash, cfg.App.Environment)
	players.InitHandlers(database)
	teams.InitHandlers(database)
	opponents.InitHandlers(database)
	seasons.InitHandlers(database)
	matches.InitHandlers(database)
	availapi.InitHandlers(database, availapi.Options{
		BaseURL:  cfg.App.BaseURL,
		TokenTTL: time.Duration(cfg.Availability.TokenTTLDays) * 24 * time.Hour,
		SMS:      sms,
		Email:    email,
	})

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session endpoints.
	mux.HandleFunc("POST /api/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", auth.HandleLogout)

	// Player-facing availability surface. The shared or personal link is the
	// only credential.
	mux.HandleFunc("GET /api/availability/match/{matchId}/team", availapi.HandleTeamPage)
	mux.HandleFunc("GET /api/availability/match/{matchId}/player/{playerId}", availapi.HandlePlayerAvailability)
	mux.HandleFunc("POST /api/availability/match/{matchId}/respond", availapi.HandleRespond)
	mux.HandleFunc("GET /api/availability/respond/{token}", availapi.HandleTokenPage)
	mux.HandleFunc("POST /api/availability/respond/{token}", availapi.HandleTokenRespond)

	// Everything below requires a captain session.
	protected := http.NewServeMux()

	protected.HandleFunc("GET /api/players", players.HandleList)
	protected.HandleFunc("POST /api/players", players.HandleCreate)
	protected.HandleFunc("POST /api/players/import", players.HandleImport)
	protected.HandleFunc("GET /api/players/{id}", players.HandleGet)
	protected.HandleFunc("PUT /api/players/{id}", players.HandleUpdate)
	protected.HandleFunc("DELETE /api/players/{id}", players.HandleDelete)

	protected.HandleFunc("GET /api/teams", teams.HandleList)
	protected.HandleFunc("POST /api/teams", teams.HandleCreate)
	protected.HandleFunc("GET /api/teams/{id}", teams.HandleGet)
	protected.HandleFunc("PUT /api/teams/{id}", teams.HandleUpdate)
	protected.HandleFunc("PATCH /api/teams/{id}/activate", teams.HandleSetActive(true))
	protected.HandleFunc("PATCH /api/teams/{id}/deactivate", teams.HandleSetActive(false))
	protected.HandleFunc("GET /api/teams/{id}/players", teams.HandleListPlayers)
	protected.HandleFunc("POST /api/teams/{id}/players", teams.HandleAddPlayer)
	protected.HandleFunc("DELETE /api/teams/{id}/players/{playerId}", teams.HandleRemovePlayer)

	protected.HandleFunc("GET /api/opponents", opponents.HandleList)
	protected.HandleFunc("POST /api/opponents", opponents.HandleCreate)
	protected.HandleFunc("GET /api/opponents/{id}", opponents.HandleGet)
	protected.HandleFunc("PUT /api/opponents/{id}", opponents.HandleUpdate)
	protected.HandleFunc("DELETE /api/opponents/{id}", opponents.HandleDelete)

	protected.HandleFunc("GET /api/seasons", seasons.HandleList)
	protected.HandleFunc("POST /api/seasons", seasons.HandleCreate)
	protected.HandleFunc("GET /api/seasons/{id}", seasons.HandleGet)
	protected.HandleFunc("PUT /api/seasons/{id}", seasons.HandleUpdate)
	protected.HandleFunc("DELETE /api/seasons/{id}", seasons.HandleDelete)

	protected.HandleFunc("GET /api/matches", matches.HandleList)
	protected.HandleFunc("POST /api/matches", matches.HandleCreate)
	protected.HandleFunc("GET /api/matches/{id}", matches.HandleGet)
	protected.HandleFunc("PUT /api/matches/{id}", matches.HandleUpdate)
	protected.HandleFunc("DELETE /api/matches/{id}", matches.HandleDelete)
	protected.HandleFunc("PATCH /api/matches/{id}/lines/{lineId}", matches.HandleUpdateLine)
	protected.HandleFunc("POST /api/matches/{id}/lines/{lineId}/players", matches.HandleAssignPlayers)
	protected.HandleFunc("POST /api/matches/{id}/lines/{lineId}/score", matches.HandleRecordScore)

	protected.HandleFunc("GET /api/availability/match/{matchId}", availapi.HandleMatchAvailability)
	protected.HandleFunc("POST /api/availability/notify/{matchId}", availapi.HandleNotify)
	protected.HandleFunc("POST /api/availability/notify-assignment/{matchId}", availapi.HandleNotifyAssignment)
	protected.HandleFunc("POST /api/availability/send-sms", availapi.HandleSendSMS)
	protected.HandleFunc("POST /api/availability/tokens/{matchId}", availapi.HandleMintTokens)

	mux.Handle("/api/", api.WithCaptainAuth(protected))
}
