// internal/api/auth/handlers.go
package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtcall/courtcall/internal/api/apiutil"
)

var captainPasswordHash string

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(passwordHash, env string) {
	captainPasswordHash = passwordHash
	SetEnvironment(env)
}

type loginRequest struct {
	Password string `json:"password"`
}

// POST /api/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if captainPasswordHash == "" {
		logger.Error().Msg("Captain password hash not configured")
		apiutil.WriteError(w, http.StatusInternalServerError, "Login not configured")
		return
	}

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !VerifyPassword(captainPasswordHash, req.Password) {
		logger.Warn().Msg("Captain login rejected")
		apiutil.WriteError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := CreateSession(w); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		apiutil.WriteError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/auth/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
