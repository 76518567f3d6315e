// internal/api/auth/session.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"
)

const (
	sessionCookieName      = "courtcall_session"
	sessionTTL             = 8 * time.Hour
	sessionTokenBytes      = 32
	sessionCleanupInterval = 15 * time.Minute
)

type sessionRecord struct {
	ExpiresAt time.Time
}

var (
	sessionMu sync.RWMutex
	// In-memory sessions are intentionally ephemeral: a restart logs the
	// captain out, nothing more.
	sessionStore       = make(map[string]sessionRecord)
	sessionCleanupOnce sync.Once

	environment = "development"
)

// SetEnvironment controls the Secure flag on session cookies.
func SetEnvironment(env string) {
	environment = env
}

func isSecureCookie() bool {
	return environment != "development"
}

// CreateSession issues a captain session token and sets the cookie.
func CreateSession(w http.ResponseWriter) error {
	if w == nil {
		return errors.New("session requires response writer")
	}

	startSessionCleanup()

	token, err := newSessionToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(sessionTTL)
	sessionMu.Lock()
	sessionStore[token] = sessionRecord{ExpiresAt: expiresAt}
	sessionMu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(sessionTTL.Seconds()),
	})

	return nil
}

// ClearSession drops the session and expires the cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	if r != nil {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			deleteSession(cookie.Value)
		}
	}

	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// SessionFromRequest reports whether the request carries a live session.
func SessionFromRequest(r *http.Request) bool {
	if r == nil {
		return false
	}

	startSessionCleanup()

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	sessionMu.RLock()
	record, ok := sessionStore[cookie.Value]
	sessionMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(record.ExpiresAt) {
		deleteSession(cookie.Value)
		return false
	}
	return true
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func deleteSession(token string) {
	sessionMu.Lock()
	delete(sessionStore, token)
	sessionMu.Unlock()
}

func startSessionCleanup() {
	sessionCleanupOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(sessionCleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				sessionMu.Lock()
				for token, record := range sessionStore {
					if now.After(record.ExpiresAt) {
						delete(sessionStore, token)
					}
				}
				sessionMu.Unlock()
			}
		}()
	})
}
