package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("expected session cookie")
	return nil
}

func TestCreateSessionRoundtrip(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := CreateSession(rec); err != nil {
		t.Fatalf("create session: %v", err)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value == "" {
		t.Fatal("expected non-empty token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.AddCookie(cookie)
	if !SessionFromRequest(req) {
		t.Fatal("expected session to be valid")
	}
}

func TestSessionRejectsUnknownToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})
	if SessionFromRequest(req) {
		t.Fatal("expected forged token to be rejected")
	}
}

func TestSessionRejectsMissingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	if SessionFromRequest(req) {
		t.Fatal("expected request without cookie to be rejected")
	}
}

func TestClearSessionInvalidatesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := CreateSession(rec); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookieFrom(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	ClearSession(httptest.NewRecorder(), req)

	check := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	check.AddCookie(cookie)
	if SessionFromRequest(check) {
		t.Fatal("expected cleared session to be invalid")
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := CreateSession(rec); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookieFrom(t, rec)

	sessionMu.Lock()
	sessionStore[cookie.Value] = sessionRecord{ExpiresAt: time.Now().Add(-time.Minute)}
	sessionMu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.AddCookie(cookie)
	if SessionFromRequest(req) {
		t.Fatal("expected expired session to be rejected")
	}
}
