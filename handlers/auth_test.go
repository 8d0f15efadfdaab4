package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.investor("alice")

	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"x"}},
		{"username": {"alice"}},
	} {
		rec := app.do(http.MethodPost, "/", form, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: status %d, want 401", form, rec.Code)
		}
		var view struct {
			Messages []string `json:"messages"`
		}
		decode(t, rec, &view)
		if len(view.Messages) != 1 || view.Messages[0] != msgBadLogin {
			t.Fatalf("messages = %q", view.Messages)
		}
	}
}

func TestGuardedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard", "/submit", "/history", "/approve/1", "/logout"} {
		rec := app.do(http.MethodGet, path, nil, nil)
		expectRedirect(t, rec, "/")
	}
	rec := app.do(http.MethodGet, "/dashboard", nil, &http.Cookie{Name: "session", Value: "forged"})
	expectRedirect(t, rec, "/")
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	app.investor("alice")
	cookie := app.login("alice", "alice-pw")

	if rec := app.do(http.MethodGet, "/dashboard", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("dashboard before logout: %d", rec.Code)
	}
	expectRedirect(t, app.do(http.MethodGet, "/logout", nil, cookie), "/")
	expectRedirect(t, app.do(http.MethodGet, "/dashboard", nil, cookie), "/")
}

func TestBearerTokenAccepted(t *testing.T) {
	app := newTestApp(t)
	app.investor("alice")
	cookie := app.login("alice", "alice-pw")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer dashboard: %d", rec.Code)
	}
}
