package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"
)

// TestAccessToken is what the fake token endpoint hands out.
const TestAccessToken = "gho_test_token"

// GitHubFixture describes what the fake GitHub answers.
type GitHubFixture struct {
	Profile        map[string]any
	Emails         []map[string]any
	SocialAccounts []map[string]any

	// FailPath makes that API path (e.g. "/user/emails") answer 500.
	FailPath string
	// RejectCode makes the token endpoint refuse that code.
	RejectCode string
}

// GitHubServer is an httptest stand-in for github.com and api.github.com.
type GitHubServer struct {
	*httptest.Server
	Calls atomic.Int32
}

// NewGitHubServer starts a fake GitHub that is shut down with the test.
func NewGitHubServer(t *testing.T, fixture GitHubFixture) *GitHubServer {
	t.Helper()

	s := &GitHubServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		s.Calls.Add(1)
		_ = r.ParseForm()
		if r.Form.Get("code") == "" || r.Form.Get("code") == fixture.RejectCode {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "bad_verification_code"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": TestAccessToken,
			"token_type":   "bearer",
			"scope":        "user:email",
		})
	})

	api := func(path string, body func() any) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			s.Calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer "+TestAccessToken {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
				return
			}
			if !strings.Contains(r.Header.Get("Accept"), "application/vnd.github+json") {
				writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad accept"})
				return
			}
			if fixture.FailPath == path {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
				return
			}
			writeJSON(w, http.StatusOK, body())
		})
	}
	api("/user", func() any { return fixture.Profile })
	api("/user/emails", func() any { return orEmpty(fixture.Emails) })
	api("/user/social_accounts", func() any { return orEmpty(fixture.SocialAccounts) })

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Endpoint points golang.org/x/oauth2 at the fake server.
func (s *GitHubServer) Endpoint() *oauth2.Endpoint {
	return &oauth2.Endpoint{
		AuthURL:   s.URL + "/login/oauth/authorize",
		TokenURL:  s.URL + "/login/oauth/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func orEmpty(list []map[string]any) []map[string]any {
	if list == nil {
		return []map[string]any{}
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
