package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"account-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type providerFixture struct {
	profile       map[string]any
	emails        []map[string]any
	profileStatus int
}

// newProvider stands in for GitHub: it serves the token exchange, the
// profile endpoint and the emails endpoint from one httptest server.
func newProvider(t *testing.T, fx providerFixture) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			http.Error(w, "bad code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-token",
			"token_type":   "bearer",
		})
	})

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if fx.profileStatus != 0 {
			w.WriteHeader(fx.profileStatus)
			return
		}
		json.NewEncoder(w).Encode(fx.profile)
	})

	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fx.emails)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestStrategy(srv *httptest.Server) *gitHubStrategy {
	return &gitHubStrategy{
		config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8080/api/users/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  srv.URL + "/login/oauth/authorize",
				TokenURL: srv.URL + "/login/oauth/access_token",
			},
		},
		apiURL: srv.URL,
	}
}

func TestAuthURLCarriesStateAndScope(t *testing.T) {
	strategy := NewGitHubStrategy(utils.OAuthConfig{
		GitHubClientID:     "client-id",
		GitHubClientSecret: "client-secret",
		CallbackURL:        "http://localhost:8080/api/users/github/callback",
	})

	raw := strategy.AuthURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "state-123", query.Get("state"))
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "user:email", query.Get("scope"))
	assert.Equal(t, "github.com", parsed.Host)
}

func TestAuthenticateUsesPublicProfileEmail(t *testing.T) {
	srv := newProvider(t, providerFixture{
		profile: map[string]any{
			"email": "ada@example.com",
			"name":  "Ada Lovelace",
			"login": "ada",
		},
	})
	strategy := newTestStrategy(srv)

	identity, err := strategy.Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada Lovelace", identity.Name)
}

func TestAuthenticateFallsBackToPrimaryVerifiedEmail(t *testing.T) {
	srv := newProvider(t, providerFixture{
		profile: map[string]any{
			"email": "",
			"name":  "",
			"login": "ada",
		},
		emails: []map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "ada@example.com", "primary": true, "verified": true},
		},
	})
	strategy := newTestStrategy(srv)

	identity, err := strategy.Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "ada", identity.Name, "login stands in for a missing display name")
}

func TestAuthenticateFallsBackToFirstEmailWithoutPrimary(t *testing.T) {
	srv := newProvider(t, providerFixture{
		profile: map[string]any{"email": "", "login": "ada"},
		emails: []map[string]any{
			{"email": "first@example.com", "primary": false, "verified": false},
			{"email": "second@example.com", "primary": false, "verified": false},
		},
	})
	strategy := newTestStrategy(srv)

	identity, err := strategy.Authenticate(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", identity.Email)
}

func TestAuthenticateFailsWithoutAnyEmail(t *testing.T) {
	srv := newProvider(t, providerFixture{
		profile: map[string]any{"email": "", "login": "ada"},
		emails:  []map[string]any{},
	})
	strategy := newTestStrategy(srv)

	_, err := strategy.Authenticate(context.Background(), "good-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email")
}

func TestAuthenticateRejectsBadCode(t *testing.T) {
	srv := newProvider(t, providerFixture{
		profile: map[string]any{"email": "ada@example.com"},
	})
	strategy := newTestStrategy(srv)

	_, err := strategy.Authenticate(context.Background(), "bad-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange oauth code")
}

func TestAuthenticateSurfacesProfileFailure(t *testing.T) {
	srv := newProvider(t, providerFixture{profileStatus: http.StatusForbidden})
	strategy := newTestStrategy(srv)

	_, err := strategy.Authenticate(context.Background(), "good-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
