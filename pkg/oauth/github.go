package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"account-service/pkg/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Identity is what a successful provider exchange yields: enough to match
// the account by email.
type Identity struct {
	Email string
	Name  string
}

// Strategy is a pluggable delegated-authentication provider. AuthURL starts
// the flow; Authenticate turns the callback code into an Identity.
type Strategy interface {
	AuthURL(state string) string
	Authenticate(ctx context.Context, code string) (*Identity, error)
}

type gitHubStrategy struct {
	config *oauth2.Config
	apiURL string
}

// NewGitHubStrategy builds a Strategy backed by GitHub OAuth with the
// user:email scope.
func NewGitHubStrategy(cfg utils.OAuthConfig) Strategy {
	return &gitHubStrategy{
		config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

func (s *gitHubStrategy) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

func (s *gitHubStrategy) Authenticate(ctx context.Context, code string) (*Identity, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	client := s.config.Client(ctx, token)

	profile, err := s.fetchProfile(ctx, client)
	if err != nil {
		return nil, err
	}

	// The public profile email may be hidden; fall back to the primary
	// address from the emails endpoint.
	if profile.Email == "" {
		email, err := s.fetchPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		profile.Email = email
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("provider returned no email address")
	}

	return profile, nil
}

func (s *gitHubStrategy) fetchProfile(ctx context.Context, client *http.Client) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch provider profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider profile request returned %d", resp.StatusCode)
	}

	var payload struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode provider profile: %w", err)
	}

	name := payload.Name
	if name == "" {
		name = payload.Login
	}

	return &Identity{Email: payload.Email, Name: name}, nil
}

func (s *gitHubStrategy) fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/user/emails", nil)
	if err != nil {
		return "", fmt.Errorf("build emails request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch provider emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider emails request returned %d", resp.StatusCode)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("decode provider emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}

	return "", nil
}
