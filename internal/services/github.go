package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	defaultGitHubAPIBaseURL = "https://api.github.com"
	gitHubUserAgent         = "cfp-server-auth"
	gitHubRequestTimeout    = 10 * time.Second
)

// GitHubProfile is the subset of GET /user used to build a member.
type GitHubProfile struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL string  `json:"avatar_url"`
	Company   *string `json:"company"`
	Bio       *string `json:"bio"`
	HTMLURL   string  `json:"html_url"`
	Location  *string `json:"location"`
}

// GitHubEmail is one entry of GET /user/emails.
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubSocialAccount is one entry of GET /user/social_accounts.
type GitHubSocialAccount struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// GitHubProvider is the remote side of the OAuth login.
type GitHubProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*GitHubProfile, error)
	FetchEmails(ctx context.Context, accessToken string) ([]GitHubEmail, error)
	FetchSocialAccounts(ctx context.Context, accessToken string) ([]GitHubSocialAccount, error)
}

// GitHubConfig holds the OAuth app credentials.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and APIBaseURL default to github.com; tests point them elsewhere.
	Endpoint   *oauth2.Endpoint
	APIBaseURL string
	HTTPClient *http.Client
}

// GitHubClient talks to github.com through golang.org/x/oauth2 and the REST API.
type GitHubClient struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// NewGitHubClient creates a new GitHubClient.
func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	endpoint := github.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}

	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultGitHubAPIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: gitHubRequestTimeout}
	}

	return &GitHubClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the authorization page URL carrying state.
func (c *GitHubClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token.
func (c *GitHubClient) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}
	return token.AccessToken, nil
}

// FetchProfile calls GET /user.
func (c *GitHubClient) FetchProfile(ctx context.Context, accessToken string) (*GitHubProfile, error) {
	var profile GitHubProfile
	if err := c.get(ctx, "user", accessToken, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FetchEmails calls GET /user/emails.
func (c *GitHubClient) FetchEmails(ctx context.Context, accessToken string) ([]GitHubEmail, error) {
	var emails []GitHubEmail
	if err := c.get(ctx, "user/emails", accessToken, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// FetchSocialAccounts calls GET /user/social_accounts.
func (c *GitHubClient) FetchSocialAccounts(ctx context.Context, accessToken string) ([]GitHubSocialAccount, error) {
	var accounts []GitHubSocialAccount
	if err := c.get(ctx, "user/social_accounts", accessToken, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *GitHubClient) get(ctx context.Context, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("GitHub API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", gitHubUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GitHub API %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GitHub API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GitHub API %s: decode response: %w", endpoint, err)
	}
	return nil
}
