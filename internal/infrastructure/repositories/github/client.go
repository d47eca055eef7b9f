package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com"

// NewTokenClient creates a *gh.Client authenticated with a static token.
// An empty token yields an anonymous client. baseURL overrides the API root
// for GitHub Enterprise.
func NewTokenClient(token, baseURL string) *gh.Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := gh.NewClient(httpClient)
	applyBaseURL(client, baseURL)
	return client
}

// NewAppClient creates a *gh.Client authenticated as a GitHub App installation.
func NewAppClient(appID, installationID int64, privateKeyPath, baseURL string) (*gh.Client, error) {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = defaultAPIURL
	}

	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load github app key: %w", err)
	}
	tr.BaseURL = base

	client := gh.NewClient(&http.Client{Transport: tr})
	applyBaseURL(client, baseURL)
	return client, nil
}

func applyBaseURL(client *gh.Client, baseURL string) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(baseURL + "/")
	if err != nil {
		return
	}
	client.BaseURL = u
}
