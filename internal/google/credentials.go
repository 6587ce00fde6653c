package google

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoToken is returned when no stored OAuth token is available.
var ErrNoToken = errors.New("no Google OAuth token found")

// authorizedUser is the token document written by Google's client libraries
// ("authorized_user" credentials). It carries its own client id and secret.
type authorizedUser struct {
	Token        string    `json:"token"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Expiry       time.Time `json:"expiry"`
}

// ParseToken decodes a stored token. It accepts the authorized-user JSON
// format, an oauth2.Token JSON document, and the legacy "ACCESS REFRESH"
// whitespace-separated form. The returned config is non-nil only when the
// document embeds client credentials.
func ParseToken(data []byte) (*oauth2.Token, *oauth2.Config, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil, ErrNoToken
	}

	if !strings.HasPrefix(trimmed, "{") {
		f := strings.Fields(trimmed)
		if len(f) != 2 {
			return nil, nil, fmt.Errorf("invalid token format")
		}
		return &oauth2.Token{
			AccessToken:  f[0],
			TokenType:    "Bearer",
			RefreshToken: f[1],
			Expiry:       time.Unix(1, 0),
		}, nil, nil
	}

	var doc authorizedUser
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode token: %w", err)
	}

	access := doc.AccessToken
	if access == "" {
		access = doc.Token
	}
	if access == "" && doc.RefreshToken == "" {
		return nil, nil, fmt.Errorf("token has neither access nor refresh token")
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: doc.RefreshToken,
		Expiry:       doc.Expiry,
	}

	var conf *oauth2.Config
	if doc.ClientID != "" && doc.ClientSecret != "" {
		endpoint := google.Endpoint
		if doc.TokenURI != "" {
			endpoint.TokenURL = doc.TokenURI
		}
		conf = &oauth2.Config{
			ClientID:     doc.ClientID,
			ClientSecret: doc.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       CalendarScopes,
		}
	}

	return tok, conf, nil
}

// ConfigFromCredentials parses an OAuth client credentials file
// (the "installed" or "web" JSON downloaded from the Cloud console).
func ConfigFromCredentials(data []byte) (*oauth2.Config, error) {
	conf, err := google.ConfigFromJSON(data, CalendarScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials: %w", err)
	}
	return conf, nil
}

// tokenSource builds a refreshing token source from credentials and token
// documents. credentialsJSON may be empty when the token embeds its client.
func tokenSource(ctx context.Context, credentialsJSON, tokenJSON []byte) (oauth2.TokenSource, error) {
	tok, embedded, err := ParseToken(tokenJSON)
	if err != nil {
		return nil, err
	}

	conf := embedded
	if len(strings.TrimSpace(string(credentialsJSON))) > 0 {
		if conf, err = ConfigFromCredentials(credentialsJSON); err != nil {
			return nil, err
		}
	}
	if conf == nil {
		// Without a client the token cannot be refreshed.
		return oauth2.StaticTokenSource(tok), nil
	}

	return conf.TokenSource(withHTTP1Client(ctx), tok), nil
}

// HTTPClient returns an HTTP client authenticated through provider.
// The underlying transport is pinned to HTTP/1.1, which avoids stream
// resets seen from the Calendar API on long-lived HTTP/2 connections.
func HTTPClient(ctx context.Context, provider TokenProvider) (*http.Client, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(withHTTP1Client(ctx), ts), nil
}

func withHTTP1Client(ctx context.Context) context.Context {
	if _, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
		return ctx
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ForceAttemptHTTP2 = false
	transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport})
}
