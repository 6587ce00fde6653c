package google

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenProvider supplies an OAuth token source for the Calendar API.
type TokenProvider interface {
	// TokenSource returns a token source. ctx should outlive the returned
	// source since refreshes are performed with it.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)

	// HasToken reports whether a token is available without contacting Google.
	HasToken() bool
}

// FileTokenProvider reads client credentials and a token from disk.
type FileTokenProvider struct {
	credentialsFile string
	tokenFile       string

	mu sync.Mutex
	ts oauth2.TokenSource
}

// NewFileTokenProvider creates a provider for the given files. An empty
// credentialsFile is allowed when the token document embeds its client.
func NewFileTokenProvider(credentialsFile, tokenFile string) *FileTokenProvider {
	return &FileTokenProvider{credentialsFile: credentialsFile, tokenFile: tokenFile}
}

// DefaultTokenFile returns the token location under the user cache directory.
func DefaultTokenFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "slotbooker", "google.token")
}

// TokenSource loads the files once and reuses the resulting source.
func (p *FileTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ts != nil {
		return p.ts, nil
	}

	tokenJSON, err := os.ReadFile(p.tokenFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoToken, p.tokenFile)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var credentialsJSON []byte
	if p.credentialsFile != "" {
		credentialsJSON, err = os.ReadFile(p.credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	}

	ts, err := tokenSource(ctx, credentialsJSON, tokenJSON)
	if err != nil {
		return nil, err
	}
	p.ts = oauth2.ReuseTokenSource(nil, ts)
	return p.ts, nil
}

// HasToken reports whether the token file exists.
func (p *FileTokenProvider) HasToken() bool {
	_, err := os.Stat(p.tokenFile)
	return err == nil
}

// EnvTokenProvider holds credentials and token documents passed inline,
// typically through GOOGLE_CREDENTIALS_JSON and GOOGLE_TOKEN_JSON on hosted
// deployments without a writable disk.
type EnvTokenProvider struct {
	credentialsJSON string
	tokenJSON       string

	once sync.Once
	ts   oauth2.TokenSource
	err  error
}

// NewEnvTokenProvider creates a provider from inline JSON documents.
func NewEnvTokenProvider(credentialsJSON, tokenJSON string) *EnvTokenProvider {
	return &EnvTokenProvider{credentialsJSON: credentialsJSON, tokenJSON: tokenJSON}
}

// TokenSource parses the documents on first use.
func (p *EnvTokenProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.once.Do(func() {
		var ts oauth2.TokenSource
		ts, p.err = tokenSource(ctx, []byte(p.credentialsJSON), []byte(p.tokenJSON))
		if p.err == nil {
			p.ts = oauth2.ReuseTokenSource(nil, ts)
		}
	})
	return p.ts, p.err
}

// HasToken reports whether a token document was supplied.
func (p *EnvTokenProvider) HasToken() bool {
	return p.tokenJSON != ""
}

// NewTokenProvider prefers inline documents and falls back to files.
func NewTokenProvider(credentialsJSON, tokenJSON, credentialsFile, tokenFile string) TokenProvider {
	if tokenJSON != "" {
		return NewEnvTokenProvider(credentialsJSON, tokenJSON)
	}
	if tokenFile == "" {
		tokenFile = DefaultTokenFile()
	}
	return NewFileTokenProvider(credentialsFile, tokenFile)
}
