package msgraph

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/arctica-ti/xone-sync/internal/config"
	"github.com/arctica-ti/xone-sync/tools"
)

const (
	graphScope   = "https://graph.microsoft.com/.default"
	tokenURLBase = "https://login.microsoftonline.com"

	retryBackoffBase = 1.5
)

// TokenProvider acquires app-only Graph access tokens via the OAuth2
// client-credentials grant, retrying with exponential backoff.
type TokenProvider struct {
	conf    *clientcredentials.Config
	retries int
	sleep   func(time.Duration)
}

// NewTokenProvider builds a provider from the Azure app registration.
// The tokenURL parameter overrides the login.microsoftonline.com endpoint
// when non-empty (used by tests).
func NewTokenProvider(cfg config.AzureConfig, tokenURL string) *TokenProvider {
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("%s/%s/oauth2/v2.0/token", tokenURLBase, cfg.TenantID)
	}
	retries := cfg.TokenRetries
	if retries <= 0 {
		retries = 3
	}
	return &TokenProvider{
		conf: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{graphScope},
		},
		retries: retries,
		sleep:   time.Sleep,
	}
}

// AccessToken performs the token exchange. Each failed attempt backs off
// for base^(attempt+1) seconds before retrying; exhausting all attempts
// yields an error wrapping ErrAuth.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 0; attempt < p.retries; attempt++ {
		tok, err := p.conf.Token(ctx)
		if err == nil {
			return tok.AccessToken, nil
		}
		lastErr = err
		delay := time.Duration(math.Pow(retryBackoffBase, float64(attempt+1)) * float64(time.Second))
		tools.Log.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"retries": p.retries,
			"delay":   delay,
		}).Warnf("Token exchange failed: %v", err)
		if attempt < p.retries-1 {
			p.sleep(delay)
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrAuth, p.retries, lastErr)
}
