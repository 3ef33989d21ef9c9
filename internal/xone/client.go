package xone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/arctica-ti/xone-sync/internal/config"
	"github.com/arctica-ti/xone-sync/tools"
)

const (
	userAgent = "xone-sync/1.0 (Go)"

	// maxErrSamples bounds the error list carried in a partial result.
	maxErrSamples = 3
	// errTextLimit bounds each diagnostic string.
	errTextLimit = 200
)

// Client posts collaborator and department payloads to the XoneCloud
// registration API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	apiToken  string
	collabURL string
	deptURL   string
	lang      string
}

// NewClient builds a XoneCloud client from configuration. The per-user
// dispatch mode is paced at 2 requests per second.
func NewClient(cfg config.XoneConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		apiToken:   cfg.APIToken,
		collabURL:  cfg.CollabURL,
		deptURL:    cfg.DeptURL,
		lang:       cfg.Lang,
	}
}

// post sends one JSON payload and returns an error for any non-2xx
// response, with the body truncated into the message.
func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	// The API expects the pre-shared token verbatim, no "Bearer" prefix.
	req.Header.Set("Authorization", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection: %s", tools.Truncate(err.Error(), errTextLimit))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, tools.Truncate(string(respBody), errTextLimit))
	}
	return nil
}
