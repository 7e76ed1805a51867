// Package httpapi provides a RemoteSource adapter for the hymn archive's
// HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.RemoteSource = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openhymnal.org"
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond bounds outbound request rate. The sync engine
	// issues one fetch per run, so this only matters for tight retry
	// loops and the status ping.
	requestsPerSecond = 2
)

// Config holds configuration for the HTTP API client.
type Config struct {
	// BaseURL is the API base URL (default: https://api.openhymnal.org).
	BaseURL string

	// Token is the optional bearer token for authenticated access.
	Token string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client fetches hymns from the remote archive over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// hymnPayload is the wire format for one hymn record.
type hymnPayload struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Reciter     string `json:"reciter"`
	Poet        string `json:"poet"`
	Category    string `json:"category"`
	Lyrics      string `json:"lyrics"`
	Translation string `json:"translation"`
	MediaURL    string `json:"media_url"`
	UpdatedAt   int64  `json:"updated_at"` // unix milliseconds
	Deleted     bool   `json:"deleted"`
}

// hymnsResponse is the /v1/hymns response envelope.
type hymnsResponse struct {
	Hymns []hymnPayload `json:"hymns"`
	Error string        `json:"error,omitempty"`
}

// NewClient creates a new HTTP API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: src},
		}
	}

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// FetchModifiedSince returns hymns modified strictly after floor, ordered
// ascending by modification time, at most limit records.
func (c *Client) FetchModifiedSince(ctx context.Context, floor time.Time, limit int) ([]domain.Hymn, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	query := url.Values{}
	query.Set("modified_since", strconv.FormatInt(floor.UnixMilli(), 10))
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/v1/hymns?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope hymnsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("remote error: %s", envelope.Error)
	}

	hymns := make([]domain.Hymn, len(envelope.Hymns))
	for i, p := range envelope.Hymns {
		hymns[i] = domain.Hymn{
			ID:          p.ID,
			Title:       p.Title,
			Reciter:     p.Reciter,
			Poet:        p.Poet,
			Category:    p.Category,
			Lyrics:      p.Lyrics,
			Translation: p.Translation,
			MediaURL:    p.MediaURL,
			UpdatedAt:   time.UnixMilli(p.UpdatedAt).UTC(),
			Deleted:     p.Deleted,
		}
	}
	return hymns, nil
}

// Ping reports whether the remote is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}
	return nil
}
