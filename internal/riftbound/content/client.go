// Package content fetches the Riftbound card catalog from the Riot
// content API.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

const (
	// DefaultBaseURL is the regional Riot API host.
	DefaultBaseURL = "https://americas.api.riotgames.com"
	// ContentPath is the riftbound-content-v1 endpoint. It returns every
	// set and card; there is no single-card endpoint.
	ContentPath = "/riftbound/content/v1/contents"
	// DefaultLocale is the only locale served during the beta.
	DefaultLocale = "en"

	defaultTimeout = 30 * time.Second
	tokenHeader    = "X-Riot-Token"
	maxErrorBody   = 64 * 1024
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Locale     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Limiter    *RateLimiter
	Logger     *slog.Logger
}

// Client represents a Riot content API client with rate limiting.
type Client struct {
	baseURL    string
	apiKey     string
	locale     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *RateLimiter
	logger     *slog.Logger
}

// NewClient creates a new content API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Limiter == nil {
		opts.Limiter = NewRateLimiter(opts.Logger)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		locale:     opts.Locale,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
	}
}

// contentURL builds the content endpoint URL for locale.
func (c *Client) contentURL(locale string) string {
	if locale == "" {
		locale = c.locale
	}
	return fmt.Sprintf("%s%s?locale=%s", c.baseURL, ContentPath, url.QueryEscape(locale))
}

// FetchContent retrieves the raw content envelope. A 2xx body that does
// not decode as the expected envelope yields an empty envelope, not an
// error, since the upstream schema is not stable.
func (c *Client) FetchContent(ctx context.Context, locale string) (*cards.ContentDTO, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, c.contentURL(locale))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ContentFetchError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: resp.Request.URL.String(), Err: fmt.Errorf("read response body: %w", err)}
	}

	var content cards.ContentDTO
	if err := json.Unmarshal(body, &content); err != nil || content.Sets == nil {
		c.logger.Warn("Content response did not match expected envelope",
			"error", err, "bytes", len(body))
		return &cards.ContentDTO{}, nil
	}

	c.logger.Info("Fetched Riftbound content",
		"game", content.Game,
		"version", content.Version,
		"lastUpdated", content.LastUpdated,
		"sets", len(content.Sets),
		"cards", content.CardCount())

	return &content, nil
}

// FetchAllCards fetches the full catalog and normalizes every card.
func (c *Client) FetchAllCards(ctx context.Context, locale string) ([]cards.Card, error) {
	content, err := c.FetchContent(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}
	return cards.NormalizeContent(*content), nil
}

// FetchCardByID fetches the full catalog and returns the card with id.
// The bool is false when no card matches.
func (c *Client) FetchCardByID(ctx context.Context, id string) (cards.Card, bool, error) {
	all, err := c.FetchAllCards(ctx, "")
	if err != nil {
		return cards.Card{}, false, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	for _, card := range all {
		if card.ID == id {
			return card, true, nil
		}
	}
	return cards.Card{}, false, nil
}

// do waits for a rate limit slot and issues the GET request.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(tokenHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Requesting content", "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return resp, nil
}
