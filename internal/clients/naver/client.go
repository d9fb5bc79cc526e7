// Package naver provides a client for the Naver stock JSON APIs
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/SaesolAhn/KB-infodigest/internal/common"
	"github.com/SaesolAhn/KB-infodigest/internal/interfaces"
	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

const (
	// DefaultMobileBaseURL serves domestic stock endpoints plus search.
	DefaultMobileBaseURL = "https://m.stock.naver.com"
	// DefaultWorldBaseURL serves world stock endpoints.
	DefaultWorldBaseURL = "https://api.stock.naver.com"

	DefaultTimeout   = 20 * time.Second
	DefaultRateLimit = 5 // requests per second

	// The endpoints reject non-browser user agents.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	domesticDetailURL = "https://stock.naver.com/domestic/stock/%s"
	worldDetailURL    = "https://stock.naver.com/worldstock/stock/%s"
)

// Client implements the MarketDataClient interface
type Client struct {
	mobileBaseURL string
	worldBaseURL  string
	httpClient    *http.Client
	logger        *common.Logger
	limiter       *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithMobileBaseURL sets the base URL for domestic endpoints and search
func WithMobileBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.mobileBaseURL = baseURL
	}
}

// WithWorldBaseURL sets the base URL for world stock endpoints
func WithWorldBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.worldBaseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Naver stock API client.
// No API key is required, these are public endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		mobileBaseURL: DefaultMobileBaseURL,
		worldBaseURL:  DefaultWorldBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("naver API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// getJSON performs a rate-limited GET and decodes the body into a Payload.
func (c *Client) getJSON(ctx context.Context, reqURL string) (models.Payload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("Naver API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   reqURL,
		}
	}

	var payload models.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload, nil
}

// Search queries the autocomplete endpoint for stock candidates.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	reqURL := fmt.Sprintf("%s/front-api/search/autoComplete?query=%s&target=stock",
		c.mobileBaseURL, url.QueryEscape(query))

	payload, err := c.getJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	items := payload.Map("result").List("items")

	candidates := make([]models.SearchCandidate, 0, len(items))
	for _, item := range items {
		code := item.Str("code")
		name := item.Str("name")
		if code == "" || name == "" {
			continue
		}

		candidates = append(candidates, models.SearchCandidate{
			Code:        code,
			Name:        name,
			Market:      item.FirstStr("typeCode", "typeName"),
			ReutersCode: item.Str("reutersCode"),
			NationCode:  item.Str("nationCode"),
		})
	}

	deduped := dedupeCandidates(candidates)

	c.logger.Debug().Str("query", query).Int("candidates", len(deduped)).Msg("Naver search returned candidates")

	return deduped, nil
}

// dedupeCandidates drops duplicate candidates by resolved key, preserving
// first-seen order.
func dedupeCandidates(candidates []models.SearchCandidate) []models.SearchCandidate {
	seen := make(map[string]bool, len(candidates))
	unique := make([]models.SearchCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := candidate.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, candidate)
	}
	return unique
}

// GetBasic retrieves the basic payload for a resolved code. This is the
// required half of a quote fetch.
func (c *Client) GetBasic(ctx context.Context, code string, world bool) (models.Payload, error) {
	return c.getJSON(ctx, c.stockURL(code, world, "basic"))
}

// GetIntegration retrieves the supplementary integration payload carrying
// fundamentals, deal trends, news, and research lists.
func (c *Client) GetIntegration(ctx context.Context, code string, world bool) (models.Payload, error) {
	return c.getJSON(ctx, c.stockURL(code, world, "integration"))
}

func (c *Client) stockURL(code string, world bool, endpoint string) string {
	if world {
		return fmt.Sprintf("%s/stock/%s/%s", c.worldBaseURL, url.PathEscape(code), endpoint)
	}
	return fmt.Sprintf("%s/api/stock/%s/%s", c.mobileBaseURL, url.PathEscape(code), endpoint)
}

// DetailURL returns the public detail-page URL for a resolved code.
func (c *Client) DetailURL(code string, world bool) string {
	if world {
		return fmt.Sprintf(worldDetailURL, code)
	}
	return fmt.Sprintf(domesticDetailURL, code)
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
