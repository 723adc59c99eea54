// Package search provides web-search backends for verifying brand
// claims. The HTTP client talks to a Perplexity-style completions API;
// the mock backend serves canned results for offline use and tests.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"

	// Search providers throttle aggressively; stay under 2 req/s.
	defaultRateLimit = rate.Limit(2)
	defaultBurst     = 2
)

// Client runs one web search and returns the result text.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	ID      string   `json:"id"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index   int     `json:"index"`
	Message message `json:"message"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a search client backed by a Perplexity-style API.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(defaultRateLimit, defaultBurst),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const searchSystemPrompt = "You are a research assistant verifying cosmetics brand animal-testing " +
	"policies. Answer with the facts found, name each source consulted, and end with a line " +
	"'SOURCES CHECKED: <n>' giving the number of distinct sources."

func (c *httpClient) Search(ctx context.Context, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "search: rate limit wait")
	}

	req := completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: query},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", eris.Wrap(err, "search: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "search: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "search: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "search: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("search: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result completionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "search: unmarshal response")
	}
	if len(result.Choices) == 0 {
		return "", eris.New("search: empty response")
	}

	return result.Choices[0].Message.Content, nil
}
