// Package client talks to the shortening endpoint the way the web front end does.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/shortslug/internal/models"
)

var (
	ErrEmptyURL      = errors.New("empty url")
	ErrEmptyShortURL = errors.New("response has no short_url")
)

// APIError is returned for non-200 replies.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shorten failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("shorten failed with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	origin     string
	httpClient *http.Client
}

func New(origin string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		origin:     strings.TrimRight(origin, "/"),
		httpClient: httpClient,
	}
}

// Shorten sends POST /api/shorten_url?url=<originalURL> with an empty body and
// returns origin + "/" + short_url. An empty URL is rejected without a request.
func (c *Client) Shorten(ctx context.Context, originalURL string) (string, error) {
	if strings.TrimSpace(originalURL) == "" {
		return "", ErrEmptyURL
	}

	endpoint := c.origin + "/api/shorten_url?" + url.Values{"url": {originalURL}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var body models.ShortenURLResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: body.StatusMessage}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if body.ShortURL == "" {
		return "", ErrEmptyShortURL
	}

	return c.origin + "/" + body.ShortURL, nil
}
