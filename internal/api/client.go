// Package api is the HTTP client for the remote storefront API. The app
// owns no business logic; everything here is request building, JSON
// decoding and error mapping.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kmalykh/shop_mobile/internal/config"
)

// ErrAuth marks a rejected login or registration; the wrapped message is
// the server's own wording and is safe to show to the user.
var ErrAuth = errors.New("auth rejected")

// APIError is any non-2xx response from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	serverURL  string
	log        *slog.Logger
	httpClient *http.Client
}

func NewClient(cfg config.Config, log *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		serverURL: strings.TrimRight(cfg.ServerURL, "/"),
		log:       log.With("component", "api"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	c.log.Error("api error", "status", resp.StatusCode, "message", apiErr.Message)
	return apiErr
}

var hostPrefix = regexp.MustCompile(`^https?://[^/]+`)

// rewriteImageURL swaps the host of an image link for the configured
// server URL. The API is known to hand out links pointing at whatever
// host it sees itself as, localhost included.
func (c *Client) rewriteImageURL(u string) string {
	if c.serverURL == "" || u == "" {
		return u
	}
	return hostPrefix.ReplaceAllString(u, c.serverURL)
}
