// Package api is the HTTP client for the storefront backend. Every call
// carries the bearer credential from the token source when one is present;
// a missing credential omits the header rather than failing the call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"redstore/internal/domain"
)

// TokenSource supplies the bearer token for outbound requests. An empty
// string means unauthenticated.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

func New(baseURL string, tokens TokenSource, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do performs one JSON round trip. Failures map onto the error taxonomy:
// transport errors and 5xx become ErrNetwork, 401 becomes ErrAuth, 404
// becomes ErrNotFound and any other 4xx becomes ErrMutation carrying the
// server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classify(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s: %v", domain.ErrNetwork, method, path, err)
		}
	}
	return nil
}

func (c *Client) classify(method, path string, resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
	msg := eb.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	c.logger.Printf("%s %s failed: %d %s", method, path, resp.StatusCode, msg)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: %s", domain.ErrNetwork, method, path, msg)
	default:
		return fmt.Errorf("%w: %s", domain.ErrMutation, msg)
	}
}
