// Package api is the non-streaming fallback path: a one-shot HTTP chat
// request for environments where the persistent connection is unavailable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoEndpoint is returned when no HTTP chat endpoint is configured.
var ErrNoEndpoint = errors.New("no chat endpoint configured")

const defaultTimeout = 120 * time.Second

// Client calls the request/response chat endpoint
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// New creates a fallback client for the given base endpoint. The bearer
// token may be empty for unauthenticated deployments.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Content string `json:"content"`
	Err     string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Send submits one chat turn and returns the complete response text. No
// streaming, no session continuity; the agent treats each call as a fresh
// conversation.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	if c.endpoint == "" {
		return "", ErrNoEndpoint
	}

	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Err
		}
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("chat endpoint error: %s", msg)
	}

	return parsed.Content, nil
}
