// Package client implements the HTTP client for the ragchat backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diogo/ragchat/internal/errors"
)

// defaultChunkSize is the read buffer size for streamed replies.
const defaultChunkSize = 4096

// Chunk is one unit of streamed reply text. A Chunk with a non-nil Err is
// terminal: the channel is closed immediately after it.
type Chunk struct {
	Text string
	Err  error
}

// chatRequest is the JSON body for POST /chat.
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// Client talks to a ragchat backend. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transport settings.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// New creates a Client for the backend at baseURL. There is no request
// timeout: a streamed reply runs until the backend closes it.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stream sends the prompt and returns a channel of reply chunks. The channel
// is closed when the reply is complete; a mid-stream failure is delivered as
// a final Chunk carrying a StreamError with the partial text.
//
// A non-200 status or an unreadable body is reported as an error return, not
// on the channel, so the caller can distinguish "request failed" from "reply
// cut short".
func (c *Client) Stream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.ErrEmptyPrompt
	}

	body, err := json.Marshal(chatRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, errors.NewAPIError(resp.StatusCode, endpoint, strings.TrimSpace(string(respBody)))
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, errors.NewAPIError(0, endpoint, errors.ErrNoBody.Error())
	}

	ch := make(chan Chunk, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		var received strings.Builder
		buf := make([]byte, defaultChunkSize)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				text := string(buf[:n])
				received.WriteString(text)
				ch <- Chunk{Text: text}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				ch <- Chunk{Err: &errors.StreamError{Partial: received.String(), Err: err}}
				return
			}
		}
	}()

	return ch, nil
}

// Health checks the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	endpoint := c.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewAPIError(resp.StatusCode, endpoint, "health check failed")
	}
	return nil
}
