// Package api is the stateless request layer against the blog backend.
// It attaches the bearer token when one is available, normalizes server
// error bodies into *Error values, and maps wire shapes to domain shapes
// exactly once, here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const maxResponseBytes = 1 << 20

// Error is a non-success HTTP response carrying the server's message field,
// or a generic fallback when the body was unparsable.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// TokenSource yields the current bearer token, or "" when unauthenticated.
// It is read once per outgoing request.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	log     zerolog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, token TokenSource, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
		log:     log.With().Str("component", "api").Logger(),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	c.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, fields map[string]string, filePath string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write form field %q: %w", name, err)
		}
	}

	if filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open avatar file: %w", err)
		}
		defer file.Close()

		part, err := writer.CreateFormFile("avatar", filepath.Base(filePath))
		if err != nil {
			return fmt.Errorf("create avatar form part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("copy avatar file: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func errorFromResponse(status int, body []byte) error {
	var wire struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && strings.TrimSpace(wire.Message) != "" {
		return &Error{StatusCode: status, Message: wire.Message}
	}

	return &Error{StatusCode: status, Message: fmt.Sprintf("HTTP error %d", status)}
}
