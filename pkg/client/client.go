// Package client talks to admin REST services. Responses that carry a
// validation problem come back as *validation.Error so form handlers can map
// them onto fields; every other non-2xx status is a *StatusError.
package client

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

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

const maxErrorBody = 1 << 20

// Client sends JSON and multipart requests to a service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	logger     zerolog.Logger
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Headers    map[string]string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// New creates a client. A zero Timeout defaults to ten seconds.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		logger:     logger.With().Str("component", "client").Logger(),
	}
}

// Do sends body as JSON and decodes a 2xx response into out. Either may be
// nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("request failed")
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	if isValidationStatus(resp.StatusCode) {
		problem, err := validation.DecodeProblem(body)
		if err == nil {
			problem.Status = resp.StatusCode
			c.logger.Debug().Int("failures", len(problem.Failures)).Msg("service rejected request")
			return problem
		}
		c.logger.Debug().Err(err).Int("status", resp.StatusCode).Msg("error body is not a validation problem")
	}

	return &StatusError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func isValidationStatus(status int) bool {
	return status == http.StatusBadRequest || status == http.StatusUnprocessableEntity
}
