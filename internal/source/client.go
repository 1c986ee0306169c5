package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultMaxBody caps how much of a response we accept.
const defaultMaxBody = 8 << 20

var (
	// ErrNotJSON is returned when the body cannot be parsed as JSON.
	ErrNotJSON = errors.New("response is not valid JSON")
	// ErrTooLarge is returned when the body exceeds the client's limit.
	ErrTooLarge = errors.New("response too large")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client fetches the dashboard dataset from a configured endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	maxBody    int64
	log        *logrus.Entry
}

// NewClient builds a client for url. A zero timeout means none.
func NewClient(url string, timeout time.Duration, log *logrus.Entry) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxBody:    defaultMaxBody,
		log:        log.WithField("module", "source"),
	}
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.url }

// Fetch issues a single GET and returns the body once it is known to be JSON.
// There is no retry.
func (c *Client) Fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	c.log.WithFields(logrus.Fields{
		"url":         c.url,
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("fetch completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBody)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, truncate(string(body), 200))
	}
	return json.RawMessage(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
