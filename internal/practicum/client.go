// Package practicum talks to the Practicum homework-review API: fetching
// status pages, validating their shape, and rendering status-change messages.
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hwbot/pkg/logx"
)

type ClientConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration // zero means 15s
}

// Client fetches homework status pages. It deliberately returns the decoded
// JSON as-is; schema enforcement lives in Validate so malformed payloads are
// classified precisely instead of failing somewhere inside a struct decode.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      logx.Logger
}

func NewClient(cfg ClientConfig, log logx.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Fetch requests homework updates since the given unix timestamp.
func (c *Client) Fetch(ctx context.Context, since int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("practicum: invalid endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(since, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BadStatusError{Endpoint: c.endpoint, Code: resp.StatusCode}
	}

	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("practicum: decoding response body: %w", err)
	}
	c.log.Debug("statuses fetched", logx.Int64("from_date", since))
	return v, nil
}
