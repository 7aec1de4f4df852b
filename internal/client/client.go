// Package client calls the bounty API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// Client talks to a running bounty server.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// APIError carries the server's error message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	cli := c.Client
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: e.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("%s %s: %s", method, path, resp.Status)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// List fetches every completion, dynamic rows first.
func (c *Client) List(ctx context.Context) ([]record.Completion, error) {
	var rows []record.Completion
	err := c.do(ctx, http.MethodGet, "/api/bounties", nil, &rows)
	return rows, err
}

// Add records a completion and returns the new total.
func (c *Client) Add(ctx context.Context, comp record.Completion) (int, error) {
	var out struct {
		OK    bool `json:"ok"`
		Total int  `json:"total"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/bounties", comp, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}
