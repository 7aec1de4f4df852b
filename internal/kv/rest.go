package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RESTList talks to a Redis-compatible REST endpoint authenticated by a
// bearer token. Commands are posted as a JSON array, e.g. ["LPUSH","k","v"],
// and replies carry either {"result": ...} or {"error": "..."}.
type RESTList struct {
	BaseURL string
	Token   string
	Key     string
	Client  *http.Client
}

// NewRESTList builds a REST list with a bounded request timeout.
func NewRESTList(baseURL, token, key string, timeout time.Duration) *RESTList {
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RESTList{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Key:     key,
		Client:  &http.Client{Timeout: timeout},
	}
}

type restReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (r *RESTList) Name() string { return "rest" }

func (r *RESTList) do(ctx context.Context, out any, args ...string) error {
	if r == nil || r.BaseURL == "" || r.Token == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(args)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.Token)
	cli := r.Client
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return fmt.Errorf("kv %s: %w", args[0], err)
	}
	defer resp.Body.Close()
	var reply restReply
	decodeErr := json.NewDecoder(resp.Body).Decode(&reply)
	if resp.StatusCode >= 400 {
		if reply.Error != "" {
			return fmt.Errorf("kv request failed: %d: %s", resp.StatusCode, reply.Error)
		}
		return fmt.Errorf("kv request failed: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("kv %s: decode reply: %w", args[0], decodeErr)
	}
	if reply.Error != "" {
		return fmt.Errorf("kv %s: %s", args[0], reply.Error)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(reply.Result, out)
}

func (r *RESTList) Push(ctx context.Context, value string) error {
	return r.do(ctx, nil, "LPUSH", r.Key, value)
}

func (r *RESTList) Range(ctx context.Context) ([]string, error) {
	var vals []string
	if err := r.do(ctx, &vals, "LRANGE", r.Key, "0", "-1"); err != nil {
		return nil, err
	}
	return vals, nil
}

func (r *RESTList) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.do(ctx, &n, "LLEN", r.Key); err != nil {
		return 0, err
	}
	return n, nil
}
