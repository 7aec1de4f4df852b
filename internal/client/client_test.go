package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/k8ika0s/bounty-ledger/internal/api"
	"github.com/k8ika0s/bounty-ledger/internal/record"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	seed := filepath.Join(t.TempDir(), "bounties.json")
	if err := os.WriteFile(seed, []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := &api.Handler{Store: store.New(store.NewSeedFile(seed), nil, store.Options{})}
	mux := http.NewServeMux()
	h.Routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestAddAndList(t *testing.T) {
	ts := newServer(t)
	c := &Client{BaseURL: ts.URL + "/", Client: ts.Client()}
	ctx := context.Background()

	total, err := c.Add(ctx, record.Completion{BountyName: "Trush", Player: "Hera", Prize: 5, Attempts: record.Float(2), Conditions: "Arena"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}
	rows, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Player != "Hera" || *rows[0].Attempts != 2 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestAddSurfacesServerMessage(t *testing.T) {
	ts := newServer(t)
	c := &Client{BaseURL: ts.URL, Client: ts.Client()}
	_, err := c.Add(context.Background(), record.Completion{BountyName: "Trush", Player: " ", Conditions: "Arena"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "player is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}
