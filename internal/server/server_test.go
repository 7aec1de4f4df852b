package server

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/api"
	"github.com/k8ika0s/bounty-ledger/internal/config"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

func newService(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	seed := filepath.Join(dir, "bounties.json")
	if err := os.WriteFile(seed, []byte(`[{"bounty_name":"a","player":"p","prize":1,"attempts":null,"conditions":"c"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	h := &api.Handler{Store: store.New(store.NewSeedFile(seed), nil, store.Options{}), WebRoot: dir}
	svc := New(cfg, h, zap.NewNop())
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestGzipJSON(t *testing.T) {
	ts := newService(t, config.Config{})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/bounties", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, headers %v", resp.Header)
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.NewDecoder(zr).Decode(&rows); err != nil || len(rows) != 1 {
		t.Fatalf("decode gzip body: %v %v", rows, err)
	}
}

func TestNoGzipWithoutAcceptEncoding(t *testing.T) {
	ts := newService(t, config.Config{})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("Content-Encoding") != "" || string(body) != "{\"status\":\"ok\"}\n" {
		t.Fatalf("unexpected response %v %q", resp.Header, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newService(t, config.Config{CORSOrigins: []string{"https://viewer.example"}})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/bounties", nil)
	req.Header.Set("Origin", "https://viewer.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "https://viewer.example" {
		t.Fatalf("unexpected preflight %d %v", resp.StatusCode, resp.Header)
	}

	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow origin for foreign site")
	}
}

func TestRecoverReturnsGenericError(t *testing.T) {
	h := withRecover(zap.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || rec.Body.String() != "{\"error\":\"Internal Server Error\"}\n" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
