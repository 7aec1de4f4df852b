package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/events"
	"github.com/k8ika0s/bounty-ledger/internal/objectstore"
	"github.com/k8ika0s/bounty-ledger/internal/record"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

const maxBodyBytes = 1 << 20

// Rows is the row store the handlers read and append to.
type Rows interface {
	List(ctx context.Context) ([]record.Completion, error)
	Append(ctx context.Context, c record.Completion) (int, error)
}

// Handler wires HTTP routes to the row store and its side channels.
type Handler struct {
	Store        Rows
	Publisher    events.Publisher
	Archive      objectstore.Archiver
	SettingsPath string
	WebRoot      string
	Log          *zap.Logger

	hubOnce sync.Once
	hub     *hub
	pending sync.WaitGroup
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.health)
	mux.HandleFunc("/api/bounties", h.bounties)
	mux.HandleFunc("/api/bounties/stream", h.stream)
	mux.HandleFunc("/api/leaderboard", h.leaderboard)
	mux.HandleFunc("/api/completions", h.completions)
	mux.HandleFunc("/api/stats", h.stats)
	mux.HandleFunc("/api/view", h.view)
	mux.HandleFunc("/api/settings", h.settings)
	mux.HandleFunc("/bounties", h.selfHosted)
	mux.Handle("/", h.static())
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// Wait blocks until background publishing and archiving finish.
func (h *Handler) Wait() {
	h.pending.Wait()
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) bounties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rows, err := h.Store.List(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		h.appendCompletion(w, r, true)
	default:
		methodNotAllowed(w)
	}
}

// selfHosted accepts writes on /bounties and serves files for reads.
func (h *Handler) selfHosted(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.appendCompletion(w, r, false)
		return
	}
	h.static().ServeHTTP(w, r)
}

// appendCompletion records the posted completion. loose converts field types
// the way the hosted API always has ("10" is a valid prize); the self-hosted
// route takes JSON types as they are.
func (h *Handler) appendCompletion(w http.ResponseWriter, r *http.Request, loose bool) {
	candidate := map[string]any{}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if loose {
		candidate = record.Coerce(candidate)
	}
	c, err := record.Parse(candidate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	total, err := h.Store.Append(r.Context(), c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger().Info("completion recorded",
		zap.String("bounty", c.BountyName), zap.String("player", c.Player), zap.Int("total", total))
	h.afterAppend(c, total)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "total": total})
}

// afterAppend fans the new completion out to live subscribers, the event
// publisher and the snapshot archive. Failures are logged only.
func (h *Handler) afterAppend(c record.Completion, total int) {
	h.getHub().publish(c)
	if h.Publisher == nil && h.Archive.Store == nil {
		return
	}
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if h.Publisher != nil {
			if err := h.Publisher.Publish(ctx, events.NewRecorded(c, total)); err != nil {
				h.logger().Warn("publish completion event failed", zap.Error(err))
			}
		}
		if h.Archive.Store != nil {
			rows, err := h.Store.List(ctx)
			if err != nil {
				h.logger().Warn("snapshot read failed", zap.Error(err))
				return
			}
			if _, err := h.Archive.Snapshot(ctx, rows); err != nil {
				h.logger().Warn("snapshot upload failed", zap.Error(err))
			}
		}
	}()
}

// writeError maps domain errors onto status codes. Unclassified errors are
// logged and reported generically.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *record.ValidationError
	var serr *store.StorageError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.As(err, &serr):
		h.logger().Error("storage failure", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": serr.Error()})
	default:
		h.logger().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
