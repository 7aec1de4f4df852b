package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/leaderboard"
	"github.com/k8ika0s/bounty-ledger/internal/query"
	"github.com/k8ika0s/bounty-ledger/internal/settings"
	"github.com/k8ika0s/bounty-ledger/internal/view"
)

// sortSpec reads sortParam/dirParam from values, falling back to def. A
// sort key without a direction takes the key's default direction.
func sortSpec(values url.Values, sortParam, dirParam string, keys []string, def query.Spec) (query.Spec, error) {
	spec := def
	if key := values.Get(sortParam); key != "" {
		if !slices.Contains(keys, key) {
			return spec, fmt.Errorf("%s must be one of %v", sortParam, keys)
		}
		spec = query.Spec{Key: key, Dir: query.DefaultDirection(key)}
	}
	if d := values.Get(dirParam); d != "" {
		dir, err := query.ParseDirection(d)
		if err != nil {
			return spec, err
		}
		spec.Dir = dir
	}
	return spec, nil
}

// loadSettings returns saved viewer settings, falling back to defaults when
// the file is bad.
func (h *Handler) loadSettings() settings.Settings {
	s, err := settings.Load(h.SettingsPath)
	if err != nil {
		h.logger().Warn("using default settings", zap.Error(err))
	}
	return s
}

// viewState builds the state for a request from saved settings and query
// parameters.
func (h *Handler) viewState(r *http.Request) (view.State, error) {
	values := r.URL.Query()
	st := h.loadSettings().State().WithQuery(values.Get("q"))
	if v := values.Get("view"); v != "" {
		switch view.Name(v) {
		case view.Leaderboard, view.Completions:
			st = st.WithView(view.Name(v))
		default:
			return st, fmt.Errorf("view must be leaderboard or completions")
		}
	}
	var err error
	if st.Leaderboard, err = sortSpec(values, "lb_sort", "lb_dir", query.SummaryKeys, st.Leaderboard); err != nil {
		return st, err
	}
	if st.Completions, err = sortSpec(values, "c_sort", "c_dir", query.CompletionKeys, st.Completions); err != nil {
		return st, err
	}
	return st, nil
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	st := h.loadSettings().State()
	spec, err := sortSpec(r.URL.Query(), "sort", "dir", query.SummaryKeys, st.Leaderboard)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := h.Store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	board := leaderboard.Aggregate(query.Filter(rows, r.URL.Query().Get("q")))
	writeJSON(w, http.StatusOK, query.SortSummaries(board, spec))
}

func (h *Handler) completions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	st := h.loadSettings().State()
	spec, err := sortSpec(r.URL.Query(), "sort", "dir", query.CompletionKeys, st.Completions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := h.Store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.SortCompletions(query.Filter(rows, r.URL.Query().Get("q")), spec))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rows, err := h.Store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboard.Summarize(rows))
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	st, err := h.viewState(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := h.Store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Render(st, rows))
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.loadSettings())
	case http.MethodPut:
		var s settings.Settings
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		s = settings.ApplyDefaults(s)
		if err := settings.Validate(s); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := settings.Save(h.SettingsPath, s); err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	default:
		methodNotAllowed(w)
	}
}
