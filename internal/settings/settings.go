package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/k8ika0s/bounty-ledger/internal/query"
	"github.com/k8ika0s/bounty-ledger/internal/view"
)

// Settings are viewer defaults exposed to the UI.
type Settings struct {
	DefaultView     string `json:"default_view,omitempty"`
	LeaderboardSort string `json:"leaderboard_sort,omitempty"`
	LeaderboardDir  string `json:"leaderboard_dir,omitempty"`
	CompletionsSort string `json:"completions_sort,omitempty"`
	CompletionsDir  string `json:"completions_dir,omitempty"`
}

var mu sync.Mutex

// ApplyDefaults fills zero-values from the default view state.
func ApplyDefaults(s Settings) Settings {
	def := view.Default()
	if s.DefaultView == "" {
		s.DefaultView = string(def.View)
	}
	if s.LeaderboardSort == "" {
		s.LeaderboardSort = def.Leaderboard.Key
	}
	if s.LeaderboardDir == "" {
		s.LeaderboardDir = string(query.DefaultDirection(s.LeaderboardSort))
	}
	if s.CompletionsSort == "" {
		s.CompletionsSort = def.Completions.Key
	}
	if s.CompletionsDir == "" {
		s.CompletionsDir = string(query.DefaultDirection(s.CompletionsSort))
	}
	return s
}

// Validate rejects unknown views, sort keys and directions.
func Validate(s Settings) error {
	switch view.Name(s.DefaultView) {
	case view.Leaderboard, view.Completions:
	default:
		return fmt.Errorf("default_view must be leaderboard or completions")
	}
	if !slices.Contains(query.SummaryKeys, s.LeaderboardSort) {
		return fmt.Errorf("leaderboard_sort must be one of %v", query.SummaryKeys)
	}
	if !slices.Contains(query.CompletionKeys, s.CompletionsSort) {
		return fmt.Errorf("completions_sort must be one of %v", query.CompletionKeys)
	}
	if _, err := query.ParseDirection(s.LeaderboardDir); err != nil {
		return fmt.Errorf("leaderboard_dir: %w", err)
	}
	if _, err := query.ParseDirection(s.CompletionsDir); err != nil {
		return fmt.Errorf("completions_dir: %w", err)
	}
	return nil
}

// State converts settings into the initial viewer state.
func (s Settings) State() view.State {
	s = ApplyDefaults(s)
	lbDir, _ := query.ParseDirection(s.LeaderboardDir)
	cDir, _ := query.ParseDirection(s.CompletionsDir)
	return view.State{
		View:        view.Name(s.DefaultView),
		Leaderboard: query.Spec{Key: s.LeaderboardSort, Dir: lbDir},
		Completions: query.Spec{Key: s.CompletionsSort, Dir: cDir},
	}
}

// Load reads settings from path. The returned Settings are always usable:
// defaults stand in when the file is missing, unreadable, corrupt or invalid,
// and the error reports the last three cases.
func Load(path string) (Settings, error) {
	mu.Lock()
	defer mu.Unlock()
	defaults := ApplyDefaults(Settings{})
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return defaults, fmt.Errorf("parse settings %s: %w", path, err)
	}
	s = ApplyDefaults(s)
	if err := Validate(s); err != nil {
		return defaults, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories.
func Save(path string, s Settings) error {
	mu.Lock()
	defer mu.Unlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
