// Package view holds the viewer's immutable state and renders both tables
// from it. Every action returns a new State.
package view

import (
	"github.com/k8ika0s/bounty-ledger/internal/leaderboard"
	"github.com/k8ika0s/bounty-ledger/internal/query"
	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// Name selects the visible table.
type Name string

const (
	Leaderboard Name = "leaderboard"
	Completions Name = "completions"
)

// State is the viewer state.
type State struct {
	View        Name       `json:"view"`
	Query       string     `json:"q"`
	Leaderboard query.Spec `json:"leaderboard_sort"`
	Completions query.Spec `json:"completions_sort"`
}

// Default is the state a fresh viewer starts in.
func Default() State {
	return State{
		View:        Leaderboard,
		Leaderboard: query.Spec{Key: "completions", Dir: query.Desc},
		Completions: query.Spec{Key: "bounty_name", Dir: query.Asc},
	}
}

func (s State) WithView(v Name) State {
	s.View = v
	return s
}

func (s State) WithQuery(q string) State {
	s.Query = q
	return s
}

// SortLeaderboard applies a header click on the leaderboard table.
func (s State) SortLeaderboard(key string) State {
	s.Leaderboard = query.Toggle(s.Leaderboard, key)
	return s
}

// SortCompletions applies a header click on the completions table.
func (s State) SortCompletions(key string) State {
	s.Completions = query.Toggle(s.Completions, key)
	return s
}

// Page is a rendered state: both tables plus stats over the unfiltered rows.
type Page struct {
	State       State                 `json:"state"`
	Stats       leaderboard.Stats     `json:"stats"`
	Leaderboard []leaderboard.Summary `json:"leaderboard"`
	Completions []record.Completion   `json:"completions"`
}

// Render filters rows by the state's query, aggregates and sorts both tables.
func Render(s State, rows []record.Completion) Page {
	filtered := query.Filter(rows, s.Query)
	return Page{
		State:       s,
		Stats:       leaderboard.Summarize(rows),
		Leaderboard: query.SortSummaries(leaderboard.Aggregate(filtered), s.Leaderboard),
		Completions: query.SortCompletions(filtered, s.Completions),
	}
}
