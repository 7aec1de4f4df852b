// Package leaderboard derives per-player totals from completion rows.
package leaderboard

import (
	"strings"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// Summary is one player's aggregate.
type Summary struct {
	Player      string  `json:"player"`
	Completions int     `json:"completions"`
	Prize       float64 `json:"prize"`
	Unique      int     `json:"unique"`
}

// Aggregate groups rows by exact player value. Summaries come out in order of
// first appearance; callers sort. The result is never nil.
func Aggregate(rows []record.Completion) []Summary {
	index := make(map[string]int)
	bounties := make(map[string]map[string]struct{})
	out := make([]Summary, 0)
	for _, r := range rows {
		i, ok := index[r.Player]
		if !ok {
			i = len(out)
			index[r.Player] = i
			out = append(out, Summary{Player: r.Player})
			bounties[r.Player] = make(map[string]struct{})
		}
		out[i].Completions++
		out[i].Prize += r.Prize
		bounties[r.Player][r.BountyName] = struct{}{}
	}
	for i := range out {
		out[i].Unique = len(bounties[out[i].Player])
	}
	return out
}

// Stats describes a whole row set.
type Stats struct {
	Completions int     `json:"completions"`
	Players     int     `json:"players"`
	Unknown     int     `json:"unknown"`
	Prize       float64 `json:"prize"`
}

// Summarize counts rows, distinct players, untracked completions and the
// prize total.
func Summarize(rows []record.Completion) Stats {
	players := make(map[string]struct{})
	st := Stats{Completions: len(rows)}
	for _, r := range rows {
		players[r.Player] = struct{}{}
		if strings.ToLower(strings.TrimSpace(r.Player)) == "unknown completion" {
			st.Unknown++
		}
		st.Prize += r.Prize
	}
	st.Players = len(players)
	return st
}
