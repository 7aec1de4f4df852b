// Package query filters and sorts completion rows and leaderboard summaries.
package query

import (
	"strings"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Filter keeps rows whose bounty name, conditions and player, joined by
// spaces, contain q case-insensitively. A blank q keeps every row.
func Filter(rows []record.Completion, q string) []record.Completion {
	qq := norm(q)
	out := make([]record.Completion, 0, len(rows))
	for _, r := range rows {
		if qq == "" || strings.Contains(norm(r.BountyName+" "+r.Conditions+" "+r.Player), qq) {
			out = append(out, r)
		}
	}
	return out
}
