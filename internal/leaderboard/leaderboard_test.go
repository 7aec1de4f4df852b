package leaderboard

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

func TestAggregate(t *testing.T) {
	rows := []record.Completion{
		{Player: "A", BountyName: "X", Prize: 10},
		{Player: "A", BountyName: "X", Prize: 5},
		{Player: "B", BountyName: "Y", Prize: 1},
	}
	want := []Summary{
		{Player: "A", Completions: 2, Prize: 15, Unique: 1},
		{Player: "B", Completions: 1, Prize: 1, Unique: 1},
	}
	if diff := cmp.Diff(want, Aggregate(rows)); diff != "" {
		t.Fatalf("unexpected summaries (-want +got):\n%s", diff)
	}
}

func TestAggregateIsCaseSensitiveAndOrderIndependent(t *testing.T) {
	rows := []record.Completion{
		{Player: "viper", BountyName: "X", Prize: 1},
		{Player: "Viper", BountyName: "X", Prize: 2},
		{Player: "Viper", BountyName: "Y", Prize: 3},
	}
	reversed := []record.Completion{rows[2], rows[1], rows[0]}

	byPlayer := func(s []Summary) []Summary {
		sort.Slice(s, func(i, j int) bool { return s[i].Player < s[j].Player })
		return s
	}
	got := byPlayer(Aggregate(rows))
	if diff := cmp.Diff(got, byPlayer(Aggregate(reversed))); diff != "" {
		t.Fatalf("input order changed totals:\n%s", diff)
	}
	if len(got) != 2 || got[0].Player != "Viper" || got[0].Unique != 2 || got[0].Prize != 5 {
		t.Fatalf("unexpected summaries: %+v", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil summaries, got %#v", got)
	}
}

func TestSummarize(t *testing.T) {
	rows := []record.Completion{
		{Player: "A", Prize: 10},
		{Player: record.UnknownPlayer, Prize: 5},
		{Player: " unknown completion", Prize: 1},
		{Player: "A", Prize: 4},
	}
	want := Stats{Completions: 4, Players: 3, Unknown: 2, Prize: 20}
	if diff := cmp.Diff(want, Summarize(rows)); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
}
