package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/k8ika0s/bounty-ledger/internal/leaderboard"
	"github.com/k8ika0s/bounty-ledger/internal/record"
)

var rows = []record.Completion{
	{BountyName: "Castle Rush", Player: "Viper", Prize: 25, Conditions: "Arabia, no XY walls"},
	{BountyName: "Monk Rush", Player: "Hera", Prize: 10, Attempts: record.Float(3), Conditions: "Nomad"},
	{BountyName: "Trush", Player: "TheMax", Prize: 10, Conditions: "Black Forest xy"},
}

func names(rs []record.Completion) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.BountyName)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want []string
	}{
		{"empty keeps all in order", "", []string{"Castle Rush", "Monk Rush", "Trush"}},
		{"blank keeps all", "   ", []string{"Castle Rush", "Monk Rush", "Trush"}},
		{"conditions match case-insensitive", "XY", []string{"Castle Rush", "Trush"}},
		{"player match", "hera", []string{"Monk Rush"}},
		{"trimmed query", "  rush ", []string{"Castle Rush", "Monk Rush", "Trush"}},
		{"spans joined fields", "nomad hera", []string{"Monk Rush"}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, names(Filter(rows, tt.q))); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortTextIsNumericAware(t *testing.T) {
	in := []record.Completion{{BountyName: "item10"}, {BountyName: "Item2"}, {BountyName: "item1"}}
	got := names(SortCompletions(in, Spec{Key: "bounty_name", Dir: Asc}))
	if diff := cmp.Diff([]string{"item1", "Item2", "item10"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if CompareText("item2", "item10") >= 0 {
		t.Fatalf("expected item2 before item10")
	}
}

func TestSortNumericAndStable(t *testing.T) {
	got := names(SortCompletions(rows, Spec{Key: "prize", Dir: Desc}))
	if diff := cmp.Diff([]string{"Castle Rush", "Monk Rush", "Trush"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	got = names(SortCompletions(rows, Spec{Key: "prize", Dir: Asc}))
	if diff := cmp.Diff([]string{"Monk Rush", "Trush", "Castle Rush"}, got); diff != "" {
		t.Fatalf("equal prizes must keep input order (-want +got):\n%s", diff)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := []record.Completion{{BountyName: "b"}, {BountyName: "a"}}
	_ = SortCompletions(in, Spec{Key: "bounty_name", Dir: Asc})
	if in[0].BountyName != "b" {
		t.Fatalf("input mutated")
	}
}

func TestSortSummaries(t *testing.T) {
	in := []leaderboard.Summary{
		{Player: "b", Completions: 1},
		{Player: "a", Completions: 3},
		{Player: "c", Completions: 3},
	}
	got := SortSummaries(in, Spec{Key: "completions", Dir: Desc})
	want := []string{"a", "c", "b"}
	for i, s := range got {
		if s.Player != want[i] {
			t.Fatalf("position %d: got %s want %s", i, s.Player, want[i])
		}
	}
}

func TestDefaultDirectionAndToggle(t *testing.T) {
	for key, want := range map[string]Direction{
		"player": Asc, "bounty_name": Asc, "conditions": Asc,
		"prize": Desc, "completions": Desc, "unique": Desc, "attempts": Desc,
	} {
		if got := DefaultDirection(key); got != want {
			t.Fatalf("%s: got %s want %s", key, got, want)
		}
	}
	s := Toggle(Spec{Key: "completions", Dir: Desc}, "completions")
	if s.Dir != Asc {
		t.Fatalf("same key should toggle, got %+v", s)
	}
	s = Toggle(s, "completions")
	if s.Dir != Desc {
		t.Fatalf("second toggle should flip back, got %+v", s)
	}
	s = Toggle(s, "player")
	if s != (Spec{Key: "player", Dir: Asc}) {
		t.Fatalf("new key should take default, got %+v", s)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" DESC "); err != nil || d != Desc {
		t.Fatalf("got %v %v", d, err)
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Fatalf("expected error")
	}
}
