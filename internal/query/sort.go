package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/k8ika0s/bounty-ledger/internal/leaderboard"
	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("sort direction must be asc or desc, got %q", s)
}

// Spec is a sort key and direction.
type Spec struct {
	Key string    `json:"key"`
	Dir Direction `json:"dir"`
}

// DefaultDirection is ascending for text columns and descending for
// numeric and count columns.
func DefaultDirection(key string) Direction {
	switch key {
	case "player", "bounty_name", "conditions":
		return Asc
	}
	return Desc
}

// Toggle flips the direction when key is already the sort key, otherwise it
// switches to key with its default direction.
func Toggle(current Spec, key string) Spec {
	if current.Key == key {
		if current.Dir == Asc {
			return Spec{Key: key, Dir: Desc}
		}
		return Spec{Key: key, Dir: Asc}
	}
	return Spec{Key: key, Dir: DefaultDirection(key)}
}

// Value is a sortable cell. Missing cells have IsNum false and empty Text.
type Value struct {
	Num   float64
	IsNum bool
	Text  string
}

func num(f float64) Value {
	return Value{Num: f, IsNum: true, Text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func text(s string) Value { return Value{Text: s} }

// Field extracts the cell for key from an item.
type Field[T any] func(item T, key string) Value

// CompletionKeys are the sortable completion columns.
var CompletionKeys = []string{"bounty_name", "player", "prize", "attempts", "conditions"}

// SummaryKeys are the sortable leaderboard columns.
var SummaryKeys = []string{"player", "completions", "unique", "prize"}

// CompletionField reads completion columns.
func CompletionField(c record.Completion, key string) Value {
	switch key {
	case "bounty_name":
		return text(c.BountyName)
	case "player":
		return text(c.Player)
	case "conditions":
		return text(c.Conditions)
	case "prize":
		return num(c.Prize)
	case "attempts":
		if c.Attempts != nil {
			return num(*c.Attempts)
		}
	}
	return Value{}
}

// SummaryField reads leaderboard columns.
func SummaryField(s leaderboard.Summary, key string) Value {
	switch key {
	case "player":
		return text(s.Player)
	case "completions":
		return num(float64(s.Completions))
	case "unique":
		return num(float64(s.Unique))
	case "prize":
		return num(s.Prize)
	}
	return Value{}
}

// newCollator compares text case- and accent-insensitively with digit runs
// ordered numerically. Collators are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric)
}

// Sort returns a stably sorted copy of items.
func Sort[T any](items []T, spec Spec, field Field[T]) []T {
	out := slices.Clone(items)
	col := newCollator()
	sign := 1
	if spec.Dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * compare(col, field(a, spec.Key), field(b, spec.Key))
	})
	return out
}

func compare(col *collate.Collator, a, b Value) int {
	if a.IsNum && b.IsNum {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	return col.CompareString(a.Text, b.Text)
}

// SortCompletions sorts completion rows by spec.
func SortCompletions(rows []record.Completion, spec Spec) []record.Completion {
	return Sort(rows, spec, CompletionField)
}

// SortSummaries sorts leaderboard summaries by spec.
func SortSummaries(rows []leaderboard.Summary, spec Spec) []leaderboard.Summary {
	return Sort(rows, spec, SummaryField)
}

// CompareText exposes the text ordering used by Sort.
func CompareText(a, b string) int {
	return newCollator().CompareString(a, b)
}
