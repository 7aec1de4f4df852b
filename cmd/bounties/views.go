package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/client"
	"github.com/k8ika0s/bounty-ledger/internal/leaderboard"
	"github.com/k8ika0s/bounty-ledger/internal/query"
	"github.com/k8ika0s/bounty-ledger/internal/record"
	"github.com/k8ika0s/bounty-ledger/internal/settings"
)

type viewFlags struct {
	q      string
	sort   string
	dir    string
	remote bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.q, "query", "q", "", "only rows matching this text")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort column")
	cmd.Flags().StringVar(&f.dir, "dir", "", "sort direction (asc or desc)")
	cmd.Flags().BoolVar(&f.remote, "remote", false, "read from the API at BOUNTIES_API_URL instead of local storage")
}

// spec resolves the sort from flags over def.
func (f *viewFlags) spec(keys []string, def query.Spec) (query.Spec, error) {
	spec := def
	if f.sort != "" {
		valid := false
		for _, k := range keys {
			valid = valid || k == f.sort
		}
		if !valid {
			return spec, fmt.Errorf("--sort must be one of %s", strings.Join(keys, ", "))
		}
		spec = query.Spec{Key: f.sort, Dir: query.DefaultDirection(f.sort)}
	}
	if f.dir != "" {
		dir, err := query.ParseDirection(f.dir)
		if err != nil {
			return spec, err
		}
		spec.Dir = dir
	}
	return spec, nil
}

func (a *app) rows(ctx context.Context, remote bool) ([]record.Completion, error) {
	if remote {
		c := &client.Client{BaseURL: a.cfg.APIURL}
		return c.List(ctx)
	}
	st, err := a.cfg.Store(ctx, a.logger)
	if err != nil {
		return nil, err
	}
	defer a.closeStore(st)
	return st.List(ctx)
}

func (a *app) settings() settings.Settings {
	s, err := settings.Load(a.cfg.SettingsPath)
	if err != nil {
		a.logger.Warn("using default settings", zap.Error(err))
	}
	return s
}

func money(n float64) string {
	return "$" + humanize.Comma(int64(math.Round(n)))
}

func attemptsText(v *float64) string {
	if v == nil {
		return "(UNKNOWN)"
	}
	return humanize.Comma(int64(math.Round(*v)))
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newLeaderboardCmd(a *app) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print per-player totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.spec(query.SummaryKeys, a.settings().State().Leaderboard)
			if err != nil {
				return err
			}
			rows, err := a.rows(cmd.Context(), f.remote)
			if err != nil {
				return err
			}
			board := query.SortSummaries(leaderboard.Aggregate(query.Filter(rows, f.q)), spec)
			out := make([][]string, 0, len(board))
			for _, s := range board {
				out = append(out, []string{s.Player, fmt.Sprint(s.Completions), fmt.Sprint(s.Unique), money(s.Prize)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Player", "Completions", "Unique", "Prize"}, out)
		},
	}
	f.register(cmd)
	return cmd
}

func newCompletionsCmd(a *app) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Print individual completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.spec(query.CompletionKeys, a.settings().State().Completions)
			if err != nil {
				return err
			}
			rows, err := a.rows(cmd.Context(), f.remote)
			if err != nil {
				return err
			}
			sorted := query.SortCompletions(query.Filter(rows, f.q), spec)
			out := make([][]string, 0, len(sorted))
			for _, c := range sorted {
				out = append(out, []string{c.BountyName, c.Player, money(c.Prize), attemptsText(c.Attempts), c.Conditions})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Bounty", "Player", "Prize", "Attempts", "Conditions"}, out)
		},
	}
	f.register(cmd)
	return cmd
}

func statsLine(st leaderboard.Stats) string {
	return fmt.Sprintf("%d completions • %d players • %d UNKNOWN • %s total prizes",
		st.Completions, st.Players, st.Unknown, money(st.Prize))
}

func newStatsCmd(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dataset totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.rows(cmd.Context(), remote)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), statsLine(leaderboard.Summarize(rows)))
			return err
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "read from the API at BOUNTIES_API_URL instead of local storage")
	return cmd
}
