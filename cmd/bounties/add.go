package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/k8ika0s/bounty-ledger/internal/client"
	"github.com/k8ika0s/bounty-ledger/internal/record"
	"github.com/k8ika0s/bounty-ledger/internal/store"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		c        record.Completion
		attempts string
		remote   bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a completion",
		Example: `  bounties add --bounty "Castle Rush" --player Viper --prize 25 --conditions "Arabia, no walls"
  bounties add --bounty Trush --player Hera --prize 10 --attempts 3 --conditions Arena --remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if attempts != "" {
				n, err := strconv.ParseFloat(attempts, 64)
				if err != nil {
					return fmt.Errorf("attempts must be blank or a number: %w", err)
				}
				c.Attempts = &n
			}
			var (
				total int
				err   error
			)
			if remote {
				total, err = (&client.Client{BaseURL: a.cfg.APIURL}).Add(cmd.Context(), c)
			} else {
				var st *store.Store
				st, err = a.cfg.Store(cmd.Context(), a.logger)
				if err == nil {
					defer a.closeStore(st)
					total, err = st.Append(cmd.Context(), c)
				}
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved! Total completions: %d.\n", total)
			return err
		},
	}
	cmd.Flags().StringVar(&c.BountyName, "bounty", "", "bounty name")
	cmd.Flags().StringVar(&c.Player, "player", "", "player, or \"UNKNOWN COMPLETION\"")
	cmd.Flags().Float64Var(&c.Prize, "prize", 0, "prize amount")
	cmd.Flags().StringVar(&attempts, "attempts", "", "attempt count, blank when unknown")
	cmd.Flags().StringVar(&c.Conditions, "conditions", "", "completion conditions")
	cmd.Flags().BoolVar(&remote, "remote", false, "post to the API at BOUNTIES_API_URL")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append completions from a JSON or YAML array, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.cfg.Store(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer a.closeStore(st)
			res, err := store.ImportFile(cmd.Context(), st, args[0])
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintf(out, "skipped %s\n", e)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "imported %d of %d rows (%d skipped); total completions: %d\n",
				res.Loaded, res.Rows, res.Skipped, res.Total)
			return err
		},
	}
}
