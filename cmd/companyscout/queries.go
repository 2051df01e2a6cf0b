package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queriesFlags selectionFlags

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the search queries a discover run would issue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		sel, err := queriesFlags.selection(a)
		if err != nil {
			return err
		}
		queries, err := a.PlanQueries(sel)
		if err != nil {
			return err
		}
		for _, q := range queries {
			fmt.Fprintln(cmd.OutOrStdout(), q)
		}
		return nil
	},
}

func init() {
	queriesFlags.bind(queriesCmd)
	rootCmd.AddCommand(queriesCmd)
}
