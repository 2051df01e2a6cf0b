package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured search sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		for _, name := range a.SourceNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Show leads archived by earlier runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		leads, err := a.RecentLeads(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No archived leads (is storage.dsn / LEADS_DSN set?).")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tCOMPANY\tSECTOR\tSTAGE\tLINK")
		for _, l := range leads {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", l.RelevanceScore, l.CompanyName, l.Sector, l.Stage, l.SourceLink)
		}
		return w.Flush()
	},
}

func init() {
	leadsCmd.Flags().Int("limit", 20, "maximum number of leads to show")
	rootCmd.AddCommand(sourcesCmd, leadsCmd)
}
