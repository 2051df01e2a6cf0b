package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"CompanyScout/internal/usecase"
)

var discoverFlags selectionFlags

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the discovery pipeline and print ranked leads as TSV",
	Long: "Plans search queries, retrieves articles from the selected sources, extracts companies with the " +
		"language model, ranks them and writes the TSV to stdout (or a file with --out / --save).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		sel, err := discoverFlags.selection(a)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		progress := func(done, total int) {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\ranalysed %d/%d articles", done, total)
				if done == total {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
			}
		}

		result, err := a.Run(ctx, sel, progress)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		save, _ := cmd.Flags().GetBool("save")
		if save && out == "" {
			out = filepath.Join(a.ExportDir(), usecase.ExportFileName(result.StartedAt))
		}
		if err := writeTSV(cmd.OutOrStdout(), out, result.TSV); err != nil {
			return err
		}

		printSummary(cmd.ErrOrStderr(), result)
		return nil
	},
}

func init() {
	discoverFlags.bind(discoverCmd)
	discoverCmd.Flags().String("out", "", "write the TSV to this file instead of stdout")
	discoverCmd.Flags().Bool("save", false, "write the TSV to a timestamped file in the export directory")
	discoverCmd.Flags().BoolP("quiet", "q", false, "hide progress output")
	rootCmd.AddCommand(discoverCmd)
}

func writeTSV(stdout io.Writer, path, tsv string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, tsv)
		return err
	}
	if err := os.WriteFile(path, []byte(tsv+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s (%s)\n", path, usecase.MIMEType)
	return nil
}

func printSummary(w io.Writer, result *usecase.Result) {
	s := result.Summary()
	r := result.Stats.Retrieval

	fmt.Fprintf(w, "run %s finished in %s\n", result.RunID, time.Since(result.StartedAt).Round(time.Second))
	fmt.Fprintf(w, "queries: %d  calls: %d  failed calls: %d  articles: %d unique of %d\n",
		r.Queries, r.Calls, r.Failures, r.UniqueArticles, r.RawArticles)
	fmt.Fprintf(w, "articles analysed: %d  companies found: %d  high confidence: %d  success rate: %.1f%%\n",
		s.ArticlesAnalyzed, s.CompaniesFound, s.HighConfidence, s.SuccessRate)

	switch {
	case r.Calls > 0 && r.Failures == r.Calls:
		fmt.Fprintln(w, "every search call failed; check connectivity or try again later")
	case r.UniqueArticles == 0:
		fmt.Fprintln(w, "no articles found; try other sectors or sources")
	case s.CompaniesFound == 0:
		fmt.Fprintln(w, "no companies extracted; articles may not name specific companies")
	}

	if top, ok := result.TopLead(); ok {
		fmt.Fprintln(w, usecase.OutreachHint(top))
	}
}
