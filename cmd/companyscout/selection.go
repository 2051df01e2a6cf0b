package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"CompanyScout/internal/app"
	"CompanyScout/internal/domain"
	"CompanyScout/internal/usecase"
)

// selectionFlags holds the flags shared by discover and queries.
type selectionFlags struct {
	sectors      []string
	types        []string
	sources      []string
	mode         string
	maxPerSource int
	start        int
	end          int
	maxArticles  int
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.sectors, "sector", nil, "sectors to search (default: every catalog sector)")
	flags.StringSliceVar(&f.types, "type", nil, "project types: greenfield, brownfield (default: both)")
	flags.StringSliceVar(&f.sources, "source", nil, "sources to query (default: every configured source)")
	flags.StringVar(&f.mode, "mode", string(usecase.PlanTargeted), "query plan: targeted or exploratory")
	flags.IntVar(&f.maxPerSource, "max-per-source", 0, "results kept per source and query (default from config)")
	flags.IntVar(&f.start, "start", 0, "index of the first retrieved article to analyse")
	flags.IntVar(&f.end, "end", 0, "index after the last article to analyse (0 means all)")
	flags.IntVar(&f.maxArticles, "max-articles", 0, "analyse at most this many articles from --start")
}

// selection overlays the flags on the application defaults.
func (f *selectionFlags) selection(a *app.Application) (usecase.Selection, error) {
	sel := a.DefaultSelection()

	if len(f.sectors) > 0 {
		sel.Sectors = f.sectors
	}
	if len(f.types) > 0 {
		types := make([]domain.ProjectType, 0, len(f.types))
		for _, raw := range f.types {
			pt := domain.ParseProjectType(raw)
			if !pt.Typed() {
				return usecase.Selection{}, fmt.Errorf("%w: unknown project type %q", usecase.ErrInvalidSelection, raw)
			}
			types = append(types, pt)
		}
		sel.ProjectTypes = types
	}
	if len(f.sources) > 0 {
		sel.Sources = trimAll(f.sources)
	}

	mode, err := usecase.ParsePlanMode(f.mode)
	if err != nil {
		return usecase.Selection{}, err
	}
	sel.Mode = mode

	if f.maxPerSource != 0 {
		sel.MaxPerSource = f.maxPerSource
	}

	sel.Start, sel.End = f.start, f.end
	if f.maxArticles > 0 {
		limit := f.start + f.maxArticles
		if sel.End <= 0 || sel.End > limit {
			sel.End = limit
		}
	}
	return sel, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
