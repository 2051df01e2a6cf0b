package usecase

import (
	"fmt"
	"slices"
	"strings"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
)

// PlanMode selects how broad the generated query set is.
type PlanMode string

const (
	PlanTargeted    PlanMode = "targeted"
	PlanExploratory PlanMode = "exploratory"
)

type planLimits struct {
	maxQueries   int
	signalPrefix int
}

var planModes = map[PlanMode]planLimits{
	PlanTargeted:    {maxQueries: 20, signalPrefix: 2},
	PlanExploratory: {maxQueries: 60, signalPrefix: 5},
}

var (
	greenfieldTemplates = []string{
		"new %s construction India",
		"%s groundbreaking India",
		"upcoming %s project India",
	}
	brownfieldTemplates = []string{
		"%s expansion India",
		"%s capacity expansion India",
		"%s modernisation India",
	}
	exploratoryTerms = []string{
		"construction completion India",
		"inauguration new building India",
		"project completion timeline India",
		"new factory opening India",
		"commercial complex inauguration",
		"infrastructure project completion",
	}
)

// ParsePlanMode maps user input onto a mode; empty input means targeted.
func ParsePlanMode(value string) (PlanMode, error) {
	switch mode := PlanMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return PlanTargeted, nil
	case PlanTargeted, PlanExploratory:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unknown plan mode %q", ErrInvalidSelection, value)
	}
}

// PlanQueries crosses sectors and project types into search phrases and
// biases each phrase with the head of the lead-signal catalog. Sectors are
// visited round-robin so the cap spreads queries across the whole selection;
// within a sector a base phrase is followed by its signal variants, and the
// project type a sector starts with rotates. The result is de-duplicated in
// first-seen order and capped by mode.
func PlanQueries(cat *catalog.Catalog, sectors []string, types []domain.ProjectType, mode PlanMode) ([]string, error) {
	limits, ok := planModes[mode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan mode %q", ErrInvalidSelection, mode)
	}
	if len(sectors) == 0 {
		return nil, fmt.Errorf("%w: no sectors selected", ErrInvalidSelection)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no project types selected", ErrInvalidSelection)
	}

	var signals []string
	for signal := range cat.LeadSignalPrefix(limits.signalPrefix) {
		signals = append(signals, signal)
	}

	var queues [][]string
	for i, sector := range uniqueSectors(sectors) {
		if queue := sectorQueue(sector, rotate(types, i), signals); len(queue) > 0 {
			queues = append(queues, queue)
		}
	}
	if len(queues) == 0 {
		return nil, fmt.Errorf("%w: no usable sector/type pairs", ErrInvalidSelection)
	}

	set := newQuerySet(limits.maxQueries)
	for round := 0; !set.full(); round++ {
		emitted := false
		for _, queue := range queues {
			if round < len(queue) {
				set.add(queue[round])
				emitted = true
			}
		}
		if round == 0 && mode == PlanExploratory {
			for _, term := range exploratoryTerms {
				set.add(term)
			}
		}
		if !emitted {
			break
		}
	}

	return set.items, nil
}

// sectorQueue lists one sector's queries: per template and project type, the
// base phrase followed by its signal variants.
func sectorQueue(sector string, types []domain.ProjectType, signals []string) []string {
	var queue []string
	for t := 0; ; t++ {
		added := false
		for _, pt := range types {
			templates := templatesFor(pt)
			if t >= len(templates) {
				continue
			}
			added = true
			base := fmt.Sprintf(templates[t], sector)
			queue = append(queue, base)
			for _, signal := range signals {
				queue = append(queue, base+" "+signal)
			}
		}
		if !added {
			return queue
		}
	}
}

func uniqueSectors(sectors []string) []string {
	seen := make(map[string]struct{}, len(sectors))
	out := make([]string, 0, len(sectors))
	for _, sector := range sectors {
		sector = strings.TrimSpace(sector)
		if sector == "" {
			continue
		}
		key := strings.ToLower(sector)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sector)
	}
	return out
}

func rotate(types []domain.ProjectType, n int) []domain.ProjectType {
	if len(types) == 0 {
		return nil
	}
	n %= len(types)
	return append(slices.Clone(types[n:]), types[:n]...)
}

func templatesFor(pt domain.ProjectType) []string {
	switch pt {
	case domain.Greenfield:
		return greenfieldTemplates
	case domain.Brownfield:
		return brownfieldTemplates
	default:
		return nil
	}
}

type querySet struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newQuerySet(limit int) *querySet {
	return &querySet{limit: limit, seen: map[string]struct{}{}}
}

func (q *querySet) full() bool {
	return len(q.items) >= q.limit
}

func (q *querySet) add(query string) {
	if q.full() {
		return
	}
	key := strings.ToLower(query)
	if _, ok := q.seen[key]; ok {
		return
	}
	q.seen[key] = struct{}{}
	q.items = append(q.items, query)
}
