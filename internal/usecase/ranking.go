package usecase

import (
	"sort"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
)

// Score weights.
const (
	scoreConfidenceHigh   = 3
	scoreConfidenceMedium = 2
	scoreConfidenceLow    = 1
	scoreTypedProject     = 2
	scoreLeadSignal       = 2
	scoreTimeline         = 2
	scoreSectorHigh       = 3
	scoreSectorMedium     = 2
	scoreSectorOther      = 1
	scorePrivate          = 1
)

// Ranker scores and orders extracted companies for outreach.
type Ranker struct {
	catalog *catalog.Catalog
}

// NewRanker binds the scoring rules to a catalog.
func NewRanker(cat *catalog.Catalog) *Ranker {
	return &Ranker{catalog: cat}
}

// Score returns the additive relevance score of a record.
func (r *Ranker) Score(c domain.ExtractedCompany) int {
	score := 0

	switch c.Confidence {
	case domain.ConfidenceHigh:
		score += scoreConfidenceHigh
	case domain.ConfidenceMedium:
		score += scoreConfidenceMedium
	default:
		score += scoreConfidenceLow
	}

	if c.ProjectType.Typed() {
		score += scoreTypedProject
	}
	if r.catalog.HasLeadSignal(c.Stage) {
		score += scoreLeadSignal
	}
	if r.catalog.HasTimelineMarker(c.Timeline) {
		score += scoreTimeline
	}

	switch r.catalog.SectorPriority(c.Sector) {
	case catalog.PriorityHigh:
		score += scoreSectorHigh
	case catalog.PriorityMedium:
		score += scoreSectorMedium
	default:
		score += scoreSectorOther
	}

	if c.IsPrivateSector {
		score += scorePrivate
	}
	return score
}

// Rank drops inadmissible records, scores the rest, sorts them by score
// (stable, so ties keep input order) and keeps the first record per company key.
func (r *Ranker) Rank(companies []domain.ExtractedCompany) []domain.RankedCompany {
	ranked := make([]domain.RankedCompany, 0, len(companies))
	for _, c := range companies {
		if !c.Admissible() {
			continue
		}
		ranked = append(ranked, domain.RankedCompany{ExtractedCompany: c, RelevanceScore: r.Score(c)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	seen := make(map[domain.CompanyKey]struct{}, len(ranked))
	unique := ranked[:0]
	for _, c := range ranked {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
