package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyScout/internal/catalog"
	"CompanyScout/internal/domain"
)

func acme() domain.ExtractedCompany {
	return domain.ExtractedCompany{
		CompanyName:     "Acme",
		CoreIntent:      "New manufacturing plant in Pune",
		Stage:           "Groundbreaking ceremony held",
		Timeline:        domain.DefaultTimeline,
		ProjectType:     domain.Greenfield,
		Sector:          "Manufacturing",
		Confidence:      domain.ConfidenceHigh,
		IsPrivateSector: true,
	}
}

func beta() domain.ExtractedCompany {
	return domain.ExtractedCompany{
		CompanyName: "Beta",
		CoreIntent:  "Office refurbishment",
		Stage:       "Planning",
		Timeline:    domain.DefaultTimeline,
		ProjectType: domain.ProjectTypeUnknown,
		Sector:      domain.DefaultSector,
		Confidence:  domain.ConfidenceLow,
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	r := NewRanker(catalog.Default())
	assert.Equal(t, 11, r.Score(acme()))
	assert.Equal(t, 2, r.Score(beta()))

	withTimeline := acme()
	withTimeline.Timeline = "Q3 2025"
	assert.Equal(t, 13, r.Score(withTimeline))

	medium := beta()
	medium.Sector = "Hospital"
	medium.Confidence = domain.ConfidenceMedium
	medium.IsPrivateSector = true
	assert.Equal(t, 5, r.Score(medium))
}

func TestRankOrdersByScore(t *testing.T) {
	t.Parallel()

	b := beta()
	b.IsPrivateSector = true

	ranked := NewRanker(catalog.Default()).Rank([]domain.ExtractedCompany{b, acme()})
	require.Len(t, ranked, 2)
	assert.Equal(t, "Acme", ranked[0].CompanyName)
	assert.Equal(t, 11, ranked[0].RelevanceScore)
	assert.Equal(t, "Beta", ranked[1].CompanyName)
	assert.Equal(t, 3, ranked[1].RelevanceScore)
}

func TestRankIsStableForTies(t *testing.T) {
	t.Parallel()

	var input []domain.ExtractedCompany
	for _, name := range []string{"Gamma", "Delta", "Epsilon"} {
		c := acme()
		c.CompanyName = name
		input = append(input, c)
	}

	ranked := NewRanker(catalog.Default()).Rank(input)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Gamma", ranked[0].CompanyName)
	assert.Equal(t, "Delta", ranked[1].CompanyName)
	assert.Equal(t, "Epsilon", ranked[2].CompanyName)
}

func TestRankDropsInadmissibleRecords(t *testing.T) {
	t.Parallel()

	public := acme()
	public.CompanyName = "State Works Dept"
	public.IsPrivateSector = false

	nullName := acme()
	nullName.CompanyName = "NULL"

	ranked := NewRanker(catalog.Default()).Rank([]domain.ExtractedCompany{public, nullName, acme()})
	require.Len(t, ranked, 1)
	assert.Equal(t, "Acme", ranked[0].CompanyName)
}

func TestRankKeepsHighestScoredDuplicate(t *testing.T) {
	t.Parallel()

	weaker := acme()
	weaker.CompanyName = "  ACME "
	weaker.Confidence = domain.ConfidenceLow
	weaker.SourceLink = "https://example.com/weak"

	stronger := acme()
	stronger.SourceLink = "https://example.com/strong"

	other := acme()
	other.CoreIntent = "Warehouse expansion in Chennai"

	ranked := NewRanker(catalog.Default()).Rank([]domain.ExtractedCompany{weaker, stronger, other})
	require.Len(t, ranked, 2)
	assert.Equal(t, "https://example.com/strong", ranked[0].SourceLink)
	assert.Equal(t, "Warehouse expansion in Chennai", ranked[1].CoreIntent)

	again := NewRanker(catalog.Default()).Rank([]domain.ExtractedCompany{ranked[0].ExtractedCompany, ranked[1].ExtractedCompany})
	assert.Len(t, again, 2)
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewRanker(catalog.Default()).Rank(nil))
}
