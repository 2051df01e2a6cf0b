package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyScout/internal/domain"
)

func TestToTSVEmptyReturnsSentinel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoResultsTSV, ToTSV(nil, TSVOptions{IncludeTimeline: true}))
	assert.Equal(t, NoResultsTSV, ToTSV(NewRanker(nil).Rank(nil), TSVOptions{}))
}

func TestToTSVHeader(t *testing.T) {
	t.Parallel()

	withTimeline := TSVHeader(TSVOptions{IncludeTimeline: true})
	assert.Len(t, withTimeline, 13)
	assert.Equal(t, "Company Name", withTimeline[0])
	assert.Equal(t, "Detailed Timeline", withTimeline[4])
	assert.Equal(t, "Date", withTimeline[12])

	without := TSVHeader(TSVOptions{})
	assert.Len(t, without, 12)
	assert.NotContains(t, without, "Detailed Timeline")
}

func TestToTSVSanitizesValues(t *testing.T) {
	t.Parallel()

	c := domain.RankedCompany{ExtractedCompany: acme(), RelevanceScore: 11}
	c.CoreIntent = "Plant\twith\r\ntabs\nand\rbreaks"
	c.ArticleTitle = "Title\tsplit"
	c.SourceLink = "https://example.com/a"

	for _, opts := range []TSVOptions{{IncludeTimeline: true}, {}} {
		doc := ToTSV([]domain.RankedCompany{c, c}, opts)
		lines := strings.Split(doc, "\n")
		require.Len(t, lines, 3)

		want := len(TSVHeader(opts))
		for _, line := range lines {
			assert.Len(t, strings.Split(line, "\t"), want)
		}

		fields := strings.Split(lines[1], "\t")
		assert.Equal(t, "Plant with tabs and breaks", fields[2])
		assert.Contains(t, lines[1], "Title split")
		assert.Contains(t, lines[1], "\tYes\t11\t")
	}
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.March, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "discovered_companies_20250307_0905.tsv", ExportFileName(ts))
}
