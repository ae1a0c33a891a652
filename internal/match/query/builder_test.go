package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companymatch/internal/match/models"
	"companymatch/internal/match/scoring"
)

func newBuilder() *Builder {
	return New(scoring.Default(), 10)
}

func TestFanOut(t *testing.T) {
	t.Run("every populated signal yields weighted queries", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{
			Name:     "Acme Corp",
			Domain:   "acme.com",
			Phone:    "+1 555 0100",
			Facebook: "https://facebook.com/acme",
		})

		// domain, phone, name, one social handle
		require.Len(t, queries, 4)
		for _, q := range queries {
			assert.NotEmpty(t, q.Clauses)
			assert.Equal(t, 10, q.Size)
			for _, clause := range q.Clauses {
				assert.Greater(t, clause.Weight, 0.0)
				assert.NotEmpty(t, clause.Value)
			}
		}
	})

	t.Run("degenerate record yields no queries", func(t *testing.T) {
		assert.Empty(t, newBuilder().FanOut(models.InputRecord{}))
	})

	t.Run("website is an alias for domain", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{Website: "https://www.acme.com"})
		require.Len(t, queries, 1)
		require.Len(t, queries[0].Clauses, 2)
		assert.Equal(t, models.ModeExact, queries[0].Clauses[0].Mode)
		assert.Equal(t, "acme.com", queries[0].Clauses[0].Value)
		assert.Equal(t, 8.0, queries[0].Clauses[0].Weight)
		assert.Equal(t, models.ModeSubstring, queries[0].Clauses[1].Mode)
		assert.Equal(t, 6.0, queries[0].Clauses[1].Weight)
	})

	t.Run("phone expands to raw and digits-only clauses with configured weight", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{Phone: "+1 (555) 010-0100"})
		require.Len(t, queries, 1)
		require.Len(t, queries[0].Clauses, 2)
		assert.Equal(t, "+1 (555) 010-0100", queries[0].Clauses[0].Value)
		assert.Equal(t, "15550100100", queries[0].Clauses[1].Value)
		for _, clause := range queries[0].Clauses {
			assert.Equal(t, models.FieldPhone, clause.Target)
			assert.Equal(t, scoring.Default().Phone, clause.Weight)
		}
	})

	t.Run("digits-only phone emits a single clause", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{Phone: "15550100100"})
		require.Len(t, queries, 1)
		assert.Len(t, queries[0].Clauses, 1)
	})

	t.Run("each social handle expands independently", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{
			Twitter:  "https://twitter.com/acme",
			LinkedIn: "https://linkedin.com/acme",
		})
		require.Len(t, queries, 2)
	})

	t.Run("social handle carries exact, wildcard, clean, inferred and fuzzy clauses", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{SocialMedia: "https://www.facebook.com/acmeco"})
		require.Len(t, queries, 1)

		targets := make(map[models.TargetField]models.CandidateQuery)
		for _, clause := range queries[0].Clauses {
			targets[clause.Target] = clause
		}

		require.Contains(t, targets, models.FieldSocialExact)
		assert.Equal(t, 25.0, targets[models.FieldSocialExact].Weight)

		require.Contains(t, targets, models.FieldSocialClean)
		assert.Equal(t, "facebook.com/acmeco", targets[models.FieldSocialClean].Value)

		require.Contains(t, targets, models.FieldSocialDomainExact)
		assert.Equal(t, "acmeco.com", targets[models.FieldSocialDomainExact].Value)
		assert.Equal(t, 8.0, targets[models.FieldSocialDomainExact].Weight)

		require.Contains(t, targets, models.FieldSocialDomainWildcard)
		assert.Equal(t, 7.0, targets[models.FieldSocialDomainWildcard].Weight)

		require.Contains(t, targets, models.FieldSocialFuzzy)
		assert.Equal(t, models.ModeFuzzy, targets[models.FieldSocialFuzzy].Mode)
	})

	t.Run("social handle without inferable domain omits domain clauses", func(t *testing.T) {
		queries := newBuilder().FanOut(models.InputRecord{SocialMedia: "some profile"})
		require.Len(t, queries, 1)
		for _, clause := range queries[0].Clauses {
			assert.NotEqual(t, models.FieldSocialDomainExact, clause.Target)
			assert.NotEqual(t, models.FieldSocialDomainWildcard, clause.Target)
		}
	})
}

func TestCombined(t *testing.T) {
	t.Run("merges all clauses into one disjunctive query", func(t *testing.T) {
		q := newBuilder().Combined(models.InputRecord{
			Name:   "Acme",
			Domain: "acme.com",
		})
		assert.False(t, q.MatchAll)
		// two domain clauses plus two name clauses
		assert.Len(t, q.Clauses, 4)
	})

	t.Run("degenerate record degrades to match-all", func(t *testing.T) {
		q := newBuilder().Combined(models.InputRecord{})
		assert.True(t, q.MatchAll)
		assert.Empty(t, q.Clauses)
		assert.Equal(t, 10, q.Size)
	})
}
