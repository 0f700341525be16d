package corpus

import (
	"math"
	"sort"

	"github.com/podatlas/podatlas/internal/domain"
)

const (
	// MinSimilarity is the raw score threshold below which an episode pair
	// is not considered related.
	MinSimilarity = 0.3

	// MaxRelatedEpisodes caps the related-episode ranking per episode.
	MaxRelatedEpisodes = 5

	keywordWeight = 0.6
	themeWeight   = 0.4
)

// Score computes the symmetric relatedness of two episodes in [0,1]: the
// Dice coefficient on keyword sets weighted 0.6 plus the Dice coefficient on
// theme sets weighted 0.4. A pair of empty sets contributes 0 rather than
// dividing by zero.
func Score(a, b domain.Episode) float64 {
	return keywordWeight*diceCoefficient(a.Keywords, b.Keywords) +
		themeWeight*diceCoefficient(a.Themes, b.Themes)
}

// diceCoefficient returns 2*|a∩b| / (|a|+|b|), or 0 when both sets are empty.
func diceCoefficient(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, term := range a {
		set[term] = true
	}

	shared := 0
	for _, term := range b {
		if set[term] {
			shared++
		}
	}

	return float64(shared*2) / float64(total)
}

// Percentage converts a raw score to the rounded integer percentage stored
// in the artifact.
func Percentage(score float64) int {
	return int(math.Round(score * 100))
}

// RankRelated computes the related-episode list for the episode at index
// self over the completed corpus: every other episode scoring at least
// MinSimilarity, sorted descending by integer percentage, capped at
// MaxRelatedEpisodes. Ties break toward the smaller canonical sort key so
// the ranking is deterministic regardless of iteration order.
//
// The episodes slice must be fully extracted (themes and keywords final)
// before ranking; RankRelated only reads it.
func RankRelated(episodes []domain.Episode, self int) []domain.RelatedEpisode {
	related := make([]domain.RelatedEpisode, 0, MaxRelatedEpisodes)

	for i, other := range episodes {
		if i == self || other.ID == episodes[self].ID {
			continue
		}
		score := Score(episodes[self], other)
		if score < MinSimilarity {
			continue
		}
		related = append(related, domain.RelatedEpisode{
			ID:         other.ID,
			Title:      other.Title,
			Similarity: Percentage(score),
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Similarity != related[j].Similarity {
			return related[i].Similarity > related[j].Similarity
		}
		return SortKey(related[i].ID) < SortKey(related[j].ID)
	})

	if len(related) > MaxRelatedEpisodes {
		related = related[:MaxRelatedEpisodes]
	}
	return related
}
