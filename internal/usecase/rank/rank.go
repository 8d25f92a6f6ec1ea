// Package rank implements the filter and ranking engine: a stable
// filter over creator records and a weighted composite score with
// per-dimension max normalization.
package rank

import (
	"sort"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

// epsilon guards the normalization divisor when every value in a
// dimension is zero.
const epsilon = 1e-9

// Score pairs a record with its composite score.
type Score struct {
	Record creator.Record `json:"record"`
	Value  float64        `json:"score"`
}

// Filter returns the records satisfying every present constraint in
// spec, preserving input order. Pure function; the input is not
// mutated.
func Filter(records []creator.Record, spec query.Spec) []creator.Record {
	out := make([]creator.Record, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Rank scores every record and returns them sorted by score
// descending. The sort is stable: equal scores keep their input order,
// and all-zero weights reproduce the input order exactly. Each
// dimension is normalized against its maximum over the given records.
func Rank(records []creator.Record, weights query.Weights) []Score {
	if len(records) == 0 {
		return []Score{}
	}

	w := weights.Normalized()

	var maxEngagement, maxLikesComments float64
	var maxFollowers int64
	for _, r := range records {
		if r.EngagementRate > maxEngagement {
			maxEngagement = r.EngagementRate
		}
		if r.Followers > maxFollowers {
			maxFollowers = r.Followers
		}
		if r.LikesComments() > maxLikesComments {
			maxLikesComments = r.LikesComments()
		}
	}

	scores := make([]Score, len(records))
	for i, r := range records {
		scores[i] = Score{
			Record: r,
			Value: w.Engagement()*normalize(r.EngagementRate, maxEngagement) +
				w.Followers()*normalize(float64(r.Followers), float64(maxFollowers)) +
				w.LikesComments()*normalize(r.LikesComments(), maxLikesComments),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores
}

// normalize scales x against the dimension maximum. An all-zero
// dimension normalizes to 0 rather than dividing by zero.
func normalize(x, max float64) float64 {
	if max < epsilon {
		return 0
	}
	return x / max
}
