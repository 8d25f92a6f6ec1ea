package creatorinsight

import (
	"time"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	insightuc "github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/insight"
)

// Weights is the relative importance of each scoring dimension.
// Values must be non-negative; they need not sum to one.
type Weights struct {
	Engagement    float64
	Followers     float64
	LikesComments float64
}

func (w Weights) toDomain() (query.Weights, error) {
	return query.NewWeights(w.Engagement, w.Followers, w.LikesComments)
}

// Creator is one row of a loaded creator table.
type Creator struct {
	Name           string
	Category       string
	Followers      int64
	EngagementRate float64
	AvgLikes       float64
	AvgComments    float64
}

// RankedCreator pairs a creator with its composite score.
type RankedCreator struct {
	Creator
	Score float64
}

// Filter is the structured interpretation of a query. Nil pointers and
// an empty category mean the dimension is unconstrained.
type Filter struct {
	Category          string
	MinFollowers      *int64
	MaxFollowers      *int64
	MinEngagementRate *float64
}

// Result is the outcome of one query.
type Result struct {
	// Results holds the ranked matches, best first.
	Results []RankedCreator
	// Filter is the resolved interpretation of the query text.
	Filter Filter
	// Source names the interpretation branch: "model", "heuristic" or "cache".
	Source string
	// Total counts all matches before any result limit.
	Total int
}

// Dataset summarizes one loaded creator table.
type Dataset struct {
	ID          string
	Name        string
	Rows        int
	SkippedRows int
	UploadedAt  time.Time
}

// HistoryEntry is one logged query.
type HistoryEntry struct {
	Query     string
	Filter    Filter
	Weights   Weights
	Source    string
	Timestamp time.Time
}

func creatorFromDomain(r creator.Record) Creator {
	return Creator{
		Name:           r.Name,
		Category:       r.Category,
		Followers:      r.Followers,
		EngagementRate: r.EngagementRate,
		AvgLikes:       r.AvgLikes,
		AvgComments:    r.AvgComments,
	}
}

func datasetFromDomain(ds creator.Dataset) Dataset {
	return Dataset{
		ID:          ds.ID,
		Name:        ds.Name,
		Rows:        len(ds.Records),
		SkippedRows: ds.SkippedRows,
		UploadedAt:  ds.UploadedAt,
	}
}

func filterFromSpec(spec query.Spec) Filter {
	return Filter{
		Category:          spec.Category(),
		MinFollowers:      spec.MinFollowers(),
		MaxFollowers:      spec.MaxFollowers(),
		MinEngagementRate: spec.MinEngagementRate(),
	}
}

func resultFromDomain(res insightuc.Result) Result {
	ranked := make([]RankedCreator, len(res.Scores))
	for i, s := range res.Scores {
		ranked[i] = RankedCreator{Creator: creatorFromDomain(s.Record), Score: s.Value}
	}
	return Result{
		Results: ranked,
		Filter:  filterFromSpec(res.Spec),
		Source:  string(res.Source),
		Total:   res.Total,
	}
}
