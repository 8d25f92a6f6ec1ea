package query

import "fmt"

// Weights is the user-assigned relative importance of each scoring
// dimension. Values are non-negative and need not sum to one.
type Weights struct {
	engagement    float64
	followers     float64
	likesComments float64
}

// NewWeights validates and creates a weight set. Negative values are
// rejected at this boundary so the ranking engine can assume
// non-negative weights.
func NewWeights(engagement, followers, likesComments float64) (Weights, error) {
	if engagement < 0 || followers < 0 || likesComments < 0 {
		return Weights{}, fmt.Errorf(
			"weights must be non-negative, got (%g, %g, %g)",
			engagement, followers, likesComments,
		)
	}
	return Weights{
		engagement:    engagement,
		followers:     followers,
		likesComments: likesComments,
	}, nil
}

// Engagement returns the engagement-rate weight.
func (w Weights) Engagement() float64 { return w.engagement }

// Followers returns the follower-count weight.
func (w Weights) Followers() float64 { return w.followers }

// LikesComments returns the combined likes+comments weight.
func (w Weights) LikesComments() float64 { return w.likesComments }

// IsZero reports whether every weight is zero.
func (w Weights) IsZero() bool {
	return w.engagement == 0 && w.followers == 0 && w.likesComments == 0
}

// Normalized returns the weights scaled to sum to one. Zero weights
// stay zero: with no preference expressed every score is zero and the
// input order wins.
func (w Weights) Normalized() Weights {
	sum := w.engagement + w.followers + w.likesComments
	if sum <= 0 {
		return Weights{}
	}
	return Weights{
		engagement:    w.engagement / sum,
		followers:     w.followers / sum,
		likesComments: w.likesComments / sum,
	}
}
