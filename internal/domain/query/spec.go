// Package query defines the structured filter derived from a free-text
// query, the user-supplied ranking weights, and the session history entry.
package query

import (
	"fmt"
	"strings"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
)

// Spec is a structured, optional-field filter derived from a query.
// Absent fields mean "no constraint on this dimension". Immutable once
// constructed.
type Spec struct {
	category      string
	minFollowers  *int64
	maxFollowers  *int64
	minEngagement *float64
}

// NewSpec validates and creates a filter Spec. All arguments are
// optional; nil pointers and an empty category leave the dimension
// unconstrained.
func NewSpec(category string, minFollowers, maxFollowers *int64, minEngagement *float64) (Spec, error) {
	if minFollowers != nil && *minFollowers < 0 {
		return Spec{}, fmt.Errorf("min_followers must be non-negative, got %d", *minFollowers)
	}
	if maxFollowers != nil && *maxFollowers < 0 {
		return Spec{}, fmt.Errorf("max_followers must be non-negative, got %d", *maxFollowers)
	}
	if minFollowers != nil && maxFollowers != nil && *minFollowers > *maxFollowers {
		return Spec{}, fmt.Errorf("min_followers (%d) exceeds max_followers (%d)", *minFollowers, *maxFollowers)
	}
	if minEngagement != nil && *minEngagement < 0 {
		return Spec{}, fmt.Errorf("min_engagement_rate must be non-negative, got %g", *minEngagement)
	}
	return Spec{
		category:      strings.TrimSpace(category),
		minFollowers:  minFollowers,
		maxFollowers:  maxFollowers,
		minEngagement: minEngagement,
	}, nil
}

// Category returns the category constraint ("" = unconstrained).
func (s Spec) Category() string { return s.category }

// MinFollowers returns the inclusive lower follower bound.
func (s Spec) MinFollowers() *int64 { return s.minFollowers }

// MaxFollowers returns the inclusive upper follower bound.
func (s Spec) MaxFollowers() *int64 { return s.maxFollowers }

// MinEngagementRate returns the lower engagement-rate bound.
func (s Spec) MinEngagementRate() *float64 { return s.minEngagement }

// IsEmpty reports whether the spec has no constraints.
func (s Spec) IsEmpty() bool {
	return s.category == "" && s.minFollowers == nil && s.maxFollowers == nil && s.minEngagement == nil
}

// Matches reports whether a record satisfies every present constraint.
// Category matching is a case-insensitive substring test; numeric
// bounds are inclusive.
func (s Spec) Matches(r creator.Record) bool {
	if s.category != "" &&
		!strings.Contains(strings.ToLower(r.Category), strings.ToLower(s.category)) {
		return false
	}
	if s.minFollowers != nil && r.Followers < *s.minFollowers {
		return false
	}
	if s.maxFollowers != nil && r.Followers > *s.maxFollowers {
		return false
	}
	if s.minEngagement != nil && r.EngagementRate < *s.minEngagement {
		return false
	}
	return true
}
