package interpret

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
)

// defaultCategories is the fixed vocabulary for local category
// extraction. Config may override it with the categories present in
// the uploaded data.
var defaultCategories = []string{
	"fashion", "beauty", "tech", "wellness", "fitness", "food",
	"travel", "gaming", "music", "lifestyle", "education", "finance",
	"sports", "comedy", "art", "parenting",
}

// numberPattern matches a numeric token with an optional thousands
// separator and an optional k/m/% suffix ("10k", "1.5m", "5%").
var numberPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(%|k\b|m\b)?`)

var (
	lowerBoundCues = []string{"more than", "greater than", "at least", "over", "above", ">=", ">"}
	upperBoundCues = []string{"less than", "fewer than", "at most", "under", "below", "<=", "<"}
)

// HeuristicParser extracts a filter spec from query text with keyword
// and number scanning. It never fails: anything it cannot interpret
// becomes a missing constraint.
type HeuristicParser struct {
	categories []string
}

// NewHeuristicParser creates a local parser. An empty category list
// falls back to the default vocabulary.
func NewHeuristicParser(categories []string) *HeuristicParser {
	if len(categories) == 0 {
		categories = defaultCategories
	}
	lowered := make([]string, len(categories))
	for i, c := range categories {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return &HeuristicParser{categories: lowered}
}

// Parse implements Parser. The returned error is always nil; the
// signature matches the remote parser so the two are interchangeable.
func (p *HeuristicParser) Parse(_ context.Context, text string) (domain.ParseResult, error) {
	lowered := strings.ToLower(text)

	category := p.extractCategory(lowered)
	minFollowers, maxFollowers, minEngagement := extractBounds(lowered)

	spec, err := query.NewSpec(category, minFollowers, maxFollowers, minEngagement)
	if err != nil {
		// Contradictory bounds degrade to the category constraint alone.
		spec, _ = query.NewSpec(category, nil, nil, nil)
	}
	return domain.ParseResult{Spec: spec, Source: query.SourceHeuristic}, nil
}

func (p *HeuristicParser) extractCategory(lowered string) string {
	for _, c := range p.categories {
		if c != "" && strings.Contains(lowered, c) {
			return c
		}
	}
	return ""
}

// extractBounds scans numeric tokens and binds each to the nearest
// preceding comparison cue. Numbers without a cue are ignored rather
// than guessed. A % suffix or the word "engagement" nearby routes the
// bound to the engagement dimension.
func extractBounds(lowered string) (minFollowers, maxFollowers *int64, minEngagement *float64) {
	for _, m := range numberPattern.FindAllStringSubmatchIndex(lowered, -1) {
		numText := lowered[m[2]:m[3]]
		suffix := ""
		if m[4] >= 0 {
			suffix = lowered[m[4]:m[5]]
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(numText, ",", ""), 64)
		if err != nil {
			continue
		}
		switch suffix {
		case "k":
			value *= 1_000
		case "m":
			value *= 1_000_000
		}

		cue := precedingCue(lowered[:m[0]])
		if cue == cueNone {
			continue
		}

		if suffix == "%" || mentionsEngagement(lowered, m[0], m[1]) {
			if cue == cueLower && minEngagement == nil {
				rate := value
				if rate > 1 {
					rate /= 100 // percentage form
				}
				minEngagement = &rate
			}
			// An upper engagement bound is not part of the spec; skip.
			continue
		}

		// Follower counts beyond any real platform are noise, and the
		// guard keeps the float→int64 conversion in range.
		if value < 0 || value > 1e15 {
			continue
		}
		followers := int64(value)
		if cue == cueLower && minFollowers == nil {
			minFollowers = &followers
		}
		if cue == cueUpper && maxFollowers == nil {
			maxFollowers = &followers
		}
	}
	return minFollowers, maxFollowers, minEngagement
}

type cueKind int

const (
	cueNone cueKind = iota
	cueLower
	cueUpper
)

// precedingCue inspects the tail of the text before a number for a
// comparison phrase. The window is short so a cue binds to the nearest
// numeric token only.
func precedingCue(prefix string) cueKind {
	const window = 16
	if len(prefix) > window {
		prefix = prefix[len(prefix)-window:]
	}
	best, kind := -1, cueNone
	for _, cue := range lowerBoundCues {
		if idx := strings.LastIndex(prefix, cue); idx > best {
			best, kind = idx, cueLower
		}
	}
	for _, cue := range upperBoundCues {
		if idx := strings.LastIndex(prefix, cue); idx > best {
			best, kind = idx, cueUpper
		}
	}
	return kind
}

// mentionsEngagement checks a window around the number for the word
// "engagement" to route the bound to the right dimension.
func mentionsEngagement(lowered string, start, end int) bool {
	const window = 24
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(lowered) {
		hi = len(lowered)
	}
	return strings.Contains(lowered[lo:hi], "engagement")
}
