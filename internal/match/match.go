// Package match ranks mentor candidates against a viewer's declared goals.
//
// Scoring is a pure token-overlap: the fraction of a candidate's tag tokens
// that appear in the viewer's goal token set. All inputs are defensively
// coerced (nil slices as empty, blank strings dropped) so the package never
// returns an error and never panics.
package match

import (
	"sort"
	"strings"
)

// DisplayTagLimit caps how many specialty tags a candidate card shows.
// It is presentation only and never affects scoring.
const DisplayTagLimit = 6

// Goals are the viewer's declared interests and targets.
type Goals struct {
	PreferredFields []string
	CareerInterests []string
	DreamMajor      string
	TargetCountry   string
}

// Candidate is a mentor projection used for matching. FieldTags carries the
// mentor's full specialty list; DisplayTags the capped presentation slice.
type Candidate struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	FieldTags   []string `json:"-"`
	DisplayTags []string `json:"specialties"`
	University  string   `json:"university"`
	Country     string   `json:"country"`
	Score       float64  `json:"match_score"`
}

// GoalTokens normalizes the viewer's goals into a deduplicated token set:
// trimmed, lower-cased, empty strings dropped.
func GoalTokens(g Goals) map[string]struct{} {
	raw := make([]string, 0, len(g.PreferredFields)+len(g.CareerInterests)+2)
	raw = append(raw, g.PreferredFields...)
	raw = append(raw, g.CareerInterests...)
	raw = append(raw, g.DreamMajor, g.TargetCountry)

	tokens := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		t := normalize(s)
		if t == "" {
			continue
		}
		tokens[t] = struct{}{}
	}
	return tokens
}

// Score returns the fraction of the candidate's tag tokens found in the
// viewer's token set, in [0,1]. An empty viewer set scores 0 for any
// candidate (0/0 is defined as 0).
func Score(viewerTokens map[string]struct{}, candidateTags []string) float64 {
	if len(viewerTokens) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(candidateTags))
	overlap := 0
	for _, tag := range candidateTags {
		t := normalize(tag)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := viewerTokens[t]; ok {
			overlap++
		}
	}

	return float64(overlap) / float64(len(viewerTokens))
}

// RankMentors scores every candidate against the viewer's goals and returns
// them ordered by descending score. The sort is stable: equal scores keep
// their input order. The input slice is not mutated.
func RankMentors(goals Goals, candidates []Candidate) []Candidate {
	tokens := GoalTokens(goals)

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Score = Score(tokens, ranked[i].FieldTags)
		ranked[i].DisplayTags = capTags(ranked[i].FieldTags)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func capTags(tags []string) []string {
	out := make([]string, 0, DisplayTagLimit)
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == DisplayTagLimit {
			break
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
