// Package scoring turns a marker set into a 0-100 lead score with a
// per-marker breakdown.
package scoring

import "risclens_backend/internal/intel/domain"

// Weights is the additive contribution of each marker. The weights sum to
// exactly 100, so clamping only guards against future edits.
var Weights = map[string]int{
	domain.MarkerSecurityPage:          20,
	domain.MarkerTrustPage:             20,
	domain.MarkerSOC2:                  20,
	domain.MarkerResponsibleDisclosure: 15,
	domain.MarkerComplianceTool:        15,
	domain.MarkerSecurityContact:       10,
}

// IndexableThreshold is the minimum score for a company profile to be
// published on the public site.
const IndexableThreshold = 30

// Score computes the breakdown and clamped total for a marker set. Every
// known marker appears in the breakdown, absent or false markers as zero.
func Score(markers domain.Markers) (domain.ScoreBreakdown, int) {
	breakdown := make(domain.ScoreBreakdown, len(Weights))
	total := 0
	for _, name := range domain.MarkerNames {
		weight := Weights[name]
		if markers[name] {
			breakdown[name] = weight
			total += weight
		} else {
			breakdown[name] = 0
		}
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return breakdown, total
}

// Indexable reports whether a score qualifies the profile for publication.
func Indexable(score int) bool {
	return score >= IndexableThreshold
}
