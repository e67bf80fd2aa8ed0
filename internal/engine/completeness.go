package engine

import (
	"fmt"

	"github.com/trialfit-scoring-server/internal/domain"
)

// Completeness tier thresholds on the [0,1] completeness score.
const (
	tierL1Threshold = 0.3
	tierL2Threshold = 0.7
)

// Confidence ceilings per completeness tier. L2 data is uncapped.
const (
	tierL0ConfidenceCap = 0.4
	tierL1ConfidenceCap = 0.6
)

// GateIDConfidenceCap identifies the confidence capper in rationale lists.
const GateIDConfidenceCap = "confidence_cap"

// ClassifyCompleteness maps a completeness score to a discrete data-quality
// tier. An absent score defaults to 0.0, the most conservative tier. The
// classification is total: there are no error conditions.
func ClassifyCompleteness(score *float64) domain.CompletenessTier {
	value := 0.0
	if score != nil {
		value = *score
	}
	switch {
	case value < tierL1Threshold:
		return domain.TIER_L0
	case value < tierL2Threshold:
		return domain.TIER_L1
	default:
		return domain.TIER_L2
	}
}

// CapConfidence applies the completeness-tier confidence ceiling to a
// confidence value. The outcome records whether the cap was actually binding.
func CapConfidence(confidence float64, tier domain.CompletenessTier) (float64, domain.GateOutcome) {
	cap := 1.0
	switch tier {
	case domain.TIER_L0:
		cap = tierL0ConfidenceCap
	case domain.TIER_L1:
		cap = tierL1ConfidenceCap
	}

	outcome := domain.GateOutcome{
		GateID:     GateIDConfidenceCap,
		Multiplier: 1.0,
		Metadata: map[string]any{
			"tier":       tier.String(),
			"ceiling":    cap,
			"confidence": confidence,
		},
	}

	if confidence > cap {
		outcome.Verdict = domain.CAPPED
		outcome.Rationale = fmt.Sprintf(
			"confidence %.2f exceeds %s data-completeness ceiling %.2f; capped", confidence, tier, cap)
		return cap, outcome
	}

	outcome.Verdict = domain.NO_CAP
	outcome.Rationale = fmt.Sprintf(
		"confidence %.2f within %s data-completeness ceiling %.2f", confidence, tier, cap)
	return confidence, outcome
}
