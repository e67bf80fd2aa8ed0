package engine

import (
	"fmt"

	"github.com/trialfit-scoring-server/internal/domain"
)

// monitoringFactorThreshold is the adjustment factor below which a screened
// drug requires enhanced monitoring even without a MODERATE toxicity tier.
const monitoringFactorThreshold = 0.8

// defaultModerateAdjustment substitutes for a missing adjustment factor when
// the toxicity tier alone triggers the monitoring policy.
const defaultModerateAdjustment = 0.8

// ComposeRiskBenefit combines one drug's efficacy score with an optional PGx
// toxicity screen into a single safety-gated ranking score. Policy, in
// order: unscreened passes efficacy through; HIGH toxicity or an adjustment
// factor at or below the contraindication threshold is a hard veto; MODERATE
// toxicity or a factor below the monitoring threshold scales efficacy by the
// factor; otherwise efficacy passes through unchanged.
func ComposeRiskBenefit(efficacy float64, tier *domain.ToxicityTier, adjustmentFactor *float64) *domain.RiskBenefitResult {
	efficacy = clamp01(efficacy)

	provenance := domain.RiskBenefitProvenance{
		EfficacyScore: efficacy,
		Screened:      tier != nil || adjustmentFactor != nil,
	}
	if tier != nil {
		provenance.ToxicityTier = *tier
	}
	if adjustmentFactor != nil {
		clamped := clamp01(*adjustmentFactor)
		provenance.AdjustmentFactor = &clamped
	}

	if !provenance.Screened {
		return &domain.RiskBenefitResult{
			CompositeScore: efficacy,
			Action:         domain.ACTION_PREFERRED_UNSCREENED,
			Rationale:      fmt.Sprintf("no pharmacogenomic screen available; ranking on efficacy %.2f alone", efficacy),
			Provenance:     provenance,
		}
	}

	factor := 1.0
	hasFactor := provenance.AdjustmentFactor != nil
	if hasFactor {
		factor = *provenance.AdjustmentFactor
	}

	// Hard veto: efficacy is irrelevant once the screen says high risk.
	if (tier != nil && *tier == domain.TOXICITY_HIGH) || (hasFactor && factor <= ContraindicationThreshold) {
		return &domain.RiskBenefitResult{
			CompositeScore: 0,
			Action:         domain.ACTION_AVOID,
			Rationale:      "high-risk pharmacogenomic profile vetoes this drug regardless of predicted efficacy",
			Provenance:     provenance,
		}
	}

	if (tier != nil && *tier == domain.TOXICITY_MODERATE) || (hasFactor && factor < monitoringFactorThreshold) {
		if !hasFactor {
			// Tier-only screen: apply the named conservative default.
			factor = defaultModerateAdjustment
		}
		composite := clamp01(efficacy * factor)
		return &domain.RiskBenefitResult{
			CompositeScore: composite,
			Action:         domain.ACTION_MONITORING,
			Rationale: fmt.Sprintf(
				"moderate toxicity risk scales efficacy %.2f by adjustment factor %.2f", efficacy, factor),
			Provenance: provenance,
		}
	}

	return &domain.RiskBenefitResult{
		CompositeScore: efficacy,
		Action:         domain.ACTION_PREFERRED,
		Rationale:      fmt.Sprintf("pharmacogenomic screen is clean; efficacy %.2f stands", efficacy),
		Provenance:     provenance,
	}
}
