package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
)

// ContraindicationThreshold is the adjustment factor at or below which a drug
// is contraindicated for the screened patient.
const ContraindicationThreshold = 0.1

// PGxScreener screens germline pharmacogene variants against a toxicity
// knowledge base. The lookup collaborator is constructor-injected so tests
// run deterministically without global state.
type PGxScreener struct {
	lookup domain.PGxLookup
	log    *logrus.Logger
}

// NewPGxScreener creates a new pharmacogenomic safety screener.
func NewPGxScreener(lookup domain.PGxLookup, logger *logrus.Logger) *PGxScreener {
	return &PGxScreener{lookup: lookup, log: logger}
}

// Screen evaluates every supplied variant against the target drug. The safety
// score is the minimum adjustment factor across screened variants: the most
// conservative variant wins. Lookup failures degrade that variant to
// unscreened with a caveat; they never fail the screen.
func (s *PGxScreener) Screen(ctx context.Context, drugName string, variants []domain.PGxVariant) *domain.PGxScreenResult {
	if strings.TrimSpace(drugName) == "" || len(variants) == 0 {
		return &domain.PGxScreenResult{
			Status:      domain.PGX_NOT_SCREENED,
			SafetyScore: 1.0,
			DrugName:    drugName,
		}
	}

	result := &domain.PGxScreenResult{
		Status:      domain.PGX_NOT_SCREENED,
		SafetyScore: 1.0,
		DrugName:    drugName,
	}

	for _, variant := range variants {
		assessment, err := s.lookupVariant(ctx, drugName, variant)
		if err != nil {
			result.Caveats = append(result.Caveats, fmt.Sprintf(
				"toxicity lookup unavailable for %s %s; variant treated as unscreened", variant.Gene, variant.Variant))
			continue
		}
		if assessment == nil {
			result.Caveats = append(result.Caveats, fmt.Sprintf(
				"no knowledge-base entry for %s %s with %s", variant.Gene, variant.Variant, drugName))
			continue
		}

		factor := clamp01(assessment.AdjustmentFactor)
		result.Status = domain.PGX_SCREENED
		result.Variants = append(result.Variants, domain.PGxVariantResult{
			Gene:             variant.Gene,
			Variant:          variant.Variant,
			Tier:             assessment.Tier,
			AdjustmentFactor: factor,
			Guidance:         assessment.Guidance,
		})

		if factor < result.SafetyScore {
			result.SafetyScore = factor
		}
	}

	if result.Status == domain.PGX_SCREENED && result.SafetyScore <= ContraindicationThreshold {
		result.Contraindicated = true
		result.Status = domain.PGX_CONTRAINDICATED
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"drug":            drugName,
			"variants":        len(variants),
			"screened":        len(result.Variants),
			"safety_score":    result.SafetyScore,
			"contraindicated": result.Contraindicated,
		}).Debug("Completed PGx safety screen")
	}

	return result
}

// lookupVariant guards against a missing collaborator and normalizes
// identifiers before the external lookup.
func (s *PGxScreener) lookupVariant(ctx context.Context, drugName string, variant domain.PGxVariant) (*domain.PGxAssessment, error) {
	if s.lookup == nil {
		return nil, fmt.Errorf("no PGx lookup configured")
	}
	gene := strings.ToUpper(strings.TrimSpace(variant.Gene))
	if gene == "" {
		return nil, nil
	}
	return s.lookup.Lookup(ctx, strings.TrimSpace(drugName), gene, strings.TrimSpace(variant.Variant))
}
