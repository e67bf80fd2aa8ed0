package engine

import (
	"fmt"

	"github.com/trialfit-scoring-server/internal/domain"
)

// GateIDOvarianResistance identifies the ovarian pathway resistance gate in
// rationale lists.
const GateIDOvarianResistance = "ovarian_pathway_resistance"

// Resistance-risk composite bands.
const (
	resistanceHighThreshold     = 0.60
	resistanceModerateThreshold = 0.35
	resistanceSensitiveCeiling  = 0.10
)

// Resistance-band efficacy multipliers.
const (
	resistanceHighMultiplier     = 0.70
	resistanceModerateMultiplier = 0.85
	resistanceSensitiveBonus     = 1.05
)

// EvaluateOvarianResistanceGate predicts platinum/PARP pathway resistance
// from expression data. It applies only to PARP-inhibitor or platinum-class
// drugs. Without expression data the gate is a no-op and the rationale states
// explicitly that HRD-based logic is the sole determinant. A failed trust
// pre-check (unvalidated cancer type or insufficient gene coverage) falls
// back silently with no score change.
func EvaluateOvarianResistanceGate(drug *domain.DrugDescriptor, record *domain.BiomarkerRecord, cancerType string) domain.GateOutcome {
	if !drug.IsPARPInhibitor() && !drug.IsPlatinum() {
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.FALLBACK,
			Multiplier: 1.0,
			Rationale:  "drug is neither PARP-inhibitor nor platinum class; resistance model not applicable",
		}
	}

	if !record.HasExpression() {
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.NO_EXPRESSION,
			Multiplier: 1.0,
			Rationale:  "no gene-expression data supplied; HRD-based germline logic is the sole determinant for this drug",
		}
	}

	scores, coverage := ComputeOvarianPathwayScores(record.Expression)
	metadata := map[string]any{
		"pathway_scores": scores,
		"gene_coverage":  coverage,
		"cancer_type":    cancerType,
	}

	// Trust pre-check: the prediction is only used when the cancer type is
	// validated for this model and expression passes the coverage check.
	if !OvarianModelValidatedFor(cancerType) {
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.FALLBACK,
			Multiplier: 1.0,
			Rationale:  fmt.Sprintf("cancer type %q not validated for the ovarian resistance model; prediction discarded", cancerType),
			Metadata:   metadata,
		}
	}
	if coverage < minGeneCoverage {
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.FALLBACK,
			Multiplier: 1.0,
			Rationale: fmt.Sprintf(
				"expression covers %.0f%% of model genes, below the %.0f%% quality floor; prediction discarded",
				coverage*100, minGeneCoverage*100),
			Metadata: metadata,
		}
	}

	composite := OvarianResistanceComposite(scores)
	metadata["composite"] = composite

	switch {
	case composite >= resistanceHighThreshold:
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.RESISTANCE_HIGH,
			Multiplier: resistanceHighMultiplier,
			Rationale: fmt.Sprintf(
				"pathway composite %.2f indicates HIGH platinum/PARP resistance risk (DDR %.2f, PI3K %.2f, VEGF %.2f)",
				composite, scores[PathwayDDR], scores[PathwayPI3K], scores[PathwayVEGF]),
			Metadata: metadata,
		}
	case composite >= resistanceModerateThreshold:
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.RESISTANCE_MODERATE,
			Multiplier: resistanceModerateMultiplier,
			Rationale:  fmt.Sprintf("pathway composite %.2f indicates MODERATE platinum/PARP resistance risk", composite),
			Metadata:   metadata,
		}
	case composite < resistanceSensitiveCeiling:
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.SENSITIVE,
			Multiplier: resistanceSensitiveBonus,
			Rationale:  fmt.Sprintf("pathway composite %.2f is very low; slightly increased predicted sensitivity", composite),
			Metadata:   metadata,
		}
	default:
		return domain.GateOutcome{
			GateID:     GateIDOvarianResistance,
			Verdict:    domain.RESISTANCE_LOW,
			Multiplier: 1.0,
			Rationale:  fmt.Sprintf("pathway composite %.2f indicates LOW resistance risk; no adjustment", composite),
			Metadata:   metadata,
		}
	}
}
