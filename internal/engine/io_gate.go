package engine

import (
	"fmt"

	"github.com/trialfit-scoring-server/internal/domain"
)

// GateIDIOBoost identifies the IO pathway/TMB/MSI boost gate in rationale
// lists.
const GateIDIOBoost = "io_response_boost"

// TMB thresholds in mutations per megabase.
const (
	tmbHighThreshold         = 20.0
	tmbIntermediateThreshold = 10.0
)

// Boost multipliers. Boosts are mutually exclusive: the priority table stops
// at the first applicable rule and multipliers are never stacked.
const (
	ioPathwayStrongBoost   = 1.40
	ioPathwayModerateBoost = 1.30
	ioPathwayWeakBoost     = 1.15
	tmbHighBoost           = 1.35
	msiHighBoost           = 1.30
	tmbIntermediateBoost   = 1.25
)

// IO composite bands for the pathway boost rule.
const (
	ioCompositeStrongThreshold   = 0.70
	ioCompositeModerateThreshold = 0.50
	ioCompositeWeakThreshold     = 0.30
)

// ioUnvalidatedConfidencePenalty down-weights the raw pathway composite when
// the cancer type or expression quality is unvalidated for the IO model.
const ioUnvalidatedConfidencePenalty = 0.8

// hypermutatorGenes is the fixed gene set whose mutation suggests an
// unmeasured hypermutator phenotype.
var hypermutatorGenes = map[string]bool{
	"POLE":  true,
	"POLD1": true,
	"MLH1":  true,
	"MSH2":  true,
	"MSH6":  true,
	"PMS2":  true,
	"MUTYH": true,
	"NTHL1": true,
}

// ioGateInput is the evaluation context shared by all priority rules.
type ioGateInput struct {
	record     *domain.BiomarkerRecord
	cancerType string
}

// ioBoostRule is one row of the declarative priority table: a named predicate
// that either produces the gate outcome or passes to the next row.
type ioBoostRule struct {
	name     string
	evaluate func(in ioGateInput) (domain.GateOutcome, bool)
}

// ioBoostPriority encodes the strict precedence contract
// (pathway > TMB-high > MSI > TMB-intermediate > hypermutator flag).
// Evaluation stops at the first applicable rule.
var ioBoostPriority = []ioBoostRule{
	{name: "pathway_composite", evaluate: evaluateIOPathwayRule},
	{name: "tmb_high", evaluate: evaluateTMBHighRule},
	{name: "msi_high", evaluate: evaluateMSIHighRule},
	{name: "tmb_intermediate", evaluate: evaluateTMBIntermediateRule},
	{name: "hypermutator_flag", evaluate: evaluateHypermutatorRule},
}

// EvaluateIOBoostGate applies the immunotherapy boost priority table for
// checkpoint-inhibitor-class drugs. Exactly one rule produces the outcome.
func EvaluateIOBoostGate(drug *domain.DrugDescriptor, record *domain.BiomarkerRecord, cancerType string) domain.GateOutcome {
	if !drug.IsCheckpointInhibitor() {
		return domain.GateOutcome{
			GateID:     GateIDIOBoost,
			Verdict:    domain.NO_BOOST,
			Multiplier: 1.0,
			Rationale:  "drug is not checkpoint-inhibitor class; gate not applicable",
		}
	}

	in := ioGateInput{record: record, cancerType: cancerType}
	for _, rule := range ioBoostPriority {
		if outcome, ok := rule.evaluate(in); ok {
			if outcome.Metadata == nil {
				outcome.Metadata = map[string]any{}
			}
			outcome.Metadata["rule"] = rule.name
			return outcome
		}
	}

	return domain.GateOutcome{
		GateID:     GateIDIOBoost,
		Verdict:    domain.NO_BOOST,
		Multiplier: 1.0,
		Rationale:  "no immunotherapy response marker met a boost threshold",
	}
}

// evaluateIOPathwayRule is the highest-priority rule. It applies only when
// expression data is supplied and either the model trust pre-check passes or
// there is no TMB/MSI measurement to fall back to.
func evaluateIOPathwayRule(in ioGateInput) (domain.GateOutcome, bool) {
	if !in.record.HasExpression() {
		return domain.GateOutcome{}, false
	}

	scores, coverage := ComputeIOPathwayScores(in.record.Expression)
	validated := IOModelValidatedFor(in.cancerType)
	qualityOK := coverage >= minGeneCoverage
	hasFallback := in.record.HasMeasuredTMB() || in.record.NormalizedMSI() != domain.MSI_UNKNOWN

	if !(validated && qualityOK) && hasFallback {
		// Untrusted prediction with measured markers available: defer to them.
		return domain.GateOutcome{}, false
	}

	composite := IOResponseComposite(scores)
	raw := composite
	if !validated || !qualityOK {
		composite *= ioUnvalidatedConfidencePenalty
	}

	metadata := map[string]any{
		"pathway_scores":      scores,
		"raw_composite":       raw,
		"adjusted_composite":  composite,
		"cancer_type_trusted": validated,
		"expression_coverage": coverage,
	}

	var boost float64
	switch {
	case composite >= ioCompositeStrongThreshold:
		boost = ioPathwayStrongBoost
	case composite >= ioCompositeModerateThreshold:
		boost = ioPathwayModerateBoost
	case composite >= ioCompositeWeakThreshold:
		boost = ioPathwayWeakBoost
	default:
		return domain.GateOutcome{
			GateID:     GateIDIOBoost,
			Verdict:    domain.NO_BOOST,
			Multiplier: 1.0,
			Rationale:  fmt.Sprintf("IO pathway composite %.2f below boost threshold %.2f", composite, ioCompositeWeakThreshold),
			Metadata:   metadata,
		}, true
	}

	return domain.GateOutcome{
		GateID:     GateIDIOBoost,
		Verdict:    domain.BOOSTED,
		Multiplier: boost,
		Rationale:  fmt.Sprintf("IO pathway composite %.2f supports a %.2fx checkpoint-inhibitor boost", composite, boost),
		Metadata:   metadata,
	}, true
}

func evaluateTMBHighRule(in ioGateInput) (domain.GateOutcome, bool) {
	if !in.record.HasMeasuredTMB() || *in.record.TMB < tmbHighThreshold {
		return domain.GateOutcome{}, false
	}
	return domain.GateOutcome{
		GateID:     GateIDIOBoost,
		Verdict:    domain.BOOSTED,
		Multiplier: tmbHighBoost,
		Rationale:  fmt.Sprintf("TMB %.1f mut/Mb >= %.0f: strong immunotherapy response marker", *in.record.TMB, tmbHighThreshold),
		Metadata:   map[string]any{"tmb": *in.record.TMB},
	}, true
}

func evaluateMSIHighRule(in ioGateInput) (domain.GateOutcome, bool) {
	if in.record.NormalizedMSI() != domain.MSI_HIGH {
		return domain.GateOutcome{}, false
	}
	return domain.GateOutcome{
		GateID:     GateIDIOBoost,
		Verdict:    domain.BOOSTED,
		Multiplier: msiHighBoost,
		Rationale:  "MSI-High status: established immunotherapy response marker",
		Metadata:   map[string]any{"msi_status": domain.MSI_HIGH.String()},
	}, true
}

func evaluateTMBIntermediateRule(in ioGateInput) (domain.GateOutcome, bool) {
	if !in.record.HasMeasuredTMB() || *in.record.TMB < tmbIntermediateThreshold {
		return domain.GateOutcome{}, false
	}
	return domain.GateOutcome{
		GateID:     GateIDIOBoost,
		Verdict:    domain.BOOSTED,
		Multiplier: tmbIntermediateBoost,
		Rationale:  fmt.Sprintf("TMB %.1f mut/Mb >= %.0f: intermediate immunotherapy response marker", *in.record.TMB, tmbIntermediateThreshold),
		Metadata:   map[string]any{"tmb": *in.record.TMB},
	}, true
}

// evaluateHypermutatorRule flags suspected hypermutation when TMB was never
// measured but a hypermutator-pathway gene is mutated. It never grants a
// boost; it only recommends measurement.
func evaluateHypermutatorRule(in ioGateInput) (domain.GateOutcome, bool) {
	if in.record.HasMeasuredTMB() {
		return domain.GateOutcome{}, false
	}
	for _, gene := range in.record.MutatedGenes() {
		if hypermutatorGenes[gene] {
			return domain.GateOutcome{
				GateID:     GateIDIOBoost,
				Verdict:    domain.SUSPECTED_HYPERMUTATION,
				Multiplier: 1.0,
				Rationale: fmt.Sprintf(
					"%s mutation suggests a hypermutator phenotype but TMB is unmeasured; measure TMB and MSI before inferring immunotherapy benefit",
					gene),
				Metadata: map[string]any{"gene": gene},
			}, true
		}
	}
	return domain.GateOutcome{}, false
}
