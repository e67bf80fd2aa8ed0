package engine

import (
	"fmt"

	"github.com/trialfit-scoring-server/internal/domain"
)

// GateIDPARP identifies the PARP germline/HRD gate in rationale lists.
const GateIDPARP = "parp_germline_hrd"

// hrdRescueThreshold is the HRD score at or above which germline-negative
// patients retain full predicted PARP-inhibitor effect.
const hrdRescueThreshold = 42.0

// PARP gate efficacy multipliers.
const (
	parpReducedMultiplier      = 0.6
	parpConservativeMultiplier = 0.8
)

// EvaluatePARPGate applies the germline/HRD decision table for PARP-class
// drugs. The table is evaluated in fixed order and the first matching row
// wins. Non-PARP drugs pass through untouched with a NOT_PARP verdict that
// the orchestrator omits from the final rationale list.
func EvaluatePARPGate(drug *domain.DrugDescriptor, germline domain.GermlineStatus, record *domain.BiomarkerRecord) domain.GateOutcome {
	if !drug.IsPARPInhibitor() {
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.NOT_PARP,
			Multiplier: 1.0,
			Rationale:  "drug is not a PARP inhibitor; gate not applicable",
		}
	}

	metadata := map[string]any{"germline_status": germline.String()}
	var hrd *float64
	if record != nil {
		hrd = record.HRDScore
	}
	if hrd != nil {
		metadata["hrd_score"] = *hrd
	}

	switch {
	case germline == domain.GERMLINE_POSITIVE:
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.FULL_EFFECT,
			Multiplier: 1.0,
			Rationale:  "germline-positive: full predicted PARP inhibitor effect",
			Metadata:   metadata,
		}

	case germline == domain.GERMLINE_NEGATIVE && hrd != nil && *hrd >= hrdRescueThreshold:
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.RESCUED,
			Multiplier: 1.0,
			Rationale: fmt.Sprintf(
				"germline-negative but HRD score %.1f >= %.0f indicates homologous-recombination deficiency; effect rescued",
				*hrd, hrdRescueThreshold),
			Metadata: metadata,
		}

	case germline == domain.GERMLINE_NEGATIVE && hrd != nil:
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.REDUCED,
			Multiplier: parpReducedMultiplier,
			Rationale: fmt.Sprintf(
				"germline-negative with HRD score %.1f < %.0f: reduced predicted effect", *hrd, hrdRescueThreshold),
			Metadata: metadata,
		}

	case germline == domain.GERMLINE_NEGATIVE:
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.CONSERVATIVE,
			Multiplier: parpConservativeMultiplier,
			Rationale:  "germline-negative with no HRD score available: conservative adjustment applied",
			Metadata:   metadata,
		}

	default: // germline status unknown
		return domain.GateOutcome{
			GateID:     GateIDPARP,
			Verdict:    domain.CONSERVATIVE,
			Multiplier: parpConservativeMultiplier,
			Rationale:  "germline status unknown: conservative adjustment applied",
			Metadata:   metadata,
		}
	}
}
