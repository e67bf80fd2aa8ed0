package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
)

// GateIDSummary identifies the orchestrator summary entry in rationale lists.
const GateIDSummary = "summary"

// GateOrchestrator composes the safety gates in a fixed priority order per
// drug. Evaluation order is part of the reproducibility contract:
// PARP gate, ovarian resistance gate, IO boost gate, confidence cap.
type GateOrchestrator struct {
	log *logrus.Logger
}

// NewGateOrchestrator creates a new gate orchestrator.
func NewGateOrchestrator(logger *logrus.Logger) *GateOrchestrator {
	return &GateOrchestrator{log: logger}
}

// ApplyGates runs all applicable gates for one (drug, biomarker record) pair,
// multiplying each gate's adjustment into a running efficacy value and
// appending every outcome to an ordered rationale list. Both efficacy and
// confidence are clamped to [0,1] on entry and exit.
func (o *GateOrchestrator) ApplyGates(
	drug *domain.DrugDescriptor,
	efficacy, confidence float64,
	germline domain.GermlineStatus,
	record *domain.BiomarkerRecord,
	cancerType string,
) *domain.AdjustedScore {
	originalEfficacy := clamp01(efficacy)
	originalConfidence := clamp01(confidence)
	adjustedEfficacy := originalEfficacy

	rationale := make([]domain.GateOutcome, 0, 5)
	fired := make([]string, 0, 4)

	// Stage 1: PARP germline/HRD gate. Non-PARP drugs leave no rationale entry.
	parp := EvaluatePARPGate(drug, germline, record)
	if parp.Verdict != domain.NOT_PARP {
		adjustedEfficacy *= parp.Multiplier
		rationale = append(rationale, parp)
		if parp.Applied() {
			fired = append(fired, parp.GateID)
		}
	}

	// Stage 2: ovarian resistance gate, only when the PARP gate penalized the
	// drug or the drug is platinum class.
	if parp.Multiplier < 1.0 || drug.IsPlatinum() {
		ovarian := EvaluateOvarianResistanceGate(drug, record, cancerType)
		adjustedEfficacy *= ovarian.Multiplier
		rationale = append(rationale, ovarian)
		if ovarian.Applied() {
			fired = append(fired, ovarian.GateID)
		}
	}

	// Stage 3: IO boost gate, checkpoint-class drugs only.
	if drug.IsCheckpointInhibitor() {
		io := EvaluateIOBoostGate(drug, record, cancerType)
		adjustedEfficacy *= io.Multiplier
		rationale = append(rationale, io)
		if io.Applied() {
			fired = append(fired, io.GateID)
		}
	}

	// Stage 4: confidence cap from data completeness, tracked separately from
	// efficacy.
	tier := ClassifyCompleteness(recordCompleteness(record))
	adjustedConfidence, capOutcome := CapConfidence(originalConfidence, tier)
	rationale = append(rationale, capOutcome)
	if capOutcome.Verdict == domain.CAPPED {
		fired = append(fired, capOutcome.GateID)
	}

	adjustedEfficacy = clamp01(adjustedEfficacy)
	adjustedConfidence = clamp01(adjustedConfidence)

	rationale = append(rationale, domain.GateOutcome{
		GateID:     GateIDSummary,
		Verdict:    domain.SUMMARY,
		Multiplier: 1.0,
		Rationale: fmt.Sprintf(
			"efficacy %.3f -> %.3f, confidence %.3f -> %.3f; gates fired: [%s]",
			originalEfficacy, adjustedEfficacy, originalConfidence, adjustedConfidence,
			strings.Join(fired, ", ")),
		Metadata: map[string]any{
			"original_efficacy":   originalEfficacy,
			"final_efficacy":      adjustedEfficacy,
			"original_confidence": originalConfidence,
			"final_confidence":    adjustedConfidence,
			"fired_gates":         fired,
			"completeness_tier":   tier.String(),
		},
	})

	if o.log != nil {
		o.log.WithFields(logrus.Fields{
			"drug":              drug.Name,
			"original_efficacy": originalEfficacy,
			"final_efficacy":    adjustedEfficacy,
			"final_confidence":  adjustedConfidence,
			"fired_gates":       fired,
			"completeness_tier": tier.String(),
		}).Debug("Completed gate evaluation")
	}

	return &domain.AdjustedScore{
		Efficacy:           adjustedEfficacy,
		Confidence:         adjustedConfidence,
		OriginalEfficacy:   originalEfficacy,
		OriginalConfidence: originalConfidence,
		FiredGates:         fired,
		Rationale:          rationale,
	}
}

// recordCompleteness extracts the completeness score from a possibly nil
// record.
func recordCompleteness(record *domain.BiomarkerRecord) *float64 {
	if record == nil {
		return nil
	}
	return record.CompletenessScore
}
