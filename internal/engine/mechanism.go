package engine

import (
	"math"

	"github.com/trialfit-scoring-server/internal/domain"
)

// UndeterminedMechanismScore is the neutral default recorded when mechanism
// similarity cannot be computed. It is never silently zero.
const UndeterminedMechanismScore = 0.5

// ScoreMechanismFit computes cosine similarity between a patient and a trial
// mechanism vector. Absent vectors, length mismatches after normalization,
// and zero-magnitude vectors all yield an undetermined result with the
// neutral default score and an explicit caveat.
func ScoreMechanismFit(patient, trial *domain.MechanismProfile) domain.MechanismFitResult {
	if patient.IsZero() || trial.IsZero() {
		return undeterminedFit("mechanism vector missing for patient or trial")
	}

	p := patient.Values
	t := trial.Values
	if len(p) != len(t) || len(p) != len(domain.MechanismDimensions) {
		return undeterminedFit("mechanism vector dimension mismatch")
	}

	pn, okP := l2Normalize(p)
	tn, okT := l2Normalize(t)
	if !okP || !okT {
		return undeterminedFit("mechanism vector has zero magnitude")
	}

	var dot float64
	alignment := make([]domain.PathwayAlignment, len(pn))
	for i := range pn {
		product := pn[i] * tn[i]
		dot += product
		alignment[i] = domain.PathwayAlignment{
			Pathway:      domain.MechanismDimensions[i],
			Contribution: product,
		}
	}

	return domain.MechanismFitResult{
		Determined: true,
		Score:      clamp01(dot),
		Alignment:  alignment,
	}
}

func undeterminedFit(caveat string) domain.MechanismFitResult {
	return domain.MechanismFitResult{
		Determined: false,
		Score:      UndeterminedMechanismScore,
		Caveat:     caveat,
	}
}

// l2Normalize returns the unit vector, reporting false for zero magnitude.
func l2Normalize(v []float64) ([]float64, bool) {
	var sumSquares float64
	for _, x := range v {
		sumSquares += x * x
	}
	if sumSquares == 0 {
		return nil, false
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, true
}
