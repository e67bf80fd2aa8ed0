package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
)

// Fixed holistic score weights. They sum to 1.0, so perfect components
// compose to exactly 1.0.
const (
	weightMechanismFit = 0.5
	weightEligibility  = 0.3
	weightPGxSafety    = 0.2
)

// Interpretation band thresholds on the holistic score.
const (
	bandHighThreshold   = 0.8
	bandMediumThreshold = 0.6
	bandLowThreshold    = 0.4
)

// HolisticScorer blends mechanism fit, eligibility, and PGx safety into one
// patient-trial-drug feasibility score.
type HolisticScorer struct {
	pgx *PGxScreener
	log *logrus.Logger
}

// NewHolisticScorer creates a new holistic scorer with its PGx lookup
// collaborator injected.
func NewHolisticScorer(lookup domain.PGxLookup, logger *logrus.Logger) *HolisticScorer {
	return &HolisticScorer{
		pgx: NewPGxScreener(lookup, logger),
		log: logger,
	}
}

// ComputeHolisticScore scores one patient against one trial. The drug
// argument overrides the trial's drug when supplied; pharmacogenes may be
// empty, in which case the PGx component is 1.0 and reported as unscreened.
func (h *HolisticScorer) ComputeHolisticScore(
	ctx context.Context,
	patient *domain.PatientProfile,
	trial *domain.TrialDescriptor,
	pharmacogenes []domain.PGxVariant,
	drug *domain.DrugDescriptor,
) *domain.HolisticScoreResult {
	if drug == nil {
		drug = trial.Drug
	}
	drugName := ""
	if drug != nil {
		drugName = drug.Name
	}

	var caveats []string

	mechanism := ScoreMechanismFit(patientMechanism(patient), trial.Mechanism)
	if !mechanism.Determined {
		caveats = append(caveats, fmt.Sprintf(
			"mechanism fit undetermined (%s); defaulted to %.1f", mechanism.Caveat, UndeterminedMechanismScore))
	}

	eligibility := EvaluateEligibility(patient, trial)
	pgx := h.pgx.Screen(ctx, drugName, pharmacogenes)
	caveats = append(caveats, pgx.Caveats...)

	mechanismScore := clamp01(mechanism.Score)
	eligibilityScore := clamp01(eligibility.Score)
	pgxScore := clamp01(pgx.SafetyScore)

	holistic := clamp01(weightMechanismFit*mechanismScore +
		weightEligibility*eligibilityScore +
		weightPGxSafety*pgxScore)

	interpretation := interpretHolistic(holistic, eligibilityScore, pgx.Contraindicated)
	recommendation := recommendFor(interpretation, trial, holistic, mechanismScore, eligibilityScore, pgxScore)

	result := &domain.HolisticScoreResult{
		TrialID:           trial.TrialID,
		HolisticScore:     holistic,
		MechanismFitScore: mechanismScore,
		EligibilityScore:  eligibilityScore,
		PGxSafetyScore:    pgxScore,
		Weights: domain.HolisticWeights{
			MechanismFit: weightMechanismFit,
			Eligibility:  weightEligibility,
			PGxSafety:    weightPGxSafety,
		},
		Interpretation: interpretation,
		Recommendation: recommendation,
		Caveats:        caveats,
		Breakdown: domain.HolisticBreakdown{
			Mechanism:   &mechanism,
			Eligibility: &eligibility,
			PGx:         pgx,
		},
	}

	if h.log != nil {
		h.log.WithFields(logrus.Fields{
			"trial_id":       trial.TrialID,
			"holistic_score": holistic,
			"interpretation": interpretation.String(),
			"mechanism_fit":  mechanismScore,
			"eligibility":    eligibilityScore,
			"pgx_safety":     pgxScore,
		}).Debug("Computed holistic feasibility score")
	}

	return result
}

// interpretHolistic bands the composite score. The band checks run in fixed
// order: contraindication is a hard override, then ineligibility, then the
// numeric bands.
func interpretHolistic(holistic, eligibilityScore float64, contraindicated bool) domain.Interpretation {
	switch {
	case contraindicated:
		return domain.INTERPRETATION_CONTRAINDICATED
	case eligibilityScore <= 0:
		return domain.INTERPRETATION_INELIGIBLE
	case holistic >= bandHighThreshold:
		return domain.INTERPRETATION_HIGH
	case holistic >= bandMediumThreshold:
		return domain.INTERPRETATION_MEDIUM
	case holistic >= bandLowThreshold:
		return domain.INTERPRETATION_LOW
	default:
		return domain.INTERPRETATION_VERY_LOW
	}
}

// recommendFor emits the templated, data-driven recommendation string for an
// interpretation band, citing the component scores that drove it.
func recommendFor(band domain.Interpretation, trial *domain.TrialDescriptor, holistic, mechanism, eligibility, pgx float64) string {
	switch band {
	case domain.INTERPRETATION_CONTRAINDICATED:
		return fmt.Sprintf(
			"Pharmacogenomic screening contraindicates the trial drug (safety %.2f); do not consider %s regardless of fit.",
			pgx, trial.TrialID)
	case domain.INTERPRETATION_INELIGIBLE:
		return fmt.Sprintf(
			"Hard eligibility criteria failed (eligibility %.2f); %s is not a candidate for this patient.",
			eligibility, trial.TrialID)
	case domain.INTERPRETATION_HIGH:
		return fmt.Sprintf(
			"Strong candidate: holistic %.2f driven by mechanism fit %.2f and eligibility %.2f; prioritize %s for review.",
			holistic, mechanism, eligibility, trial.TrialID)
	case domain.INTERPRETATION_MEDIUM:
		return fmt.Sprintf(
			"Reasonable candidate: holistic %.2f (mechanism %.2f, eligibility %.2f, safety %.2f); review %s alongside stronger matches.",
			holistic, mechanism, eligibility, pgx, trial.TrialID)
	case domain.INTERPRETATION_LOW:
		return fmt.Sprintf(
			"Weak candidate: holistic %.2f limited by mechanism %.2f and eligibility %.2f; consider %s only if better options are exhausted.",
			holistic, mechanism, eligibility, trial.TrialID)
	default:
		return fmt.Sprintf(
			"Poor candidate: holistic %.2f (mechanism %.2f, eligibility %.2f, safety %.2f); %s is unlikely to benefit this patient.",
			holistic, mechanism, eligibility, pgx, trial.TrialID)
	}
}

func patientMechanism(patient *domain.PatientProfile) *domain.MechanismProfile {
	if patient == nil {
		return nil
	}
	return patient.Mechanism
}
