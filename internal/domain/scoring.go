package domain

import (
	"encoding/json"
	"time"
)

// MechanismDimensions is the fixed dimension order for mechanism vectors.
// Both patient and trial vectors are normalized to this order before scoring.
var MechanismDimensions = []string{"DDR", "MAPK", "PI3K", "VEGF", "HER2", "IO", "Efflux"}

// MechanismProfile is a pathway-activity vector used for patient/trial
// mechanism matching. It accepts either an ordered array or a pathway-name
// mapping on the wire; mappings are converted to the fixed dimension order
// with 0.0 for absent keys. A malformed payload yields an empty profile,
// which downstream scoring treats as undetermined rather than an error.
type MechanismProfile struct {
	Values []float64
}

// UnmarshalJSON accepts both the ordered-array and mapping wire forms.
func (p *MechanismProfile) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		p.Values = arr
		return nil
	}

	var m map[string]float64
	if err := json.Unmarshal(data, &m); err == nil {
		p.Values = VectorFromMapping(m)
		return nil
	}

	// Shape mismatch degrades to undetermined, never a request failure.
	p.Values = nil
	return nil
}

// MarshalJSON emits the ordered-array form.
func (p MechanismProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Values)
}

// IsZero reports whether the profile carries no vector data.
func (p *MechanismProfile) IsZero() bool {
	return p == nil || len(p.Values) == 0
}

// VectorFromMapping converts a pathway-name mapping into the fixed dimension
// order, defaulting absent dimensions to 0.0. Unknown keys are ignored.
func VectorFromMapping(m map[string]float64) []float64 {
	values := make([]float64, len(MechanismDimensions))
	for i, dim := range MechanismDimensions {
		values[i] = m[dim]
	}
	return values
}

// PatientProfile describes the patient side of a feasibility scoring request.
type PatientProfile struct {
	PatientID  string            `json:"patient_id,omitempty"`
	Disease    string            `json:"disease,omitempty"`
	CancerType string            `json:"cancer_type,omitempty"`
	Age        *int              `json:"age,omitempty"`
	Country    string            `json:"country,omitempty"`
	Biomarkers []string          `json:"biomarkers,omitempty"`
	Mechanism  *MechanismProfile `json:"mechanism_vector,omitempty"`
	Biomarker  *BiomarkerRecord  `json:"biomarker_record,omitempty"`
}

// TrialDescriptor describes the trial side of a feasibility scoring request,
// pre-fetched by a trial-registry collaborator and passed by value.
type TrialDescriptor struct {
	TrialID            string            `json:"trial_id"`
	Title              string            `json:"title,omitempty"`
	Status             string            `json:"status,omitempty"`
	Conditions         []string          `json:"conditions,omitempty"`
	MinAge             *int              `json:"min_age,omitempty"`
	MaxAge             *int              `json:"max_age,omitempty"`
	Locations          []string          `json:"locations,omitempty"`
	RequiredBiomarkers []string          `json:"required_biomarkers,omitempty"`
	Mechanism          *MechanismProfile `json:"mechanism_vector,omitempty"`
	Drug               *DrugDescriptor   `json:"drug,omitempty"`
}

// MechanismFitResult represents the mechanism similarity between a patient and
// a trial, with a per-dimension alignment breakdown for transparency.
type MechanismFitResult struct {
	Determined bool               `json:"determined"`
	Score      float64            `json:"score"`
	Alignment  []PathwayAlignment `json:"alignment,omitempty"`
	Caveat     string             `json:"caveat,omitempty"`
}

// PathwayAlignment is the contribution of a single mechanism dimension,
// the elementwise product of the two normalized vectors.
type PathwayAlignment struct {
	Pathway      string  `json:"pathway"`
	Contribution float64 `json:"contribution"`
}

// CriterionResult is one entry of the eligibility checklist breakdown,
// reported in checklist order.
type CriterionResult struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Hard      bool    `json:"hard"`
	Detail    string  `json:"detail"`
}

// EligibilityResult represents the rule-based eligibility checklist outcome.
type EligibilityResult struct {
	Score      float64           `json:"score"`
	HardFailed bool              `json:"hard_failed"`
	Summary    string            `json:"summary"`
	Breakdown  []CriterionResult `json:"breakdown"`
}

// PGxVariant identifies one germline pharmacogene variant supplied for
// toxicity screening.
type PGxVariant struct {
	Gene    string `json:"gene"`
	Variant string `json:"variant"`
}

// PGxAssessment is the toxicity lookup result for one
// (drug, gene, variant) combination.
type PGxAssessment struct {
	Tier             ToxicityTier `json:"toxicity_tier"`
	AdjustmentFactor float64      `json:"adjustment_factor"`
	Guidance         string       `json:"guidance,omitempty"`
	Source           string       `json:"source,omitempty"`
}

// PGxVariantResult is one screened variant with its assessment.
type PGxVariantResult struct {
	Gene             string       `json:"gene"`
	Variant          string       `json:"variant"`
	Tier             ToxicityTier `json:"toxicity_tier"`
	AdjustmentFactor float64      `json:"adjustment_factor"`
	Guidance         string       `json:"guidance,omitempty"`
}

// PGxScreenResult represents the pharmacogenomic safety screen for one drug.
// The safety score is the minimum adjustment factor across screened variants.
type PGxScreenResult struct {
	Status          PGxStatus          `json:"status"`
	SafetyScore     float64            `json:"safety_score"`
	Contraindicated bool               `json:"contraindicated"`
	DrugName        string             `json:"drug_name,omitempty"`
	Variants        []PGxVariantResult `json:"variants,omitempty"`
	Caveats         []string           `json:"caveats,omitempty"`
}

// HolisticWeights are the fixed component weights of the holistic score.
type HolisticWeights struct {
	MechanismFit float64 `json:"mechanism_fit"`
	Eligibility  float64 `json:"eligibility"`
	PGxSafety    float64 `json:"pgx_safety"`
}

// HolisticBreakdown carries the full component results backing a holistic
// score, for display and audit.
type HolisticBreakdown struct {
	Mechanism   *MechanismFitResult `json:"mechanism,omitempty"`
	Eligibility *EligibilityResult  `json:"eligibility,omitempty"`
	PGx         *PGxScreenResult    `json:"pgx,omitempty"`
}

// HolisticScoreResult is the unified patient-trial-drug feasibility score.
// All component scores are independently clamped to [0,1] before composition;
// the composite is a derived value recomputed on every call.
type HolisticScoreResult struct {
	TrialID           string            `json:"trial_id,omitempty"`
	HolisticScore     float64           `json:"holistic_score"`
	MechanismFitScore float64           `json:"mechanism_fit_score"`
	EligibilityScore  float64           `json:"eligibility_score"`
	PGxSafetyScore    float64           `json:"pgx_safety_score"`
	Weights           HolisticWeights   `json:"weights"`
	Interpretation    Interpretation    `json:"interpretation"`
	Recommendation    string            `json:"recommendation"`
	Caveats           []string          `json:"caveats,omitempty"`
	Breakdown         HolisticBreakdown `json:"breakdown"`
}

// TrialScoreSummary is one entry of a ranked batch scoring result.
type TrialScoreSummary struct {
	Rank           int            `json:"rank"`
	TrialID        string         `json:"trial_id"`
	Title          string         `json:"title,omitempty"`
	HolisticScore  float64        `json:"holistic_score"`
	Interpretation Interpretation `json:"interpretation"`
	Recommendation string         `json:"recommendation"`
	Caveats        []string       `json:"caveats,omitempty"`
}

// RiskBenefitProvenance records the inputs a risk-benefit composite was
// derived from, so rankings can be audited without re-screening.
type RiskBenefitProvenance struct {
	EfficacyScore    float64       `json:"efficacy_score"`
	Screened         bool          `json:"screened"`
	ToxicityTier     ToxicityTier  `json:"toxicity_tier,omitempty"`
	AdjustmentFactor *float64      `json:"adjustment_factor,omitempty"`
}

// RiskBenefitResult combines an efficacy score with a PGx toxicity tier into
// one safety-gated ranking score. Ownership is caller-local; no instance is
// shared across drugs.
type RiskBenefitResult struct {
	CompositeScore float64               `json:"composite_score"`
	Action         RiskBenefitAction     `json:"action"`
	Rationale      string                `json:"rationale"`
	Provenance     RiskBenefitProvenance `json:"provenance"`
}

// ScoreReport is an immutable audit record of one scoring call, persisted so
// regression and validation tooling can diff runs bit for bit.
type ScoreReport struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"` // GATES, HOLISTIC, BATCH, RISK_BENEFIT
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// Report kinds.
const (
	REPORT_GATES        = "GATES"
	REPORT_HOLISTIC     = "HOLISTIC"
	REPORT_BATCH        = "BATCH"
	REPORT_RISK_BENEFIT = "RISK_BENEFIT"
)
