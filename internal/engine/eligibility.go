package engine

import (
	"fmt"
	"strings"

	"github.com/trialfit-scoring-server/internal/domain"
)

// Eligibility checklist criterion names, in evaluation order.
const (
	CriterionStatus     = "recruiting_status"
	CriterionDisease    = "disease_match"
	CriterionAge        = "age_range"
	CriterionLocation   = "location_match"
	CriterionBiomarkers = "biomarker_coverage"
)

// HardCriteriaFailedSummary is the display summary when any hard gate scores
// zero.
const HardCriteriaFailedSummary = "HARD CRITERIA FAILED"

// Disease-match component scores.
const (
	diseaseExactMatchScore   = 1.0
	diseaseNoConditionsScore = 0.7
	diseaseAmbiguousScore    = 0.5
)

// EvaluateEligibility runs the fixed ordered eligibility checklist against
// trial metadata. Recruiting status and age range are hard gates: a zero on
// either forces the final score to zero. All other components are soft and
// enter the arithmetic mean. The breakdown always lists every evaluated
// component in checklist order.
func EvaluateEligibility(patient *domain.PatientProfile, trial *domain.TrialDescriptor) domain.EligibilityResult {
	breakdown := make([]domain.CriterionResult, 0, 5)

	breakdown = append(breakdown, evaluateStatusCriterion(trial))
	breakdown = append(breakdown, evaluateDiseaseCriterion(patient, trial))
	breakdown = append(breakdown, evaluateAgeCriterion(patient, trial))
	breakdown = append(breakdown, evaluateLocationCriterion(patient, trial))
	breakdown = append(breakdown, evaluateBiomarkerCriterion(patient, trial))

	var sum float64
	hardFailed := false
	for _, c := range breakdown {
		sum += c.Score
		if c.Hard && c.Score == 0 {
			hardFailed = true
		}
	}

	if hardFailed {
		return domain.EligibilityResult{
			Score:      0,
			HardFailed: true,
			Summary:    HardCriteriaFailedSummary,
			Breakdown:  breakdown,
		}
	}

	score := clamp01(sum / float64(len(breakdown)))
	return domain.EligibilityResult{
		Score:     score,
		Summary:   fmt.Sprintf("%d/%d checklist components evaluated, mean %.2f", len(breakdown), len(breakdown), score),
		Breakdown: breakdown,
	}
}

func evaluateStatusCriterion(trial *domain.TrialDescriptor) domain.CriterionResult {
	status := strings.ToLower(trial.Status)
	recruiting := strings.Contains(status, "recruiting") || strings.Contains(status, "active")
	if recruiting {
		return domain.CriterionResult{
			Criterion: CriterionStatus,
			Score:     1.0,
			Hard:      true,
			Detail:    fmt.Sprintf("trial status %q accepts enrollment", trial.Status),
		}
	}
	return domain.CriterionResult{
		Criterion: CriterionStatus,
		Score:     0,
		Hard:      true,
		Detail:    fmt.Sprintf("trial status %q is not recruiting", trial.Status),
	}
}

func evaluateDiseaseCriterion(patient *domain.PatientProfile, trial *domain.TrialDescriptor) domain.CriterionResult {
	disease := strings.ToLower(strings.TrimSpace(patient.Disease))
	if disease == "" {
		disease = strings.ToLower(strings.TrimSpace(patient.CancerType))
	}

	if len(trial.Conditions) == 0 {
		return domain.CriterionResult{
			Criterion: CriterionDisease,
			Score:     diseaseNoConditionsScore,
			Detail:    "trial lists no conditions; partial credit",
		}
	}

	for _, condition := range trial.Conditions {
		c := strings.ToLower(strings.TrimSpace(condition))
		if c == "" || disease == "" {
			continue
		}
		if c == disease || strings.Contains(c, disease) || strings.Contains(disease, c) {
			return domain.CriterionResult{
				Criterion: CriterionDisease,
				Score:     diseaseExactMatchScore,
				Detail:    fmt.Sprintf("patient disease matches trial condition %q", condition),
			}
		}
	}

	return domain.CriterionResult{
		Criterion: CriterionDisease,
		Score:     diseaseAmbiguousScore,
		Detail:    "no direct condition match; ambiguous",
	}
}

func evaluateAgeCriterion(patient *domain.PatientProfile, trial *domain.TrialDescriptor) domain.CriterionResult {
	if patient.Age == nil {
		return domain.CriterionResult{
			Criterion: CriterionAge,
			Score:     0.5,
			Detail:    "patient age not provided; partial credit pending verification",
		}
	}

	age := *patient.Age
	if trial.MinAge != nil && age < *trial.MinAge {
		return domain.CriterionResult{
			Criterion: CriterionAge,
			Score:     0,
			Hard:      true,
			Detail:    fmt.Sprintf("patient age %d below trial minimum %d", age, *trial.MinAge),
		}
	}
	if trial.MaxAge != nil && age > *trial.MaxAge {
		return domain.CriterionResult{
			Criterion: CriterionAge,
			Score:     0,
			Hard:      true,
			Detail:    fmt.Sprintf("patient age %d above trial maximum %d", age, *trial.MaxAge),
		}
	}
	return domain.CriterionResult{
		Criterion: CriterionAge,
		Score:     1.0,
		Hard:      true,
		Detail:    fmt.Sprintf("patient age %d within trial range", age),
	}
}

func evaluateLocationCriterion(patient *domain.PatientProfile, trial *domain.TrialDescriptor) domain.CriterionResult {
	if len(trial.Locations) == 0 {
		return domain.CriterionResult{
			Criterion: CriterionLocation,
			Score:     1.0,
			Detail:    "trial lists no location constraint",
		}
	}

	country := strings.ToLower(strings.TrimSpace(patient.Country))
	if country != "" {
		for _, location := range trial.Locations {
			if strings.Contains(strings.ToLower(location), country) {
				return domain.CriterionResult{
					Criterion: CriterionLocation,
					Score:     1.0,
					Detail:    fmt.Sprintf("trial site available in %q", location),
				}
			}
		}
	}

	return domain.CriterionResult{
		Criterion: CriterionLocation,
		Score:     0.5,
		Detail:    "no trial site matches patient location; travel may be required",
	}
}

func evaluateBiomarkerCriterion(patient *domain.PatientProfile, trial *domain.TrialDescriptor) domain.CriterionResult {
	if len(trial.RequiredBiomarkers) == 0 {
		return domain.CriterionResult{
			Criterion: CriterionBiomarkers,
			Score:     1.0,
			Detail:    "trial lists no biomarker requirements",
		}
	}

	have := make(map[string]bool, len(patient.Biomarkers))
	for _, b := range patient.Biomarkers {
		have[strings.ToUpper(strings.TrimSpace(b))] = true
	}

	matched := 0
	for _, required := range trial.RequiredBiomarkers {
		if have[strings.ToUpper(strings.TrimSpace(required))] {
			matched++
		}
	}

	fraction := float64(matched) / float64(len(trial.RequiredBiomarkers))
	return domain.CriterionResult{
		Criterion: CriterionBiomarkers,
		Score:     fraction,
		Detail:    fmt.Sprintf("%d/%d required biomarkers documented", matched, len(trial.RequiredBiomarkers)),
	}
}
