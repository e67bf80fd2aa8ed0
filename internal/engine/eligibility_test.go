package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialfit-scoring-server/internal/domain"
)

func intPtr(v int) *int { return &v }

func eligiblePatient() *domain.PatientProfile {
	return &domain.PatientProfile{
		PatientID:  "PT-001",
		Disease:    "ovarian cancer",
		Age:        intPtr(58),
		Country:    "United States",
		Biomarkers: []string{"BRCA1", "HRD"},
	}
}

func recruitingTrial() *domain.TrialDescriptor {
	return &domain.TrialDescriptor{
		TrialID:            "NCT00000001",
		Status:             "Recruiting",
		Conditions:         []string{"Ovarian Cancer"},
		MinAge:             intPtr(18),
		MaxAge:             intPtr(75),
		Locations:          []string{"Boston, United States"},
		RequiredBiomarkers: []string{"BRCA1"},
	}
}

func TestEvaluateEligibility_AllComponentsPass(t *testing.T) {
	result := EvaluateEligibility(eligiblePatient(), recruitingTrial())

	assert.False(t, result.HardFailed)
	assert.Equal(t, 1.0, result.Score)
	require.Len(t, result.Breakdown, 5)

	// Checklist order is part of the contract.
	order := []string{CriterionStatus, CriterionDisease, CriterionAge, CriterionLocation, CriterionBiomarkers}
	for i, criterion := range order {
		assert.Equal(t, criterion, result.Breakdown[i].Criterion)
	}
}

func TestEvaluateEligibility_HardGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.PatientProfile, tr *domain.TrialDescriptor)
	}{
		{
			name: "Non-recruiting status zeroes the score",
			mutate: func(_ *domain.PatientProfile, tr *domain.TrialDescriptor) {
				tr.Status = "Completed"
			},
		},
		{
			name: "Unknown status is treated as not recruiting",
			mutate: func(_ *domain.PatientProfile, tr *domain.TrialDescriptor) {
				tr.Status = ""
			},
		},
		{
			name: "Age below minimum zeroes the score",
			mutate: func(p *domain.PatientProfile, _ *domain.TrialDescriptor) {
				p.Age = intPtr(16)
			},
		},
		{
			name: "Age above maximum zeroes the score",
			mutate: func(p *domain.PatientProfile, _ *domain.TrialDescriptor) {
				p.Age = intPtr(80)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patient := eligiblePatient()
			trial := recruitingTrial()
			tt.mutate(patient, trial)

			result := EvaluateEligibility(patient, trial)
			assert.True(t, result.HardFailed)
			assert.Equal(t, 0.0, result.Score)
			assert.Equal(t, HardCriteriaFailedSummary, result.Summary)
			// The breakdown survives a hard failure for explanation.
			assert.Len(t, result.Breakdown, 5)
		})
	}
}

func TestEvaluateEligibility_SoftComponents(t *testing.T) {
	t.Run("Unknown age is soft partial credit, not a hard fail", func(t *testing.T) {
		patient := eligiblePatient()
		patient.Age = nil

		result := EvaluateEligibility(patient, recruitingTrial())
		assert.False(t, result.HardFailed)
		// (1 + 1 + 0.5 + 1 + 1) / 5
		assert.InDelta(t, 0.9, result.Score, 1e-12)
	})

	t.Run("No condition match scores ambiguous, not zero", func(t *testing.T) {
		patient := eligiblePatient()
		patient.Disease = "pancreatic cancer"

		result := EvaluateEligibility(patient, recruitingTrial())
		assert.False(t, result.HardFailed)
		// (1 + 0.5 + 1 + 1 + 1) / 5
		assert.InDelta(t, 0.9, result.Score, 1e-12)
	})

	t.Run("Trial without conditions gets partial credit", func(t *testing.T) {
		trial := recruitingTrial()
		trial.Conditions = nil

		result := EvaluateEligibility(eligiblePatient(), trial)
		// (1 + 0.7 + 1 + 1 + 1) / 5
		assert.InDelta(t, 0.94, result.Score, 1e-12)
	})

	t.Run("Location mismatch is penalized but soft", func(t *testing.T) {
		patient := eligiblePatient()
		patient.Country = "Japan"

		result := EvaluateEligibility(patient, recruitingTrial())
		assert.False(t, result.HardFailed)
		// (1 + 1 + 1 + 0.5 + 1) / 5
		assert.InDelta(t, 0.9, result.Score, 1e-12)
	})

	t.Run("Biomarker coverage is fractional", func(t *testing.T) {
		trial := recruitingTrial()
		trial.RequiredBiomarkers = []string{"BRCA1", "TP53"}

		result := EvaluateEligibility(eligiblePatient(), trial)
		// (1 + 1 + 1 + 1 + 0.5) / 5
		assert.InDelta(t, 0.9, result.Score, 1e-12)
	})

	t.Run("Biomarker matching is case-insensitive", func(t *testing.T) {
		patient := eligiblePatient()
		patient.Biomarkers = []string{"brca1"}

		result := EvaluateEligibility(patient, recruitingTrial())
		assert.Equal(t, 1.0, result.Score)
	})
}
