package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialfit-scoring-server/internal/domain"
)

// stubPGxLookup serves canned assessments keyed by "gene/variant". A nil entry
// means the combination is not covered by the knowledge base.
type stubPGxLookup struct {
	table map[string]*domain.PGxAssessment
	err   error
}

func (s *stubPGxLookup) Lookup(_ context.Context, _, gene, variant string) (*domain.PGxAssessment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.table[gene+"/"+variant], nil
}

func TestPGxScreener_NoVariantsIsNotScreened(t *testing.T) {
	screener := NewPGxScreener(&stubPGxLookup{}, testLogger())

	result := screener.Screen(context.Background(), "Fluorouracil", nil)

	assert.Equal(t, domain.PGX_NOT_SCREENED, result.Status)
	assert.Equal(t, 1.0, result.SafetyScore)
	assert.False(t, result.Contraindicated)
}

func TestPGxScreener_MinimumFactorWins(t *testing.T) {
	screener := NewPGxScreener(&stubPGxLookup{table: map[string]*domain.PGxAssessment{
		"DPYD/*2A":   {Tier: domain.TOXICITY_MODERATE, AdjustmentFactor: 0.5, Guidance: "reduce starting dose"},
		"TPMT/*3A":   {Tier: domain.TOXICITY_LOW, AdjustmentFactor: 0.9},
		"UGT1A1/*28": {Tier: domain.TOXICITY_MODERATE, AdjustmentFactor: 0.7},
	}}, testLogger())

	result := screener.Screen(context.Background(), "Fluorouracil", []domain.PGxVariant{
		{Gene: "TPMT", Variant: "*3A"},
		{Gene: "DPYD", Variant: "*2A"},
		{Gene: "UGT1A1", Variant: "*28"},
	})

	assert.Equal(t, domain.PGX_SCREENED, result.Status)
	assert.Equal(t, 0.5, result.SafetyScore)
	assert.False(t, result.Contraindicated)
	require.Len(t, result.Variants, 3)
}

func TestPGxScreener_ContraindicationThreshold(t *testing.T) {
	tests := []struct {
		name       string
		factor     float64
		wantStatus domain.PGxStatus
		wantContra bool
	}{
		{"Factor at threshold contraindicates", 0.1, domain.PGX_CONTRAINDICATED, true},
		{"Factor zero contraindicates", 0.0, domain.PGX_CONTRAINDICATED, true},
		{"Factor just above threshold does not", 0.11, domain.PGX_SCREENED, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screener := NewPGxScreener(&stubPGxLookup{table: map[string]*domain.PGxAssessment{
				"DPYD/*2A": {Tier: domain.TOXICITY_HIGH, AdjustmentFactor: tt.factor},
			}}, testLogger())

			result := screener.Screen(context.Background(), "Fluorouracil", []domain.PGxVariant{{Gene: "DPYD", Variant: "*2A"}})

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantContra, result.Contraindicated)
		})
	}
}

func TestPGxScreener_LookupFailureDegradesWithCaveat(t *testing.T) {
	screener := NewPGxScreener(&stubPGxLookup{err: errors.New("knowledge base unreachable")}, testLogger())

	result := screener.Screen(context.Background(), "Fluorouracil", []domain.PGxVariant{{Gene: "DPYD", Variant: "*2A"}})

	// The screen never fails: the variant degrades to unscreened.
	assert.Equal(t, domain.PGX_NOT_SCREENED, result.Status)
	assert.Equal(t, 1.0, result.SafetyScore)
	require.Len(t, result.Caveats, 1)
	assert.Contains(t, result.Caveats[0], "DPYD")
}

func TestPGxScreener_UncoveredVariantLeavesCaveat(t *testing.T) {
	screener := NewPGxScreener(&stubPGxLookup{table: map[string]*domain.PGxAssessment{
		"DPYD/*2A": {Tier: domain.TOXICITY_MODERATE, AdjustmentFactor: 0.5},
	}}, testLogger())

	result := screener.Screen(context.Background(), "Fluorouracil", []domain.PGxVariant{
		{Gene: "DPYD", Variant: "*2A"},
		{Gene: "CYP2C19", Variant: "*2"},
	})

	assert.Equal(t, domain.PGX_SCREENED, result.Status)
	assert.Equal(t, 0.5, result.SafetyScore)
	require.Len(t, result.Variants, 1)
	require.Len(t, result.Caveats, 1)
	assert.Contains(t, result.Caveats[0], "CYP2C19")
}

func TestPGxScreener_GeneNormalization(t *testing.T) {
	screener := NewPGxScreener(&stubPGxLookup{table: map[string]*domain.PGxAssessment{
		"DPYD/*2A": {Tier: domain.TOXICITY_MODERATE, AdjustmentFactor: 0.5},
	}}, testLogger())

	result := screener.Screen(context.Background(), "Fluorouracil", []domain.PGxVariant{{Gene: " dpyd ", Variant: "*2A"}})

	assert.Equal(t, domain.PGX_SCREENED, result.Status)
	assert.Equal(t, 0.5, result.SafetyScore)
}
