package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trialfit-scoring-server/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassifyCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  domain.CompletenessTier
	}{
		{"Absent score defaults to L0", nil, domain.TIER_L0},
		{"Zero", floatPtr(0.0), domain.TIER_L0},
		{"Just below L1 boundary", floatPtr(0.29), domain.TIER_L0},
		{"L1 lower boundary inclusive", floatPtr(0.3), domain.TIER_L1},
		{"Mid L1", floatPtr(0.5), domain.TIER_L1},
		{"Just below L2 boundary", floatPtr(0.69), domain.TIER_L1},
		{"L2 lower boundary inclusive", floatPtr(0.7), domain.TIER_L2},
		{"Full completeness", floatPtr(1.0), domain.TIER_L2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCompleteness(tt.score))
		})
	}
}

func TestCapConfidence(t *testing.T) {
	tests := []struct {
		name        string
		confidence  float64
		tier        domain.CompletenessTier
		want        float64
		wantVerdict domain.Verdict
	}{
		{"L0 caps at 0.4", 0.9, domain.TIER_L0, 0.4, domain.CAPPED},
		{"L0 leaves low confidence alone", 0.3, domain.TIER_L0, 0.3, domain.NO_CAP},
		{"L1 caps at 0.6", 0.8, domain.TIER_L1, 0.6, domain.CAPPED},
		{"L1 boundary is not binding", 0.6, domain.TIER_L1, 0.6, domain.NO_CAP},
		{"L2 never caps", 0.95, domain.TIER_L2, 0.95, domain.NO_CAP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := CapConfidence(tt.confidence, tt.tier)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantVerdict, outcome.Verdict)
			assert.Equal(t, GateIDConfidenceCap, outcome.GateID)
		})
	}
}

func TestCapConfidence_CompletenessScenarios(t *testing.T) {
	// Completeness 0.2 -> L0 ceiling 0.4; 0.5 -> L1 ceiling 0.6; 0.9 -> unchanged.
	tests := []struct {
		completeness float64
		confidence   float64
		maxExpected  float64
	}{
		{0.2, 0.9, 0.4},
		{0.5, 0.9, 0.6},
		{0.9, 0.9, 0.9},
	}

	for _, tt := range tests {
		tier := ClassifyCompleteness(floatPtr(tt.completeness))
		got, _ := CapConfidence(tt.confidence, tier)
		assert.LessOrEqual(t, got, tt.maxExpected)
	}
}
